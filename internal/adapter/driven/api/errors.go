package api

import (
	"fmt"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// ErrorKind categorizes a failed backend call.
type ErrorKind string

const (
	KindTransport       ErrorKind = "transport"
	KindTimeout         ErrorKind = "timeout"
	KindServer          ErrorKind = "server"
	KindReconnect       ErrorKind = "reconnect"
	KindMissingResource ErrorKind = "missing_resource"
	KindNotFound        ErrorKind = "not_found"
)

// Backend error codes.
const (
	CodeRefreshTokenExpired    = "REFRESH_TOKEN_EXPIRED"
	CodeAccessTokenExpired     = "ACCESS_TOKEN_EXPIRED"
	CodeSpreadsheetNotSelected = "SPREADSHEET_NOT_SELECTED"
	CodeNoSpreadsheet          = "NO_SPREADSHEET_CONNECTED"
)

// FetchError is returned by every failed backend call.
type FetchError struct {
	Kind     ErrorKind
	Platform entity.Platform
	Status   int
	Code     string
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	subject := "backend request"
	if e.Platform != "" {
		subject = e.Platform.DisplayName()
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", subject, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", subject, e.Kind, msg)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches the shared sentinel errors for the error's kind.
func (e *FetchError) Is(target error) bool {
	switch e.Kind {
	case KindReconnect:
		return target == types.ErrTokenExpired
	case KindMissingResource:
		return target == types.ErrResourceNotSelected
	case KindTimeout:
		return target == types.ErrRequestTimeout
	case KindNotFound:
		return e.Platform == "" && target == types.ErrCampaignNotFound
	}
	return false
}

// ErrorKind exposes the category to callers that only know the error.
func (e *FetchError) ErrorKind() string { return string(e.Kind) }

// Reconnect reports whether the user has to reconnect the platform.
func (e *FetchError) Reconnect() bool { return e.Kind == KindReconnect }

func kindForCode(code string) (ErrorKind, bool) {
	switch code {
	case CodeRefreshTokenExpired, CodeAccessTokenExpired:
		return KindReconnect, true
	case CodeSpreadsheetNotSelected, CodeNoSpreadsheet:
		return KindMissingResource, true
	}
	return "", false
}
