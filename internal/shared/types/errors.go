package types

import "errors"

var (
	ErrCampaignRequired    = errors.New("no campaign specified. Use --campaign or set campaign in the config file")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrAPINotConfigured    = errors.New("backend API URL is not configured")
	ErrTokenExpired        = errors.New("platform token expired; reconnect the platform")
	ErrResourceNotSelected = errors.New("platform resource not selected; select it in the platform settings")
	ErrRequestTimeout      = errors.New("request timed out")
	ErrReportNotFound      = errors.New("report not found")
	ErrUnsupportedFormat   = errors.New("unsupported report format")
	ErrUnsupportedRegistry = errors.New("unsupported report registry backend")
)
