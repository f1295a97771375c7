// Package api talks to the marketing backend that owns campaigns, platform
// connections, KPIs and benchmarks.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// HTTPClient is the part of *http.Client the repository needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CampaignRepositoryImpl implements repository.CampaignRepository over HTTP.
type CampaignRepositoryImpl struct {
	baseURL string
	token   string
	timeout time.Duration
	httpc   HTTPClient
}

// NewCampaignRepository builds a repository from the configuration.
func NewCampaignRepository(cfg *types.Config) (repository.CampaignRepository, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, types.ErrAPINotConfigured
	}
	timeout := cfg.Timeout()
	return NewCampaignRepositoryWithClient(cfg.APIBaseURL, cfg.APIToken, timeout, &http.Client{Timeout: timeout}), nil
}

// NewCampaignRepositoryWithClient uses the given HTTP client.
func NewCampaignRepositoryWithClient(baseURL, token string, timeout time.Duration, httpc HTTPClient) *CampaignRepositoryImpl {
	if timeout <= 0 {
		timeout = types.DefaultTimeoutSeconds * time.Second
	}
	return &CampaignRepositoryImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		httpc:   httpc,
	}
}

type campaignPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Budget      flexFloat       `json:"budget"`
	Status      string          `json:"status"`
	Platforms   json.RawMessage `json:"platforms"`
	Platform    string          `json:"platform"`
	Impressions flexFloat       `json:"impressions"`
	Clicks      flexFloat       `json:"clicks"`
	Conversions flexFloat       `json:"conversions"`
	Spend       flexFloat       `json:"spend"`
}

// GetCampaign loads a campaign. A 404 is reported as types.ErrCampaignNotFound.
func (r *CampaignRepositoryImpl) GetCampaign(ctx context.Context, campaignID string) (entity.Campaign, error) {
	if strings.TrimSpace(campaignID) == "" {
		return entity.Campaign{}, types.ErrCampaignRequired
	}

	var p campaignPayload
	if err := r.do(ctx, http.MethodGet, "/api/campaigns/"+url.PathEscape(campaignID), "", nil, &p); err != nil {
		return entity.Campaign{}, err
	}

	platforms, unknown := entity.ParsePlatformList(platformList(p.Platforms, p.Platform))
	c := entity.Campaign{
		ID:           p.ID,
		Name:         p.Name,
		Budget:       float64(p.Budget),
		Status:       entity.CampaignStatus(strings.ToLower(p.Status)),
		Platforms:    platforms,
		Unrecognized: unknown,
		Totals: entity.Totals{
			Impressions: int64(p.Impressions),
			Clicks:      int64(p.Clicks),
			Conversions: int64(p.Conversions),
			Spend:       float64(p.Spend),
		},
	}
	if c.ID == "" {
		c.ID = campaignID
	}
	if c.Status == "" {
		c.Status = entity.CampaignActive
	}
	return c, nil
}

// GetConnectionStatus reports whether a platform is connected to the
// campaign. Any failure counts as not connected.
func (r *CampaignRepositoryImpl) GetConnectionStatus(ctx context.Context, campaignID string, platform entity.Platform) bool {
	var out struct {
		Connected bool `json:"connected"`
	}
	query := url.Values{"campaignId": {campaignID}}.Encode()
	if err := r.do(ctx, http.MethodGet, "/api/platforms/"+url.PathEscape(string(platform))+"/status", query, nil, &out); err != nil {
		return false
	}
	return out.Connected
}

// GetPlatformMetrics loads the counters of a platform with its own feed.
func (r *CampaignRepositoryImpl) GetPlatformMetrics(ctx context.Context, campaignID string, platform entity.Platform) (entity.RawPlatformMetrics, error) {
	var out struct {
		Connected   *bool     `json:"connected"`
		Impressions flexFloat `json:"impressions"`
		Clicks      flexFloat `json:"clicks"`
		Conversions flexFloat `json:"conversions"`
		Spend       flexFloat `json:"spend"`
	}
	path := fmt.Sprintf("/api/campaigns/%s/platforms/%s/metrics", url.PathEscape(campaignID), url.PathEscape(string(platform)))
	if err := r.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			fe.Platform = platform
		}
		return entity.RawPlatformMetrics{Platform: platform}, err
	}

	m := entity.RawPlatformMetrics{
		Platform:    platform,
		Connected:   out.Connected == nil || *out.Connected,
		Impressions: int64(out.Impressions),
		Clicks:      int64(out.Clicks),
		Conversions: int64(out.Conversions),
		Spend:       float64(out.Spend),
	}
	return m.Normalize(), nil
}

// ListKPIs returns the KPIs of a campaign, never nil.
func (r *CampaignRepositoryImpl) ListKPIs(ctx context.Context, campaignID string) ([]entity.KPI, error) {
	out := []entity.KPI{}
	if err := r.do(ctx, http.MethodGet, "/api/campaigns/"+url.PathEscape(campaignID)+"/kpis", "", nil, &out); err != nil {
		return []entity.KPI{}, err
	}
	if out == nil {
		out = []entity.KPI{}
	}
	return out, nil
}

// CreateKPI stores a KPI and returns it as saved by the backend.
func (r *CampaignRepositoryImpl) CreateKPI(ctx context.Context, kpi entity.KPI) (entity.KPI, error) {
	var out entity.KPI
	if err := r.do(ctx, http.MethodPost, "/api/campaigns/"+url.PathEscape(kpi.CampaignID)+"/kpis", "", kpi, &out); err != nil {
		return entity.KPI{}, err
	}
	return out, nil
}

// ListBenchmarks returns the benchmarks of a campaign, never nil.
func (r *CampaignRepositoryImpl) ListBenchmarks(ctx context.Context, campaignID string) ([]entity.Benchmark, error) {
	out := []entity.Benchmark{}
	if err := r.do(ctx, http.MethodGet, "/api/campaigns/"+url.PathEscape(campaignID)+"/benchmarks", "", nil, &out); err != nil {
		return []entity.Benchmark{}, err
	}
	if out == nil {
		out = []entity.Benchmark{}
	}
	return out, nil
}

// CreateBenchmark stores a benchmark and returns it as saved by the backend.
func (r *CampaignRepositoryImpl) CreateBenchmark(ctx context.Context, b entity.Benchmark) (entity.Benchmark, error) {
	var out entity.Benchmark
	if err := r.do(ctx, http.MethodPost, "/api/campaigns/"+url.PathEscape(b.CampaignID)+"/benchmarks", "", b, &out); err != nil {
		return entity.Benchmark{}, err
	}
	return out, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// do performs one request bounded by the configured timeout and decodes the
// JSON response into out. Requests are never retried.
func (r *CampaignRepositoryImpl) do(ctx context.Context, method, path, query string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := r.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &FetchError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return &FetchError{Kind: KindTimeout, Message: fmt.Sprintf("no response after %s", r.timeout), Err: err}
		}
		return &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(ctx, err) {
			return &FetchError{Kind: KindTimeout, Err: err}
		}
		return &FetchError{Kind: KindTransport, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	fe := &FetchError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Error}
	if fe.Message == "" {
		fe.Message = eb.Message
	}
	if fe.Message == "" {
		fe.Message = strings.TrimSpace(string(raw))
	}
	if fe.Message == "" {
		fe.Message = http.StatusText(resp.StatusCode)
	}

	if kind, ok := kindForCode(eb.Code); ok {
		fe.Kind = kind
		return fe
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		fe.Kind = KindNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		fe.Kind = KindReconnect
	default:
		fe.Kind = KindServer
	}
	return fe
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// platformList accepts the platform list as a comma separated string or a
// JSON array, falling back to the single platform field.
func platformList(raw json.RawMessage, single string) string {
	if len(raw) > 0 && string(raw) != "null" {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return strings.Join(list, ",")
		}
	}
	return single
}

// flexFloat decodes numbers the backend may send as JSON strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = flexFloat(v)
	return nil
}
