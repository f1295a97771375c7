package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/export"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/registry"
	"github.com/diillson/campaign-analytics-go/internal/application/insights"
	"github.com/diillson/campaign-analytics-go/internal/application/usecase"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
	"github.com/diillson/campaign-analytics-go/pkg/console"
)

// stubBackend serves one campaign with a LinkedIn feed.
type stubBackend struct{}

func (stubBackend) GetCampaign(_ context.Context, id string) (entity.Campaign, error) {
	if id != "c-1" {
		return entity.Campaign{}, fmt.Errorf("%w: %s", types.ErrCampaignNotFound, id)
	}
	return entity.Campaign{
		ID:        "c-1",
		Name:      "Summer Sale",
		Budget:    2000,
		Status:    entity.CampaignActive,
		Platforms: []entity.Platform{entity.PlatformLinkedInAds},
		Totals:    entity.Totals{Impressions: 10000, Clicks: 300, Conversions: 30, Spend: 600},
	}, nil
}

func (stubBackend) GetConnectionStatus(context.Context, string, entity.Platform) bool { return false }

func (stubBackend) GetPlatformMetrics(_ context.Context, _ string, p entity.Platform) (entity.RawPlatformMetrics, error) {
	return entity.RawPlatformMetrics{
		Platform:    p,
		Connected:   true,
		Impressions: 10000,
		Clicks:      300,
		Conversions: 30,
		Spend:       600,
	}, nil
}

func (stubBackend) ListKPIs(context.Context, string) ([]entity.KPI, error) {
	return []entity.KPI{{Target: entity.Target{CampaignID: "c-1", Name: "Leads", CurrentValue: 30, TargetValue: 50}}}, nil
}

func (stubBackend) CreateKPI(_ context.Context, k entity.KPI) (entity.KPI, error) { return k, nil }

func (stubBackend) ListBenchmarks(context.Context, string) ([]entity.Benchmark, error) {
	return nil, nil
}

func (stubBackend) CreateBenchmark(_ context.Context, b entity.Benchmark) (entity.Benchmark, error) {
	return b, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *registry.MemoryRegistry) {
	t.Helper()
	reg := registry.NewMemoryRegistry()
	services := usecase.NewServices(
		stubBackend{},
		export.NewExportRepository(),
		reg,
		console.NewConsole(),
		types.Config{RevenuePerConversion: types.Float64(40)},
		insights.New(0),
	)
	srv := httptest.NewServer(NewRouter(services, zap.NewNop(), NewMetrics("test")))
	t.Cleanup(srv.Close)
	return srv, reg
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthzAndRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "abc-123", resp2.Header.Get(RequestIDHeader))
}

func TestComparison(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/campaigns/c-1/comparison", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Contains(t, body, "campaign")
	assert.Contains(t, body, "comparison")

	resp = do(t, http.MethodGet, srv.URL+"/api/campaigns/missing/comparison", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTargets(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/campaigns/c-1/targets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		KPIs       []map[string]any `json:"kpis"`
		Benchmarks []map[string]any `json:"benchmarks"`
	}
	decode(t, resp, &body)
	assert.Len(t, body.KPIs, 1)
	assert.NotNil(t, body.Benchmarks)
	assert.Empty(t, body.Benchmarks)
}

func TestCreateReport_ReturnsAttachment(t *testing.T) {
	srv, reg := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/reports",
		`{"name":"Weekly","format":"CSV","metrics":["impressions","clicks"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=")
	assert.NotEmpty(t, resp.Header.Get("X-Report-ID"))

	reports, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, entity.ReportGenerated, reports[0].Status)
	assert.Equal(t, reports[0].ID, resp.Header.Get("X-Report-ID"))
}

func TestCreateReport_Scheduled(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/reports",
		`{"name":"Monthly","format":"pdf","schedule":{"enabled":true,"frequency":"monthly","recipients":["ops@example.com"]}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view reportView
	decode(t, resp, &view)
	assert.Equal(t, entity.ReportScheduled, view.Status)
	assert.Equal(t, "c-1", view.CampaignID)
	require.NotNil(t, view.Schedule)
	assert.Equal(t, []string{"ops@example.com"}, view.Schedule.Recipients)
	assert.Empty(t, view.Filename)
}

func TestCreateReport_FieldErrors(t *testing.T) {
	srv, reg := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/reports",
		`{"name":"","format":"xlsx","dateRange":"forever"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "format")
	assert.Contains(t, body.Fields, "dateRange")

	reports, _ := reg.List(context.Background())
	assert.Empty(t, reports)

	resp = do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/reports", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndDeleteReports(t *testing.T) {
	srv, reg := newTestServer(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, reg.Add(ctx, entity.Report{ID: "r-1", Status: entity.ReportGenerated, CreatedAt: now,
		Config: entity.ReportConfig{CampaignID: "c-1", Name: "A", Format: entity.FormatCSV}}))
	require.NoError(t, reg.Add(ctx, entity.Report{ID: "r-2", Status: entity.ReportScheduled, CreatedAt: now,
		Config: entity.ReportConfig{CampaignID: "c-1", Name: "B", Format: entity.FormatPDF}}))
	require.NoError(t, reg.Add(ctx, entity.Report{ID: "r-3", Status: entity.ReportGenerated, CreatedAt: now,
		Config: entity.ReportConfig{CampaignID: "c-2", Name: "C", Format: entity.FormatCSV}}))

	var views []reportView
	resp := do(t, http.MethodGet, srv.URL+"/api/campaigns/c-1/reports", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &views)
	assert.Len(t, views, 2)

	resp = do(t, http.MethodGet, srv.URL+"/api/campaigns/c-1/reports?status=Scheduled", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	views = nil
	decode(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "r-2", views[0].ID)

	resp = do(t, http.MethodGet, srv.URL+"/api/campaigns/c-1/reports?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/reports/r-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/reports/r-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAsk(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/insights", `{"question":"What is my CTR?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answer insights.Answer
	decode(t, resp, &answer)
	assert.Equal(t, "ctr", answer.Rule)
	assert.True(t, answer.Matched)
	assert.Contains(t, answer.Text, "LinkedIn Ads")

	resp = do(t, http.MethodPost, srv.URL+"/api/campaigns/c-1/insights", `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, http.MethodGet, srv.URL+"/api/campaigns/missing/comparison", "")
	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `test_http_requests_total{method="GET",route="/api/campaigns/{campaignID}/comparison",status="404"} 1`)
}
