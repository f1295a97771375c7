package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// MockCampaignRepository is a mock implementation of CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetCampaign(ctx context.Context, campaignID string) (entity.Campaign, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) GetConnectionStatus(ctx context.Context, campaignID string, platform entity.Platform) bool {
	args := m.Called(ctx, campaignID, platform)
	return args.Bool(0)
}

func (m *MockCampaignRepository) GetPlatformMetrics(ctx context.Context, campaignID string, platform entity.Platform) (entity.RawPlatformMetrics, error) {
	args := m.Called(ctx, campaignID, platform)
	return args.Get(0).(entity.RawPlatformMetrics), args.Error(1)
}

func (m *MockCampaignRepository) ListKPIs(ctx context.Context, campaignID string) ([]entity.KPI, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]entity.KPI), args.Error(1)
}

func (m *MockCampaignRepository) CreateKPI(ctx context.Context, kpi entity.KPI) (entity.KPI, error) {
	args := m.Called(ctx, kpi)
	return args.Get(0).(entity.KPI), args.Error(1)
}

func (m *MockCampaignRepository) ListBenchmarks(ctx context.Context, campaignID string) ([]entity.Benchmark, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]entity.Benchmark), args.Error(1)
}

func (m *MockCampaignRepository) CreateBenchmark(ctx context.Context, benchmark entity.Benchmark) (entity.Benchmark, error) {
	args := m.Called(ctx, benchmark)
	return args.Get(0).(entity.Benchmark), args.Error(1)
}

// MockExportRepository is a mock implementation of ExportRepository
type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) Encode(snapshot entity.ReportSnapshot, format entity.ReportFormat) (entity.Artifact, error) {
	args := m.Called(snapshot, format)
	return args.Get(0).(entity.Artifact), args.Error(1)
}

func (m *MockExportRepository) Deliver(artifact entity.Artifact, outputDir string) (string, error) {
	args := m.Called(artifact, outputDir)
	return args.String(0), args.Error(1)
}

// fakeRegistry keeps reports in insertion order.
type fakeRegistry struct {
	mu      sync.Mutex
	reports []entity.Report
	addErr  error
}

func (f *fakeRegistry) Add(_ context.Context, r entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeRegistry) List(_ context.Context) ([]entity.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Report{}, f.reports...), nil
}

func (f *fakeRegistry) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reports {
		if r.ID == id {
			f.reports = append(f.reports[:i], f.reports[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
}

// recordingConsole captures console output for assertions.
type recordingConsole struct {
	mu       sync.Mutex
	lines    []string
	bars     map[string][]types.TargetBar
	progress int
}

func newRecordingConsole() *recordingConsole {
	return &recordingConsole{bars: map[string][]types.TargetBar{}}
}

func (c *recordingConsole) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, s)
}

func (c *recordingConsole) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

func (c *recordingConsole) Print(a ...interface{})                 { c.add(fmt.Sprint(a...)) }
func (c *recordingConsole) Printf(format string, a ...interface{}) { c.add(fmt.Sprintf(format, a...)) }
func (c *recordingConsole) Println(a ...interface{})               { c.add(fmt.Sprint(a...)) }

func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.add("INFO " + fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.add("WARN " + fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.add("ERROR " + fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.add("OK " + fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Status(string) types.StatusHandle { return nopHandle{} }

func (c *recordingConsole) ProgressWithTotal(int) types.ProgressHandle {
	return &countingProgress{console: c}
}

func (c *recordingConsole) CreateTable() types.TableInterface { return &recordingTable{} }

func (c *recordingConsole) DisplayPanel(title, body string) {
	c.add("[" + title + "]\n" + body)
}

func (c *recordingConsole) DisplayTargetBars(title string, bars []types.TargetBar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bars[title] = bars
}

type nopHandle struct{}

func (nopHandle) Update(string) {}
func (nopHandle) Stop()         {}

type countingProgress struct {
	console *recordingConsole
}

func (p *countingProgress) Increment() {
	p.console.mu.Lock()
	defer p.console.mu.Unlock()
	p.console.progress++
}

func (p *countingProgress) Stop() {}

type recordingTable struct {
	columns []string
	rows    [][]string
}

func (t *recordingTable) AddColumn(name string, _ ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *recordingTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *recordingTable) Render() string {
	out := []string{strings.Join(t.columns, " | ")}
	for _, r := range t.rows {
		out = append(out, strings.Join(r, " | "))
	}
	return strings.Join(out, "\n")
}
