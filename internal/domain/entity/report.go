package entity

import "time"

// ReportFormat is an output encoding.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatPDF  ReportFormat = "pdf"
)

// ReportFormats lists the supported encodings.
var ReportFormats = []ReportFormat{FormatCSV, FormatText, FormatJSON, FormatPDF}

// Valid reports whether f is a supported format.
func (f ReportFormat) Valid() bool {
	for _, g := range ReportFormats {
		if f == g {
			return true
		}
	}
	return false
}

// ReportStatus is the registry status of a report.
type ReportStatus string

const (
	ReportScheduled ReportStatus = "Scheduled"
	ReportGenerated ReportStatus = "Generated"
)

// MetricKind drives number formatting.
type MetricKind int

const (
	KindCount MetricKind = iota
	KindCurrency
	KindPercent
	KindRatio
)

// ReportMetric is a selectable report column.
type ReportMetric string

const (
	MetricImpressions    ReportMetric = "impressions"
	MetricClicks         ReportMetric = "clicks"
	MetricConversions    ReportMetric = "conversions"
	MetricSpend          ReportMetric = "spend"
	MetricCTR            ReportMetric = "ctr"
	MetricCPC            ReportMetric = "cpc"
	MetricCPA            ReportMetric = "cpa"
	MetricConversionRate ReportMetric = "conversion_rate"
	MetricRevenue        ReportMetric = "revenue"
	MetricROAS           ReportMetric = "roas"
	MetricROI            ReportMetric = "roi"
)

// ReportMetrics lists the selectable columns in report order.
var ReportMetrics = []ReportMetric{
	MetricImpressions,
	MetricClicks,
	MetricConversions,
	MetricSpend,
	MetricCTR,
	MetricCPC,
	MetricCPA,
	MetricConversionRate,
	MetricRevenue,
	MetricROAS,
	MetricROI,
}

var metricInfo = map[ReportMetric]struct {
	label string
	kind  MetricKind
}{
	MetricImpressions:    {"Impressions", KindCount},
	MetricClicks:         {"Clicks", KindCount},
	MetricConversions:    {"Conversions", KindCount},
	MetricSpend:          {"Spend", KindCurrency},
	MetricCTR:            {"CTR", KindPercent},
	MetricCPC:            {"CPC", KindCurrency},
	MetricCPA:            {"CPA", KindCurrency},
	MetricConversionRate: {"Conversion Rate", KindPercent},
	MetricRevenue:        {"Revenue", KindCurrency},
	MetricROAS:           {"ROAS", KindRatio},
	MetricROI:            {"ROI", KindPercent},
}

// Valid reports whether m is a known metric.
func (m ReportMetric) Valid() bool {
	_, ok := metricInfo[m]
	return ok
}

// Label returns the column header.
func (m ReportMetric) Label() string {
	if i, ok := metricInfo[m]; ok {
		return i.label
	}
	return string(m)
}

// Kind returns how values of m are formatted.
func (m ReportMetric) Kind() MetricKind { return metricInfo[m].kind }

// Schedule describes a recurring delivery.
type Schedule struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	Frequency  string   `json:"frequency,omitempty" yaml:"frequency"`
	Day        string   `json:"day,omitempty" yaml:"day"`
	Time       string   `json:"time,omitempty" yaml:"time"`
	Recipients []string `json:"recipients,omitempty" yaml:"recipients"`
}

// ReportConfig is the serializable state of the report builder form.
type ReportConfig struct {
	CampaignID        string         `json:"campaignId" yaml:"campaign_id"`
	Name              string         `json:"name" yaml:"name"`
	TemplateID        string         `json:"templateId,omitempty" yaml:"template_id"`
	Type              string         `json:"type,omitempty" yaml:"type"`
	Metrics           []ReportMetric `json:"metrics" yaml:"metrics"`
	DateRange         string         `json:"dateRange" yaml:"date_range"`
	Format            ReportFormat   `json:"format" yaml:"format"`
	IncludeKPIs       bool           `json:"includeKpis" yaml:"include_kpis"`
	IncludeBenchmarks bool           `json:"includeBenchmarks" yaml:"include_benchmarks"`
	Schedule          Schedule       `json:"schedule" yaml:"schedule"`
}

// Artifact is a rendered report ready for download.
type Artifact struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Content  []byte `json:"content"`
}

// Report is a registry entry. It is never mutated after creation.
type Report struct {
	ID        string       `json:"id"`
	Config    ReportConfig `json:"config"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	Artifact  *Artifact    `json:"artifact,omitempty"`
}

// SnapshotRow is one platform line of a report.
type SnapshotRow struct {
	Platform    Platform                        `json:"platform"`
	Name        string                          `json:"name"`
	Provenance  Provenance                      `json:"provenance"`
	State       LoadState                       `json:"state"`
	Performance PerformanceClass                `json:"performance"`
	Values      map[ReportMetric]OptionalMetric `json:"values"`
}

// SnapshotRanking is a best-performer line of a report.
type SnapshotRanking struct {
	Metric   RankingMetric `json:"metric"`
	Label    string        `json:"label"`
	Platform Platform      `json:"platform,omitempty"`
	Value    float64       `json:"value"`
	Found    bool          `json:"found"`
}

// SnapshotTarget is a KPI or benchmark line of a report.
type SnapshotTarget struct {
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Unit         string       `json:"unit"`
	CurrentValue float64      `json:"currentValue"`
	TargetValue  float64      `json:"targetValue"`
	Progress     float64      `json:"progress"`
	Status       TargetStatus `json:"status"`
}

// ReportSnapshot is the single aggregated input every encoder reads from.
// Values are already rounded, so every format carries the same numbers.
type ReportSnapshot struct {
	ReportName   string                          `json:"reportName"`
	ReportType   string                          `json:"reportType,omitempty"`
	CampaignID   string                          `json:"campaignId"`
	CampaignName string                          `json:"campaignName"`
	DateRange    string                          `json:"dateRange"`
	GeneratedAt  time.Time                       `json:"generatedAt"`
	Metrics      []ReportMetric                  `json:"metrics"`
	Summary      map[ReportMetric]OptionalMetric `json:"summary"`
	Budget       float64                         `json:"budget"`
	BudgetUsed   float64                         `json:"budgetUtilization"`
	Platforms    []SnapshotRow                   `json:"platforms"`
	Rankings     []SnapshotRanking               `json:"rankings"`
	KPIs         []SnapshotTarget                `json:"kpis,omitempty"`
	Benchmarks   []SnapshotTarget                `json:"benchmarks,omitempty"`
	HasEstimates bool                            `json:"hasEstimates"`
}
