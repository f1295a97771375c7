package reporting

import (
	"sort"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// Template is a preset report configuration.
type Template struct {
	ID                string
	Name              string
	Metrics           []entity.ReportMetric
	IncludeKPIs       bool
	IncludeBenchmarks bool
}

// Templates are the presets offered by the report builder.
var Templates = map[string]Template{
	"performance-summary": {
		ID:   "performance-summary",
		Name: "Performance Summary",
		Metrics: []entity.ReportMetric{
			entity.MetricImpressions, entity.MetricClicks, entity.MetricConversions,
			entity.MetricSpend, entity.MetricCTR, entity.MetricCPA,
		},
	},
	"platform-comparison": {
		ID:   "platform-comparison",
		Name: "Platform Comparison",
		Metrics: []entity.ReportMetric{
			entity.MetricSpend, entity.MetricCTR, entity.MetricCPC,
			entity.MetricConversionRate, entity.MetricROAS,
		},
	},
	"roi-analysis": {
		ID:   "roi-analysis",
		Name: "ROI Analysis",
		Metrics: []entity.ReportMetric{
			entity.MetricSpend, entity.MetricConversions, entity.MetricRevenue,
			entity.MetricROAS, entity.MetricROI,
		},
		IncludeBenchmarks: true,
	},
	"kpi-tracking": {
		ID:          "kpi-tracking",
		Name:        "KPI Tracking",
		Metrics:     []entity.ReportMetric{entity.MetricConversions, entity.MetricCTR, entity.MetricCPA},
		IncludeKPIs: true,
	},
}

// TemplateIDs lists the template ids in alphabetical order.
func TemplateIDs() []string {
	ids := make([]string, 0, len(Templates))
	for id := range Templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyTemplate fills in the preset. A name the user already typed is kept.
func applyTemplate(c *entity.ReportConfig, id string) {
	c.TemplateID = id
	t, ok := Templates[id]
	if !ok {
		return
	}
	c.Type = t.ID
	if c.Name == "" {
		c.Name = t.Name
	}
	c.Metrics = append([]entity.ReportMetric(nil), t.Metrics...)
	c.IncludeKPIs = t.IncludeKPIs
	c.IncludeBenchmarks = t.IncludeBenchmarks
}
