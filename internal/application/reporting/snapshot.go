package reporting

import (
	"time"

	"github.com/google/uuid"

	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// BuildSnapshot assembles the one structure every encoder reads. Values are
// rounded here, once, so every format carries the same numbers.
func BuildSnapshot(cfg entity.ReportConfig, table entity.ComparisonTable, kpis []entity.KPI, benchmarks []entity.Benchmark, now time.Time) entity.ReportSnapshot {
	metrics := cfg.Metrics
	if len(metrics) == 0 {
		metrics = entity.ReportMetrics
	}
	metrics = append([]entity.ReportMetric(nil), metrics...)

	snap := entity.ReportSnapshot{
		ReportName:   ReportName(cfg),
		ReportType:   cfg.Type,
		CampaignID:   table.CampaignID,
		CampaignName: table.CampaignName,
		DateRange:    cfg.DateRange,
		GeneratedAt:  now.UTC(),
		Metrics:      metrics,
		Summary:      values(metrics, table.Summary.Totals, table.Summary.Derived),
		Budget:       deriver.Round2(table.Summary.Budget),
		BudgetUsed:   deriver.Round2(table.Summary.BudgetUtilization),
		Platforms:    make([]entity.SnapshotRow, 0, len(table.Rows)),
		Rankings:     make([]entity.SnapshotRanking, 0, len(entity.RankingMetrics)),
		HasEstimates: table.HasEstimates,
	}
	if snap.CampaignID == "" {
		snap.CampaignID = cfg.CampaignID
	}

	for _, r := range table.Rows {
		snap.Platforms = append(snap.Platforms, entity.SnapshotRow{
			Platform:    r.Platform(),
			Name:        r.Platform().DisplayName(),
			Provenance:  r.Provenance,
			State:       r.State,
			Performance: r.Derived.Performance,
			Values: values(metrics, entity.Totals{
				Impressions: r.Raw.Impressions,
				Clicks:      r.Raw.Clicks,
				Conversions: r.Raw.Conversions,
				Spend:       r.Raw.Spend,
			}, r.Derived),
		})
	}

	for _, m := range entity.RankingMetrics {
		sr := entity.SnapshotRanking{Metric: m, Label: m.Label()}
		if best, ok := table.Best(m); ok {
			sr.Platform = best.Platform
			sr.Value = deriver.Round2(best.Value)
			sr.Found = true
		}
		snap.Rankings = append(snap.Rankings, sr)
	}

	if cfg.IncludeKPIs {
		snap.KPIs = make([]entity.SnapshotTarget, 0, len(kpis))
		for _, k := range kpis {
			snap.KPIs = append(snap.KPIs, target(k.Target))
		}
	}
	if cfg.IncludeBenchmarks {
		snap.Benchmarks = make([]entity.SnapshotTarget, 0, len(benchmarks))
		for _, b := range benchmarks {
			snap.Benchmarks = append(snap.Benchmarks, target(b.Target))
		}
	}
	return snap
}

// ReportName is the configured name, or the template's when none was typed.
func ReportName(cfg entity.ReportConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	if t, ok := Templates[cfg.TemplateID]; ok {
		return t.Name
	}
	return cfg.TemplateID
}

// NewReport creates the registry entry for a delivered report. Scheduled
// reports keep only their definition.
func NewReport(cfg entity.ReportConfig, artifact *entity.Artifact, now time.Time) entity.Report {
	r := entity.Report{
		ID:        uuid.NewString(),
		Config:    cfg,
		Status:    entity.ReportGenerated,
		CreatedAt: now.UTC(),
		Artifact:  artifact,
	}
	if cfg.Schedule.Enabled {
		r.Status = entity.ReportScheduled
		r.Artifact = nil
	}
	return r
}

func values(metrics []entity.ReportMetric, t entity.Totals, d entity.DerivedMetrics) map[entity.ReportMetric]entity.OptionalMetric {
	out := make(map[entity.ReportMetric]entity.OptionalMetric, len(metrics))
	for _, m := range metrics {
		out[m] = rounded(metricValue(m, t, d))
	}
	return out
}

func metricValue(m entity.ReportMetric, t entity.Totals, d entity.DerivedMetrics) entity.OptionalMetric {
	switch m {
	case entity.MetricImpressions:
		return entity.Available(float64(t.Impressions))
	case entity.MetricClicks:
		return entity.Available(float64(t.Clicks))
	case entity.MetricConversions:
		return entity.Available(float64(t.Conversions))
	case entity.MetricSpend:
		return entity.Available(t.Spend)
	case entity.MetricCTR:
		return entity.Available(d.CTR)
	case entity.MetricCPC:
		return entity.Available(d.CPC)
	case entity.MetricCPA:
		return entity.Available(d.CPA)
	case entity.MetricConversionRate:
		return entity.Available(d.ConversionRate)
	case entity.MetricRevenue:
		return d.Revenue
	case entity.MetricROAS:
		return d.ROAS
	case entity.MetricROI:
		return d.ROI
	}
	return entity.Unavailable()
}

func rounded(m entity.OptionalMetric) entity.OptionalMetric {
	if !m.Available {
		return m
	}
	return entity.Available(deriver.Round2(m.Value))
}

func target(t entity.Target) entity.SnapshotTarget {
	return entity.SnapshotTarget{
		Name:         t.Name,
		Category:     t.Category,
		Unit:         t.Unit,
		CurrentValue: deriver.Round2(t.CurrentValue),
		TargetValue:  deriver.Round2(t.TargetValue),
		Progress:     deriver.Round2(t.Progress()),
		Status:       t.Status(),
	}
}
