// Package deriver turns raw platform counters into ratio and currency metrics.
// Every function is pure: identical inputs always give identical outputs.
package deriver

import (
	"fmt"
	"math"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// Options carries the assumptions derivation depends on.
type Options struct {
	// RevenuePerConversion is the assumed average order value. When nil,
	// revenue is not tracked and ROAS/ROI are reported as unavailable.
	RevenuePerConversion *float64
}

// WithRevenue returns options with a revenue-per-conversion assumption.
func WithRevenue(v float64) Options { return Options{RevenuePerConversion: &v} }

// Derive computes the derived metrics of one platform.
func Derive(raw entity.RawPlatformMetrics, opts Options) entity.DerivedMetrics {
	raw = raw.Normalize()
	return DeriveTotals(entity.Totals{
		Impressions: raw.Impressions,
		Clicks:      raw.Clicks,
		Conversions: raw.Conversions,
		Spend:       raw.Spend,
	}, opts)
}

// DeriveTotals computes derived metrics from campaign or summary totals.
func DeriveTotals(t entity.Totals, opts Options) entity.DerivedMetrics {
	impressions := float64(max0(t.Impressions))
	clicks := float64(max0(t.Clicks))
	conversions := float64(max0(t.Conversions))
	spend := maxf(t.Spend)

	d := entity.DerivedMetrics{
		CTR:            safeDiv(clicks, impressions) * 100,
		CPC:            safeDiv(spend, clicks),
		CPA:            safeDiv(spend, conversions),
		ConversionRate: safeDiv(conversions, clicks) * 100,
		Revenue:        entity.Unavailable(),
		ROAS:           entity.Unavailable(),
		ROI:            entity.Unavailable(),
	}
	d.Performance = Classify(d.CTR, t.Impressions)

	if opts.RevenuePerConversion != nil {
		revenue := conversions * maxf(*opts.RevenuePerConversion)
		d.Revenue = entity.Available(revenue)
		d.ROAS = entity.Available(safeDiv(revenue, spend))
		d.ROI = entity.Available(safeDiv(revenue-spend, spend) * 100)
	}
	return d
}

// Classify buckets a CTR (in percent) into a performance class.
func Classify(ctr float64, impressions int64) entity.PerformanceClass {
	if impressions <= 0 {
		return entity.PerformanceNoData
	}
	switch {
	case ctr >= 3:
		return entity.PerformanceExcellent
	case ctr >= 2:
		return entity.PerformanceGood
	case ctr >= 1:
		return entity.PerformanceAverage
	default:
		return entity.PerformancePoor
	}
}

// BudgetUtilization is spend as a percentage of budget, 0 without a budget.
func BudgetUtilization(spend, budget float64) float64 {
	return safeDiv(maxf(spend), maxf(budget)) * 100
}

// SpendShare is a platform's part of the total spend, in percent.
func SpendShare(spend, total float64) float64 {
	return safeDiv(maxf(spend), maxf(total)) * 100
}

// Round2 rounds half away from zero to 2 decimal places. Only formatting
// and report snapshots round; derivation keeps full precision.
func Round2(f float64) float64 { return math.Round(f*100) / 100 }

// FormatCurrency renders an amount with two decimals and a dollar sign.
func FormatCurrency(f float64) string { return fmt.Sprintf("$%.2f", Round2(f)) }

// FormatPercent renders a percentage with two decimals.
func FormatPercent(f float64) string { return fmt.Sprintf("%.2f%%", Round2(f)) }

// FormatRatio renders a multiplier such as ROAS.
func FormatRatio(f float64) string { return fmt.Sprintf("%.2fx", Round2(f)) }

// RequiresConversionValue is shown instead of ROAS/ROI when revenue is not tracked.
const RequiresConversionValue = "requires conversion value"

// FormatOptional renders an optional metric with the given formatter.
func FormatOptional(m entity.OptionalMetric, format func(float64) string) string {
	if !m.Available {
		return RequiresConversionValue
	}
	return format(m.Value)
}

// FormatMetric renders a value according to the metric kind.
func FormatMetric(kind entity.MetricKind, v entity.OptionalMetric) string {
	switch kind {
	case entity.KindCount:
		return FormatOptional(v, func(f float64) string { return fmt.Sprintf("%d", int64(math.Round(f))) })
	case entity.KindCurrency:
		return FormatOptional(v, FormatCurrency)
	case entity.KindPercent:
		return FormatOptional(v, FormatPercent)
	default:
		return FormatOptional(v, FormatRatio)
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	r := a / b
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0
	}
	return r
}

func max0(i int64) int64 {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
