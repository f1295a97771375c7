package aggregator

import (
	"math"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// EstimationStrategy produces metrics for a platform that has no feed of its
// own. ok is false when the strategy cannot estimate the platform.
type EstimationStrategy interface {
	Estimate(platform entity.Platform, totals entity.Totals) (metrics entity.RawPlatformMetrics, ok bool)
}

// Share is the percentage of each campaign total attributed to a platform.
type Share struct {
	Impressions float64
	Clicks      float64
	Spend       float64
	Conversions float64
}

// ShareTable estimates platforms as fixed percentages of campaign totals.
type ShareTable map[entity.Platform]Share

// DefaultShareTable holds placeholder shares used until real per-platform
// data is available. Override them through configuration.
var DefaultShareTable = ShareTable{
	entity.PlatformFacebookAds: {Impressions: 35, Clicks: 32, Spend: 38, Conversions: 28},
	entity.PlatformGoogleAds:   {Impressions: 40, Clicks: 45, Spend: 42, Conversions: 50},
	entity.PlatformTwitterAds:  {Impressions: 25, Clicks: 23, Spend: 20, Conversions: 22},
}

// Estimate implements EstimationStrategy.
func (t ShareTable) Estimate(p entity.Platform, totals entity.Totals) (entity.RawPlatformMetrics, bool) {
	s, ok := t[p]
	if !ok {
		return entity.RawPlatformMetrics{Platform: p}, false
	}
	return entity.RawPlatformMetrics{
		Platform:    p,
		Connected:   true,
		Impressions: portion(totals.Impressions, s.Impressions),
		Clicks:      portion(totals.Clicks, s.Clicks),
		Conversions: portion(totals.Conversions, s.Conversions),
		Spend:       nonNegative(totals.Spend) * clampPct(s.Spend) / 100,
	}.Normalize(), true
}

// ShareTableFromConfig merges configured shares over the defaults. Unknown
// platform names are skipped.
func ShareTableFromConfig(cfg map[string]types.PlatformShare) ShareTable {
	out := ShareTable{}
	for p, s := range DefaultShareTable {
		out[p] = s
	}
	for name, s := range cfg {
		p, ok := entity.ParsePlatform(name)
		if !ok {
			continue
		}
		out[p] = Share{
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
			Spend:       s.Spend,
			Conversions: s.Conversions,
		}
	}
	return out
}

func portion(total int64, pct float64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Round(float64(total) * clampPct(pct) / 100))
}

func clampPct(pct float64) float64 {
	switch {
	case pct < 0 || math.IsNaN(pct):
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
