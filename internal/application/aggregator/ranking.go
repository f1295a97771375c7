package aggregator

import (
	"sort"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// Rank computes best-performer rankings over the connected rows. Ties go to
// the platform that comes first in canonical order.
func Rank(rows []entity.PlatformRow) map[entity.RankingMetric]entity.Ranking {
	candidates := make([]entity.PlatformRow, 0, len(rows))
	for _, r := range rows {
		if r.Connected() {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Platform().Order() < candidates[j].Platform().Order()
	})

	out := map[entity.RankingMetric]entity.Ranking{}
	if len(candidates) == 0 {
		return out
	}

	setMax(out, entity.RankBestCTR, candidates, func(r entity.PlatformRow) (float64, bool) {
		return r.Derived.CTR, true
	})
	setMax(out, entity.RankHighestROAS, candidates, func(r entity.PlatformRow) (float64, bool) {
		return r.Derived.ROAS.Value, r.Derived.ROAS.Available
	})
	setMax(out, entity.RankHighestROI, candidates, func(r entity.PlatformRow) (float64, bool) {
		return r.Derived.ROI.Value, r.Derived.ROI.Available
	})
	setMax(out, entity.RankMostConversions, candidates, func(r entity.PlatformRow) (float64, bool) {
		return float64(r.Raw.Conversions), true
	})

	// a zero CPC means no clicks were recorded, not free clicks
	paid := make([]entity.PlatformRow, 0, len(candidates))
	for _, r := range candidates {
		if r.Derived.CPC > 0 {
			paid = append(paid, r)
		}
	}
	if len(paid) == 0 {
		paid = candidates
	}
	setMin(out, entity.RankLowestCPC, paid, func(r entity.PlatformRow) (float64, bool) {
		return r.Derived.CPC, true
	})

	return out
}

func setMax(out map[entity.RankingMetric]entity.Ranking, m entity.RankingMetric, rows []entity.PlatformRow, value func(entity.PlatformRow) (float64, bool)) {
	best, found := entity.Ranking{}, false
	for _, r := range rows {
		v, ok := value(r)
		if !ok {
			continue
		}
		if !found || v > best.Value {
			best, found = entity.Ranking{Platform: r.Platform(), Value: v}, true
		}
	}
	if found {
		out[m] = best
	}
}

func setMin(out map[entity.RankingMetric]entity.Ranking, m entity.RankingMetric, rows []entity.PlatformRow, value func(entity.PlatformRow) (float64, bool)) {
	best, found := entity.Ranking{}, false
	for _, r := range rows {
		v, ok := value(r)
		if !ok {
			continue
		}
		if !found || v < best.Value {
			best, found = entity.Ranking{Platform: r.Platform(), Value: v}, true
		}
	}
	if found {
		out[m] = best
	}
}
