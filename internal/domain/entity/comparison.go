package entity

// Provenance tells measured rows apart from synthetic breakdowns.
type Provenance string

const (
	ProvenanceReal      Provenance = "real"
	ProvenanceEstimated Provenance = "estimated"
)

// LoadState describes how a platform's data arrived.
type LoadState string

const (
	LoadStateLoaded       LoadState = "loaded"
	LoadStateLoading      LoadState = "loading"
	LoadStateError        LoadState = "error"
	LoadStateDisconnected LoadState = "disconnected"
)

// PlatformRow is one line of the comparison table.
type PlatformRow struct {
	Raw        RawPlatformMetrics `json:"raw"`
	Derived    DerivedMetrics     `json:"derived"`
	Provenance Provenance         `json:"provenance"`
	State      LoadState          `json:"state"`

	// ErrorKind and Error are set when State is LoadStateError.
	ErrorKind  string  `json:"error_kind,omitempty"`
	Error      string  `json:"error,omitempty"`
	SpendShare float64 `json:"spend_share"`
}

// Platform is a shortcut for Raw.Platform.
func (r PlatformRow) Platform() Platform { return r.Raw.Platform }

// Connected reports whether the row takes part in rankings.
func (r PlatformRow) Connected() bool { return r.Raw.Connected }

// RankingMetric names a best-performer reduction.
type RankingMetric string

const (
	RankBestCTR         RankingMetric = "best_ctr"
	RankLowestCPC       RankingMetric = "lowest_cpc"
	RankHighestROAS     RankingMetric = "highest_roas"
	RankHighestROI      RankingMetric = "highest_roi"
	RankMostConversions RankingMetric = "most_conversions"
)

// RankingMetrics lists the rankings in display order.
var RankingMetrics = []RankingMetric{
	RankBestCTR,
	RankLowestCPC,
	RankHighestROAS,
	RankHighestROI,
	RankMostConversions,
}

// Label returns a display label for the ranking.
func (m RankingMetric) Label() string {
	switch m {
	case RankBestCTR:
		return "Best CTR"
	case RankLowestCPC:
		return "Lowest CPC"
	case RankHighestROAS:
		return "Highest ROAS"
	case RankHighestROI:
		return "Highest ROI"
	case RankMostConversions:
		return "Most Conversions"
	}
	return string(m)
}

// Ranking is the winner of one reduction.
type Ranking struct {
	Platform Platform `json:"platform"`
	Value    float64  `json:"value"`
}

// Summary aggregates the connected rows.
type Summary struct {
	Totals            Totals         `json:"totals"`
	Derived           DerivedMetrics `json:"derived"`
	Budget            float64        `json:"budget"`
	BudgetUtilization float64        `json:"budget_utilization"`
	ConnectedCount    int            `json:"connected_count"`
}

// ComparisonTable is the unified per-platform view of a campaign.
type ComparisonTable struct {
	CampaignID   string                    `json:"campaign_id"`
	CampaignName string                    `json:"campaign_name"`
	Rows         []PlatformRow             `json:"rows"`
	Rankings     map[RankingMetric]Ranking `json:"rankings"`
	Summary      Summary                   `json:"summary"`
	HasEstimates bool                      `json:"has_estimates"`
}

// Best returns the winner of a ranking. ok is false when no platform has
// data for it.
func (t ComparisonTable) Best(m RankingMetric) (Ranking, bool) {
	r, ok := t.Rankings[m]
	return r, ok
}

// Row looks up the row of a platform.
func (t ComparisonTable) Row(p Platform) (PlatformRow, bool) {
	for _, r := range t.Rows {
		if r.Raw.Platform == p {
			return r, true
		}
	}
	return PlatformRow{}, false
}

// ConnectedRows returns the rows that take part in rankings.
func (t ComparisonTable) ConnectedRows() []PlatformRow {
	out := []PlatformRow{}
	for _, r := range t.Rows {
		if r.Connected() {
			out = append(out, r)
		}
	}
	return out
}
