package entity

// CampaignStatus mirrors the lifecycle states exposed by the backend.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignDraft     CampaignStatus = "draft"
)

// Totals are campaign level counters. They are the basis for estimating
// platforms that have no feed of their own.
type Totals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
}

// Add accumulates counters from a platform row.
func (t Totals) Add(m RawPlatformMetrics) Totals {
	t.Impressions += m.Impressions
	t.Clicks += m.Clicks
	t.Conversions += m.Conversions
	t.Spend += m.Spend
	return t
}

// Campaign is the aggregation root for platform metrics.
type Campaign struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Budget    float64        `json:"budget"`
	Status    CampaignStatus `json:"status"`
	Platforms []Platform     `json:"platforms"`
	Totals    Totals         `json:"totals"`

	// Unrecognized holds platform names from the backend that are not known.
	Unrecognized []string `json:"unrecognized_platforms,omitempty"`
}

// Declares reports whether the platform is in the campaign's connected list.
func (c Campaign) Declares(p Platform) bool {
	for _, q := range c.Platforms {
		if q == p {
			return true
		}
	}
	return false
}
