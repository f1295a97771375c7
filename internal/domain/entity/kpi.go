package entity

import "time"

// TargetStatus classifies progress towards a target.
type TargetStatus string

const (
	StatusExceeding TargetStatus = "Exceeding"
	StatusOnTrack   TargetStatus = "On Track"
	StatusAtRisk    TargetStatus = "At Risk"
	StatusBehind    TargetStatus = "Behind"
)

// Target is the shared shape of KPIs and benchmarks.
type Target struct {
	ID           string    `json:"id,omitempty"`
	CampaignID   string    `json:"campaignId"`
	Name         string    `json:"name"`
	CurrentValue float64   `json:"currentValue"`
	TargetValue  float64   `json:"targetValue"`
	Unit         string    `json:"unit"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Progress is current/target as a percentage. It is not capped.
func (t Target) Progress() float64 {
	if t.TargetValue == 0 {
		return 0
	}
	return t.CurrentValue / t.TargetValue * 100
}

// DisplayProgress caps progress at 100 for progress bars.
func (t Target) DisplayProgress() float64 {
	p := t.Progress()
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Status compares progress with fixed thresholds.
func (t Target) Status() TargetStatus {
	p := t.Progress()
	switch {
	case p > 100:
		return StatusExceeding
	case p >= 90:
		return StatusOnTrack
	case p >= 70:
		return StatusAtRisk
	default:
		return StatusBehind
	}
}

// KPI is a user-defined campaign target.
type KPI struct {
	Target
}

// Benchmark compares a campaign value with an industry reference.
type Benchmark struct {
	Target
	Industry string `json:"industry,omitempty"`
	Source   string `json:"source,omitempty"`
}
