package entity

import "encoding/json"

// OptionalMetric is a derived value that may be unavailable, which is not
// the same as zero.
type OptionalMetric struct {
	Value     float64
	Available bool
}

// Available wraps a computed value.
func Available(v float64) OptionalMetric { return OptionalMetric{Value: v, Available: true} }

// Unavailable marks a metric that cannot be computed from the inputs.
func Unavailable() OptionalMetric { return OptionalMetric{} }

// MarshalJSON encodes unavailable metrics as null.
func (m OptionalMetric) MarshalJSON() ([]byte, error) {
	if !m.Available {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *OptionalMetric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = OptionalMetric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Available(v)
	return nil
}

// PerformanceClass buckets a platform by click-through rate.
type PerformanceClass string

const (
	PerformanceExcellent PerformanceClass = "Excellent"
	PerformanceGood      PerformanceClass = "Good"
	PerformanceAverage   PerformanceClass = "Average"
	PerformancePoor      PerformanceClass = "Poor"
	PerformanceNoData    PerformanceClass = "No Data"
)

// DerivedMetrics is recomputed from raw counters on every evaluation and
// never persisted.
type DerivedMetrics struct {
	CTR            float64          `json:"ctr"`
	CPC            float64          `json:"cpc"`
	CPA            float64          `json:"cpa"`
	ConversionRate float64          `json:"conversion_rate"`
	Revenue        OptionalMetric   `json:"revenue"`
	ROAS           OptionalMetric   `json:"roas"`
	ROI            OptionalMetric   `json:"roi"`
	Performance    PerformanceClass `json:"performance"`
}
