// Package reporting holds the report builder: a serializable configuration
// state driven by a pure reducer, and the snapshot every encoder reads from.
package reporting

import (
	"time"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// Phase is a step of one report generation.
type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhaseValidating  Phase = "validating"
	PhaseComposing   Phase = "composing"
	PhaseDelivering  Phase = "delivering"
	PhaseDone        Phase = "done"
)

// DefaultDateRange is used when no range was chosen.
const DefaultDateRange = "30d"

// State is the whole report builder. It is a value: Reduce never mutates
// the state it receives.
type State struct {
	Config             entity.ReportConfig `json:"config"`
	Phase              Phase               `json:"phase"`
	FieldErrors        FieldErrors         `json:"fieldErrors,omitempty"`
	ConnectedPlatforms int                 `json:"connectedPlatforms"`
	Artifact           *entity.Artifact    `json:"artifact,omitempty"`
	Report             *entity.Report      `json:"report,omitempty"`
	Err                string              `json:"error,omitempty"`
}

// NewState starts a builder for a campaign with default choices.
func NewState(campaignID string) State {
	return State{
		Config: entity.ReportConfig{
			CampaignID: campaignID,
			DateRange:  DefaultDateRange,
			Format:     entity.FormatCSV,
		},
		Phase: PhaseConfiguring,
	}
}

// Action is an event fed to Reduce.
type Action interface {
	isAction()
}

type (
	// SetName sets the report name.
	SetName struct{ Name string }
	// UseTemplate applies a template's name, type, metrics and sections.
	UseTemplate struct{ TemplateID string }
	// SetMetrics replaces the metric selection.
	SetMetrics struct{ Metrics []entity.ReportMetric }
	// ToggleMetric adds or removes one metric.
	ToggleMetric struct{ Metric entity.ReportMetric }
	// SetFormat picks the output encoding.
	SetFormat struct{ Format entity.ReportFormat }
	// SetDateRange sets the date range token.
	SetDateRange struct{ DateRange string }
	// IncludeSections toggles the KPI and benchmark blocks.
	IncludeSections struct{ KPIs, Benchmarks bool }
	// SetSchedule replaces the schedule descriptor.
	SetSchedule struct{ Schedule entity.Schedule }
	// Submit asks for validation. ConnectedPlatforms is how many platforms
	// of the campaign currently have data.
	Submit struct{ ConnectedPlatforms int }
	// Validate runs the field checks of a submitted configuration. Now
	// anchors relative date ranges.
	Validate struct{ Now time.Time }
	// Composed carries the rendered artifact. It is nil for scheduled reports.
	Composed struct{ Artifact *entity.Artifact }
	// Delivered carries the registry entry that was stored.
	Delivered struct{ Report entity.Report }
	// Fail aborts composing or delivery and returns to configuring.
	Fail struct{ Err error }
	// Reset starts over keeping the campaign.
	Reset struct{}
)

func (SetName) isAction()         {}
func (UseTemplate) isAction()     {}
func (SetMetrics) isAction()      {}
func (ToggleMetric) isAction()    {}
func (SetFormat) isAction()       {}
func (SetDateRange) isAction()    {}
func (IncludeSections) isAction() {}
func (SetSchedule) isAction()     {}
func (Submit) isAction()          {}
func (Validate) isAction()        {}
func (Composed) isAction()        {}
func (Delivered) isAction()       {}
func (Fail) isAction()            {}
func (Reset) isAction()           {}

// Reduce returns the state that follows s after action a. Actions that do
// not apply to the current phase leave the state unchanged.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch act := a.(type) {
	case Reset:
		return NewState(s.Config.CampaignID)

	case SetName, UseTemplate, SetMetrics, ToggleMetric, SetFormat, SetDateRange, IncludeSections, SetSchedule:
		if s.Phase != PhaseConfiguring {
			return s
		}
		edit(&next, act)
		return next

	case Submit:
		if s.Phase != PhaseConfiguring {
			return s
		}
		next.Phase = PhaseValidating
		next.ConnectedPlatforms = act.ConnectedPlatforms
		next.Err = ""
		return next

	case Validate:
		if s.Phase != PhaseValidating {
			return s
		}
		if errs := ValidateConfig(next.Config, next.ConnectedPlatforms, act.Now); len(errs) > 0 {
			next.Phase = PhaseConfiguring
			next.FieldErrors = errs
			return next
		}
		next.FieldErrors = nil
		next.Phase = PhaseComposing
		return next

	case Composed:
		if s.Phase != PhaseComposing {
			return s
		}
		next.Artifact = act.Artifact
		next.Phase = PhaseDelivering
		return next

	case Delivered:
		if s.Phase != PhaseDelivering {
			return s
		}
		r := act.Report
		next.Report = &r
		next.Phase = PhaseDone
		return next

	case Fail:
		if s.Phase != PhaseComposing && s.Phase != PhaseDelivering {
			return s
		}
		next.Phase = PhaseConfiguring
		next.Artifact = nil
		if act.Err != nil {
			next.Err = act.Err.Error()
		}
		return next
	}
	return s
}

// Configure returns the edits that fill a fresh state with cfg. The template
// goes first so explicit fields override it; sections add to the template's.
func Configure(cfg entity.ReportConfig) []Action {
	var actions []Action
	tpl, hasTemplate := Templates[cfg.TemplateID]
	if cfg.TemplateID != "" {
		actions = append(actions, UseTemplate{TemplateID: cfg.TemplateID})
	}
	if cfg.Name != "" {
		actions = append(actions, SetName{Name: cfg.Name})
	}
	if len(cfg.Metrics) > 0 {
		actions = append(actions, SetMetrics{Metrics: cfg.Metrics})
	}
	if cfg.Format != "" {
		actions = append(actions, SetFormat{Format: cfg.Format})
	}
	if cfg.DateRange != "" {
		actions = append(actions, SetDateRange{DateRange: cfg.DateRange})
	}
	if cfg.IncludeKPIs || cfg.IncludeBenchmarks || !hasTemplate {
		actions = append(actions, IncludeSections{
			KPIs:       cfg.IncludeKPIs || tpl.IncludeKPIs,
			Benchmarks: cfg.IncludeBenchmarks || tpl.IncludeBenchmarks,
		})
	}
	if cfg.Schedule.Enabled || len(cfg.Schedule.Recipients) > 0 {
		actions = append(actions, SetSchedule{Schedule: cfg.Schedule})
	}
	return actions
}

// Apply feeds actions to Reduce in order.
func Apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func edit(s *State, a Action) {
	c := &s.Config
	switch act := a.(type) {
	case SetName:
		c.Name = act.Name
		s.FieldErrors.clear("name")
	case UseTemplate:
		applyTemplate(c, act.TemplateID)
		s.FieldErrors.clear("name", "metrics")
	case SetMetrics:
		c.Metrics = append([]entity.ReportMetric(nil), act.Metrics...)
		s.FieldErrors.clear("metrics")
	case ToggleMetric:
		c.Metrics = toggle(c.Metrics, act.Metric)
		s.FieldErrors.clear("metrics")
	case SetFormat:
		c.Format = act.Format
		s.FieldErrors.clear("format")
	case SetDateRange:
		c.DateRange = act.DateRange
		s.FieldErrors.clear("dateRange")
	case IncludeSections:
		c.IncludeKPIs = act.KPIs
		c.IncludeBenchmarks = act.Benchmarks
	case SetSchedule:
		c.Schedule = act.Schedule
		c.Schedule.Recipients = append([]string(nil), act.Schedule.Recipients...)
		s.FieldErrors.clear("recipients", "schedule.frequency", "schedule.time")
	}
}

func toggle(metrics []entity.ReportMetric, m entity.ReportMetric) []entity.ReportMetric {
	out := make([]entity.ReportMetric, 0, len(metrics)+1)
	found := false
	for _, x := range metrics {
		if x == m {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, m)
	}
	return out
}

func (s State) clone() State {
	c := s
	c.Config.Metrics = append([]entity.ReportMetric(nil), s.Config.Metrics...)
	c.Config.Schedule.Recipients = append([]string(nil), s.Config.Schedule.Recipients...)
	if s.FieldErrors != nil {
		c.FieldErrors = make(FieldErrors, len(s.FieldErrors))
		for k, v := range s.FieldErrors {
			c.FieldErrors[k] = v
		}
	}
	return c
}
