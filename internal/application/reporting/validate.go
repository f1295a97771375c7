package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// FieldErrors maps a form field to the problem found with it.
type FieldErrors map[string]string

// Error lists the field errors in a stable order.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) clear(fields ...string) {
	for _, k := range fields {
		delete(f, k)
	}
}

var frequencies = map[string]bool{"daily": true, "weekly": true, "monthly": true}

// ValidateConfig checks a report configuration against the campaign's
// connected platforms. It returns nil when the report can be composed.
func ValidateConfig(cfg entity.ReportConfig, connectedPlatforms int, now time.Time) FieldErrors {
	errs := ValidateForm(cfg, now)
	if errs == nil {
		errs = FieldErrors{}
	}
	if connectedPlatforms <= 0 {
		errs["platforms"] = "at least one connected platform is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateForm runs the checks that need nothing but the configuration, so
// a bad form is rejected before any campaign data is fetched.
func ValidateForm(cfg entity.ReportConfig, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(cfg.Name) == "" && strings.TrimSpace(cfg.TemplateID) == "" {
		errs["name"] = "a report name or template is required"
	}
	if cfg.TemplateID != "" {
		if _, ok := Templates[cfg.TemplateID]; !ok {
			errs["name"] = fmt.Sprintf("unknown template %q", cfg.TemplateID)
		}
	}
	if !cfg.Format.Valid() {
		errs["format"] = fmt.Sprintf("unsupported format %q", cfg.Format)
	}
	for _, m := range cfg.Metrics {
		if !m.Valid() {
			errs["metrics"] = fmt.Sprintf("unknown metric %q", m)
			break
		}
	}
	if _, _, err := ParseDateRange(cfg.DateRange, now); err != nil {
		errs["dateRange"] = err.Error()
	}

	if cfg.Schedule.Enabled {
		if len(Recipients(cfg.Schedule.Recipients)) == 0 {
			errs["recipients"] = "at least one recipient is required when scheduling"
		}
		for _, r := range Recipients(cfg.Schedule.Recipients) {
			if !strings.Contains(r, "@") {
				errs["recipients"] = fmt.Sprintf("invalid recipient %q", r)
				break
			}
		}
		if !frequencies[cfg.Schedule.Frequency] {
			errs["schedule.frequency"] = "frequency must be daily, weekly or monthly"
		}
		if cfg.Schedule.Time != "" {
			if _, err := time.Parse("15:04", cfg.Schedule.Time); err != nil {
				errs["schedule.time"] = "time must be HH:MM"
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Recipients trims the list and drops blank entries.
func Recipients(list []string) []string {
	out := []string{}
	for _, r := range list {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ParseDateRange resolves a range token (7d, 30d, 90d, mtd, ytd or
// custom:YYYY-MM-DD..YYYY-MM-DD) into dates relative to now.
func ParseDateRange(token string, now time.Time) (from, to time.Time, err error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch token {
	case "7d":
		return today.AddDate(0, 0, -7), today, nil
	case "30d":
		return today.AddDate(0, 0, -30), today, nil
	case "90d":
		return today.AddDate(0, 0, -90), today, nil
	case "mtd":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), today, nil
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), today, nil
	}

	spec, ok := strings.CutPrefix(token, "custom:")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date range %q", token)
	}
	start, end, ok := strings.Cut(spec, "..")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("custom range must be FROM..TO")
	}
	if from, err = time.ParseInLocation("2006-01-02", start, now.Location()); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", start)
	}
	if to, err = time.ParseInLocation("2006-01-02", end, now.Location()); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", end)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date is before start date")
	}
	return from, to, nil
}
