package repository

import (
	"context"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// ReportRegistry stores report definitions and generated artifacts.
// Entries are append-only; Delete removes them for good.
type ReportRegistry interface {
	Add(ctx context.Context, report entity.Report) error
	List(ctx context.Context) ([]entity.Report, error)
	Delete(ctx context.Context, id string) error
}

// FilterByStatus returns the reports with the given status, keeping order.
func FilterByStatus(reports []entity.Report, status entity.ReportStatus) []entity.Report {
	out := []entity.Report{}
	for _, r := range reports {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
