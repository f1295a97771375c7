package repository

import (
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// ExportRepository encodes report snapshots and delivers the result.
type ExportRepository interface {
	Encode(snapshot entity.ReportSnapshot, format entity.ReportFormat) (entity.Artifact, error)
	Deliver(artifact entity.Artifact, outputDir string) (string, error)
}
