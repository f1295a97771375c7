package usecase

import (
	"context"
	"io"

	"github.com/diillson/campaign-analytics-go/internal/application/insights"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// Services groups the use cases the driving adapters call.
type Services struct {
	Dashboard *DashboardUseCase
	Reports   *ReportUseCase
	Targets   *TargetUseCase
	Insights  *InsightsUseCase
	Registry  repository.ReportRegistry
}

// NewServices wires every use case around the same repositories.
func NewServices(
	campaignRepo repository.CampaignRepository,
	exportRepo repository.ExportRepository,
	registry repository.ReportRegistry,
	console types.ConsoleInterface,
	config types.Config,
	assistant *insights.Assistant,
) *Services {
	dashboard := NewDashboardUseCase(campaignRepo, console, config)
	return &Services{
		Dashboard: dashboard,
		Reports:   NewReportUseCase(dashboard, campaignRepo, exportRepo, registry, console),
		Targets:   NewTargetUseCase(campaignRepo, console),
		Insights:  NewInsightsUseCase(dashboard, assistant, console),
		Registry:  registry,
	}
}

// DescribeRegistry names where reports are stored, when the backend says.
func (s *Services) DescribeRegistry(ctx context.Context) string {
	d, ok := s.Registry.(interface {
		Describe(ctx context.Context) (string, error)
	})
	if !ok {
		return "custom"
	}
	desc, err := d.Describe(ctx)
	if err != nil {
		return desc + " (" + err.Error() + ")"
	}
	return desc
}

// Close releases the registry connection if it holds one.
func (s *Services) Close() error {
	if c, ok := s.Registry.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
