package repository

import (
	"context"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// CampaignRepository defines the interface for the marketing backend API.
type CampaignRepository interface {
	// Campaign Operations
	GetCampaign(ctx context.Context, campaignID string) (entity.Campaign, error)

	// Platform Operations
	GetConnectionStatus(ctx context.Context, campaignID string, platform entity.Platform) bool
	GetPlatformMetrics(ctx context.Context, campaignID string, platform entity.Platform) (entity.RawPlatformMetrics, error)

	// KPI & Benchmark Operations
	ListKPIs(ctx context.Context, campaignID string) ([]entity.KPI, error)
	CreateKPI(ctx context.Context, kpi entity.KPI) (entity.KPI, error)
	ListBenchmarks(ctx context.Context, campaignID string) ([]entity.Benchmark, error)
	CreateBenchmark(ctx context.Context, benchmark entity.Benchmark) (entity.Benchmark, error)
}
