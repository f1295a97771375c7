package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/api"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/config"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/export"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/registry"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driving/cli"
	"github.com/diillson/campaign-analytics-go/internal/application/insights"
	"github.com/diillson/campaign-analytics-go/internal/application/usecase"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
	"github.com/diillson/campaign-analytics-go/pkg/console"
	"github.com/diillson/campaign-analytics-go/pkg/version"
)

func main() {
	app := cli.NewCLIApp(version.Version, config.NewConfigRepository(), buildServices)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", console.BoldRed("Error:"), err)
		os.Exit(1)
	}
}

// buildServices inicializa os repositórios e os casos de uso.
func buildServices(ctx context.Context, cfg types.Config, logger *zap.Logger) (*usecase.Services, error) {
	campaignRepo, err := api.NewCampaignRepository(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: use --api-url or set %s", err, config.EnvAPIURL)
	}

	reg, err := registry.New(ctx, cfg.Registry, logger)
	if err != nil {
		return nil, fmt.Errorf("error opening report registry: %w", err)
	}

	delay := insights.DefaultDelay
	if cfg.InsightsDelayMS > 0 {
		delay = time.Duration(cfg.InsightsDelayMS) * time.Millisecond
	}

	return usecase.NewServices(
		campaignRepo,
		export.NewExportRepository(),
		reg,
		console.NewConsole(),
		cfg,
		insights.New(delay),
	), nil
}
