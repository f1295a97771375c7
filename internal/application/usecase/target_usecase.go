package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// ErrInvalidTarget is returned when a KPI or benchmark cannot be created.
var ErrInvalidTarget = errors.New("invalid target")

// TargetUseCase lists and creates KPIs and benchmarks.
type TargetUseCase struct {
	campaignRepo repository.CampaignRepository
	console      types.ConsoleInterface
}

// NewTargetUseCase creates a new KPI and benchmark use case.
func NewTargetUseCase(campaignRepo repository.CampaignRepository, console types.ConsoleInterface) *TargetUseCase {
	return &TargetUseCase{campaignRepo: campaignRepo, console: console}
}

// Targets returns the KPIs and benchmarks of a campaign.
func (uc *TargetUseCase) Targets(ctx context.Context, campaignID string) ([]entity.KPI, []entity.Benchmark, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, nil, types.ErrCampaignRequired
	}
	kpis, err := uc.campaignRepo.ListKPIs(ctx, campaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading KPIs: %w", err)
	}
	benchmarks, err := uc.campaignRepo.ListBenchmarks(ctx, campaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading benchmarks: %w", err)
	}
	return kpis, benchmarks, nil
}

// AddKPI validates and creates a KPI.
func (uc *TargetUseCase) AddKPI(ctx context.Context, kpi entity.KPI) (entity.KPI, error) {
	if err := ValidateTarget(kpi.Target); err != nil {
		return entity.KPI{}, err
	}
	return uc.campaignRepo.CreateKPI(ctx, kpi)
}

// AddBenchmark validates and creates a benchmark.
func (uc *TargetUseCase) AddBenchmark(ctx context.Context, b entity.Benchmark) (entity.Benchmark, error) {
	if err := ValidateTarget(b.Target); err != nil {
		return entity.Benchmark{}, err
	}
	return uc.campaignRepo.CreateBenchmark(ctx, b)
}

// ValidateTarget checks the fields every KPI and benchmark needs.
func ValidateTarget(t entity.Target) error {
	switch {
	case strings.TrimSpace(t.CampaignID) == "":
		return types.ErrCampaignRequired
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidTarget)
	case t.TargetValue <= 0:
		return fmt.Errorf("%w: target value must be greater than zero", ErrInvalidTarget)
	case t.CurrentValue < 0:
		return fmt.Errorf("%w: current value cannot be negative", ErrInvalidTarget)
	}
	return nil
}

// TargetBars converts targets into console progress bars.
func TargetBars(targets []entity.Target) []types.TargetBar {
	bars := make([]types.TargetBar, 0, len(targets))
	for _, t := range targets {
		label := t.Name
		if t.Unit != "" {
			label = fmt.Sprintf("%s (%g / %g %s)", t.Name, t.CurrentValue, t.TargetValue, t.Unit)
		}
		bars = append(bars, types.TargetBar{
			Label:    label,
			Progress: t.Progress(),
			Display:  t.DisplayProgress(),
			Status:   string(t.Status()),
		})
	}
	return bars
}

// RunTargets exibe KPIs e benchmarks como barras de progresso.
func (uc *TargetUseCase) RunTargets(ctx context.Context, args *types.CLIArgs) error {
	kpis, benchmarks, err := uc.Targets(ctx, args.Campaign)
	if err != nil {
		return err
	}

	kpiTargets := make([]entity.Target, 0, len(kpis))
	for _, k := range kpis {
		kpiTargets = append(kpiTargets, k.Target)
	}
	benchmarkTargets := make([]entity.Target, 0, len(benchmarks))
	for _, b := range benchmarks {
		benchmarkTargets = append(benchmarkTargets, b.Target)
	}

	uc.console.DisplayTargetBars("KPIs", TargetBars(kpiTargets))
	uc.console.DisplayTargetBars("Benchmarks", TargetBars(benchmarkTargets))

	for _, b := range benchmarks {
		if b.Industry != "" || b.Source != "" {
			uc.console.Printf("%s %s\n", pterm.FgCyan.Sprint(b.Name+":"), strings.TrimSpace(b.Industry+" "+sourceNote(b.Source)))
		}
	}
	return nil
}

// RunAddTarget cria um KPI ou benchmark a partir dos argumentos.
func (uc *TargetUseCase) RunAddTarget(ctx context.Context, args *types.CLIArgs) error {
	t := entity.Target{
		CampaignID:   args.Campaign,
		Name:         args.TargetName,
		CurrentValue: args.CurrentValue,
		TargetValue:  args.TargetValue,
		Unit:         args.Unit,
		Category:     args.Category,
	}

	if args.Benchmark {
		b, err := uc.AddBenchmark(ctx, entity.Benchmark{Target: t, Industry: args.Industry, Source: args.Source})
		if err != nil {
			return err
		}
		uc.console.LogSuccess("Created benchmark %q (%s, %.1f%%)", b.Name, b.Status(), b.Progress())
		return nil
	}

	k, err := uc.AddKPI(ctx, entity.KPI{Target: t})
	if err != nil {
		return err
	}
	uc.console.LogSuccess("Created KPI %q (%s, %.1f%%)", k.Name, k.Status(), k.Progress())
	return nil
}

func sourceNote(source string) string {
	if source == "" {
		return ""
	}
	return "(source: " + source + ")"
}
