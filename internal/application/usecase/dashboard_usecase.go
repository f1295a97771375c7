package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/diillson/campaign-analytics-go/internal/application/aggregator"
	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// Comparison is a campaign together with its comparison table.
type Comparison struct {
	Campaign entity.Campaign        `json:"campaign"`
	Table    entity.ComparisonTable `json:"comparison"`
}

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	campaignRepo repository.CampaignRepository
	console      types.ConsoleInterface
	config       types.Config
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	campaignRepo repository.CampaignRepository,
	console types.ConsoleInterface,
	config types.Config,
) *DashboardUseCase {
	return &DashboardUseCase{
		campaignRepo: campaignRepo,
		console:      console,
		config:       config,
	}
}

// Compare fetches a campaign and the feeds of its platforms and builds the
// comparison table.
func (uc *DashboardUseCase) Compare(ctx context.Context, campaignID string) (Comparison, error) {
	campaign, err := uc.loadCampaign(ctx, campaignID)
	if err != nil {
		return Comparison{}, err
	}
	feeds := uc.fetchFeeds(ctx, campaign, nil)
	return Comparison{Campaign: campaign, Table: uc.aggregate(campaign, feeds)}, nil
}

// RunDashboard executa a funcionalidade principal do dashboard.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	status := uc.console.Status("Loading campaign...")
	campaign, err := uc.loadCampaign(ctx, args.Campaign)
	status.Stop()
	if err != nil {
		return err
	}

	if len(campaign.Unrecognized) > 0 {
		uc.console.LogWarning("Ignoring unknown platforms: %s", strings.Join(campaign.Unrecognized, ", "))
	}

	var feeds map[entity.Platform]aggregator.FeedResult
	if len(campaign.Platforms) > 0 {
		progress := uc.console.ProgressWithTotal(len(campaign.Platforms))
		feeds = uc.fetchFeeds(ctx, campaign, progress)
		progress.Stop()
	}

	table := uc.aggregate(campaign, feeds)

	uc.displayHeader(campaign, table)
	if len(table.Rows) == 0 {
		uc.console.LogWarning("No connected platforms for campaign %s. Connect a platform to see metrics.", campaign.Name)
	} else {
		displayTable := uc.createDisplayTable()
		for _, row := range table.Rows {
			uc.addRowToTable(displayTable, row)
		}
		uc.console.Print(displayTable.Render())
		uc.displayRankings(table)
	}

	uc.displayPlatformNotices(campaign, feeds)

	if table.HasEstimates {
		uc.console.LogInfo("Estimated rows are split from campaign totals with a platform share table; they are not measured data.")
	}
	if uc.config.RevenueFor(campaign.ID) == nil {
		uc.console.LogInfo("ROAS and ROI need a revenue per conversion. Use --revenue-per-conversion or set it in the config file.")
	}
	return nil
}

func (uc *DashboardUseCase) loadCampaign(ctx context.Context, campaignID string) (entity.Campaign, error) {
	if strings.TrimSpace(campaignID) == "" {
		return entity.Campaign{}, types.ErrCampaignRequired
	}
	campaign, err := uc.campaignRepo.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, types.ErrCampaignNotFound) {
			return entity.Campaign{}, fmt.Errorf("%w: %s", types.ErrCampaignNotFound, campaignID)
		}
		return entity.Campaign{}, fmt.Errorf("error loading campaign %s: %w", campaignID, err)
	}
	return campaign, nil
}

// fetchFeeds queries every declared platform concurrently. A failing
// platform only affects its own result.
func (uc *DashboardUseCase) fetchFeeds(
	ctx context.Context,
	campaign entity.Campaign,
	progress types.ProgressHandle,
) map[entity.Platform]aggregator.FeedResult {
	feeds := make(map[entity.Platform]aggregator.FeedResult, len(campaign.Platforms))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range campaign.Platforms {
		wg.Add(1)
		go func(p entity.Platform) {
			defer wg.Done()

			result := uc.fetchFeed(ctx, campaign.ID, p)

			mu.Lock()
			feeds[p] = result
			if progress != nil {
				progress.Increment()
			}
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return feeds
}

func (uc *DashboardUseCase) fetchFeed(ctx context.Context, campaignID string, p entity.Platform) aggregator.FeedResult {
	if !p.HasDedicatedFeed() {
		connected := uc.campaignRepo.GetConnectionStatus(ctx, campaignID, p)
		return aggregator.FeedResult{
			Metrics: entity.RawPlatformMetrics{Platform: p, Connected: connected},
			State:   entity.LoadStateLoaded,
		}
	}

	metrics, err := uc.campaignRepo.GetPlatformMetrics(ctx, campaignID, p)
	if err != nil {
		return aggregator.Failed(p, err)
	}
	return aggregator.Loaded(metrics)
}

func (uc *DashboardUseCase) aggregate(campaign entity.Campaign, feeds map[entity.Platform]aggregator.FeedResult) entity.ComparisonTable {
	agg := aggregator.New(
		aggregator.ShareTableFromConfig(uc.config.ShareTable),
		deriver.Options{RevenuePerConversion: uc.config.RevenueFor(campaign.ID)},
	)
	return agg.Aggregate(campaign, feeds)
}

// displayHeader mostra o resumo da campanha e o uso do orçamento.
func (uc *DashboardUseCase) displayHeader(campaign entity.Campaign, table entity.ComparisonTable) {
	s := table.Summary
	uc.console.Printf("\n%s\n", pterm.FgMagenta.Sprintf("Campaign: %s (%s)", campaign.Name, campaign.ID))

	budget := "not set"
	if s.Budget > 0 {
		budget = deriver.FormatCurrency(s.Budget)
	}
	uc.console.Printf("Status: %s | Budget: %s | Spent: %s (%s) | Connected platforms: %d\n\n",
		pterm.FgCyan.Sprint(campaign.Status),
		budget,
		pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(deriver.FormatCurrency(s.Totals.Spend)),
		budgetStyle(s.BudgetUtilization).Sprint(deriver.FormatPercent(s.BudgetUtilization)),
		s.ConnectedCount,
	)
}

// createDisplayTable cria a tabela de comparação entre plataformas.
func (uc *DashboardUseCase) createDisplayTable() types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Platform")
	table.AddColumn("Source")
	table.AddColumn("Impressions")
	table.AddColumn("Clicks")
	table.AddColumn("Conversions")
	table.AddColumn("Spend")
	table.AddColumn("Share")
	table.AddColumn("CTR")
	table.AddColumn("CPC")
	table.AddColumn("CPA")
	table.AddColumn("Conv. Rate")
	table.AddColumn("ROAS")
	table.AddColumn("ROI")
	table.AddColumn("Performance")
	return table
}

// addRowToTable adiciona uma plataforma à tabela de exibição.
func (uc *DashboardUseCase) addRowToTable(table types.TableInterface, row entity.PlatformRow) {
	name := pterm.FgMagenta.Sprint(row.Platform().DisplayName())
	if !row.Connected() {
		table.AddRow(
			name,
			sourceText(row),
			pterm.FgGray.Sprint(stateText(row)),
			"-", "-", "-", "-", "-", "-", "-", "-", "-", "-",
			pterm.FgGray.Sprint(entity.PerformanceNoData),
		)
		return
	}

	d := row.Derived
	table.AddRow(
		name,
		sourceText(row),
		fmt.Sprintf("%d", row.Raw.Impressions),
		fmt.Sprintf("%d", row.Raw.Clicks),
		fmt.Sprintf("%d", row.Raw.Conversions),
		pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(deriver.FormatCurrency(row.Raw.Spend)),
		deriver.FormatPercent(row.SpendShare),
		deriver.FormatPercent(d.CTR),
		deriver.FormatCurrency(d.CPC),
		deriver.FormatCurrency(d.CPA),
		deriver.FormatPercent(d.ConversionRate),
		deriver.FormatOptional(d.ROAS, deriver.FormatRatio),
		deriver.FormatOptional(d.ROI, deriver.FormatPercent),
		performanceStyle(d.Performance).Sprint(d.Performance),
	)
}

// displayRankings mostra os melhores desempenhos num painel.
func (uc *DashboardUseCase) displayRankings(table entity.ComparisonTable) {
	lines := make([]string, 0, len(entity.RankingMetrics))
	for _, m := range entity.RankingMetrics {
		r, ok := table.Best(m)
		if !ok {
			lines = append(lines, fmt.Sprintf("%-17s %s", m.Label()+":", pterm.FgGray.Sprint("No data")))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-17s %s (%s)",
			m.Label()+":",
			pterm.FgGreen.Sprint(r.Platform.DisplayName()),
			FormatRanking(m, r.Value)))
	}
	uc.console.DisplayPanel("Top Performers", strings.Join(lines, "\n"))
}

// displayPlatformNotices turns feed errors into actionable messages.
func (uc *DashboardUseCase) displayPlatformNotices(campaign entity.Campaign, feeds map[entity.Platform]aggregator.FeedResult) {
	for _, p := range campaign.Platforms {
		feed, ok := feeds[p]
		if !ok || feed.Err == nil {
			continue
		}
		name := p.DisplayName()
		switch {
		case errors.Is(feed.Err, types.ErrTokenExpired):
			uc.console.LogWarning("%s: access has expired. Reconnect %s in the integrations settings to resume real data.", name, name)
		case errors.Is(feed.Err, types.ErrResourceNotSelected):
			uc.console.LogWarning("%s: no spreadsheet is selected. Select one in the integrations settings.", name)
		default:
			uc.console.LogError("%s: %s", name, feed.Err)
		}
	}
}

// FormatRanking formats a ranking value the way its metric is shown.
func FormatRanking(m entity.RankingMetric, v float64) string {
	switch m {
	case entity.RankBestCTR, entity.RankHighestROI:
		return deriver.FormatPercent(v)
	case entity.RankLowestCPC:
		return deriver.FormatCurrency(v)
	case entity.RankHighestROAS:
		return deriver.FormatRatio(v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func sourceText(row entity.PlatformRow) string {
	if row.Provenance == entity.ProvenanceEstimated {
		return pterm.FgYellow.Sprint("Estimated")
	}
	return pterm.FgGreen.Sprint("Real")
}

func stateText(row entity.PlatformRow) string {
	switch row.State {
	case entity.LoadStateError:
		if row.ErrorKind != "" {
			return "Error (" + row.ErrorKind + ")"
		}
		return "Error"
	case entity.LoadStateLoading:
		return "Loading"
	default:
		return "Not connected"
	}
}

func performanceStyle(p entity.PerformanceClass) *pterm.Style {
	switch p {
	case entity.PerformanceExcellent:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case entity.PerformanceGood:
		return pterm.NewStyle(pterm.FgGreen)
	case entity.PerformanceAverage:
		return pterm.NewStyle(pterm.FgYellow)
	case entity.PerformancePoor:
		return pterm.NewStyle(pterm.FgRed)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

func budgetStyle(utilization float64) *pterm.Style {
	switch {
	case utilization > 100:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case utilization >= 90:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGreen)
	}
}
