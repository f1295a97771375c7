package usecase

import (
	"context"
	"strings"

	"github.com/diillson/campaign-analytics-go/internal/application/insights"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// InsightsUseCase answers questions about a campaign's live comparison.
type InsightsUseCase struct {
	dashboard *DashboardUseCase
	assistant *insights.Assistant
	console   types.ConsoleInterface
}

// NewInsightsUseCase creates a new insights use case.
func NewInsightsUseCase(dashboard *DashboardUseCase, assistant *insights.Assistant, console types.ConsoleInterface) *InsightsUseCase {
	return &InsightsUseCase{dashboard: dashboard, assistant: assistant, console: console}
}

// Ask loads the campaign comparison and answers question from it.
func (uc *InsightsUseCase) Ask(ctx context.Context, campaignID, question string) (insights.Answer, error) {
	cmp, err := uc.dashboard.Compare(ctx, campaignID)
	if err != nil {
		return insights.Answer{}, err
	}
	return uc.assistant.Ask(ctx, question, cmp.Table)
}

// RunInsights responde uma pergunta no console.
func (uc *InsightsUseCase) RunInsights(ctx context.Context, args *types.CLIArgs) error {
	question := strings.TrimSpace(args.Question)
	if question == "" {
		uc.console.LogWarning("Ask a question, for example: insights ask \"Which platform has the best ROAS?\"")
		return nil
	}

	status := uc.console.Status("Thinking...")
	answer, err := uc.Ask(ctx, args.Campaign, question)
	status.Stop()
	if err != nil {
		return err
	}

	uc.console.DisplayPanel("Insights", answer.Text)
	return nil
}
