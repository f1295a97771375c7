package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/campaign-analytics-go/internal/application/aggregator"
	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

func comparison(opts deriver.Options) entity.ComparisonTable {
	c := entity.Campaign{
		ID:        "c-1",
		Name:      "Summer Sale",
		Budget:    2000,
		Platforms: []entity.Platform{entity.PlatformLinkedInAds, entity.PlatformGoogleSheets},
	}
	feeds := map[entity.Platform]aggregator.FeedResult{
		entity.PlatformLinkedInAds: aggregator.Loaded(entity.RawPlatformMetrics{
			Platform: entity.PlatformLinkedInAds, Connected: true,
			Impressions: 10000, Clicks: 300, Conversions: 30, Spend: 600,
		}),
		entity.PlatformGoogleSheets: aggregator.Loaded(entity.RawPlatformMetrics{
			Platform: entity.PlatformGoogleSheets, Connected: true,
			Impressions: 10000, Clicks: 100, Conversions: 40, Spend: 400,
		}),
	}
	return aggregator.New(nil, opts).Aggregate(c, feeds)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		question string
		rule     string
		matched  bool
	}{
		{"Which platform has the best ROAS?", "roas", true},
		{"what's my return on investment", "roi", true},
		{"Who has the highest click-through rate?", "ctr", true},
		{"Where is the cost per click lowest", "cpc", true},
		{"How many conversions did we get?", "conversions", true},
		{"How much budget is left?", "budget", true},
		{"Which platform is performing best?", "performance", true},
		{"tell me a joke", "", false},
		// whole words only
		{"describe the structure", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			r, ok := Match(Rules, tt.question)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.rule, r.Name)
		})
	}
}

func TestAnswerFillsFromTable(t *testing.T) {
	table := comparison(deriver.WithRevenue(40))
	a := New(0)

	ctr := a.Answer("best ctr?", table)
	assert.True(t, ctr.Matched)
	assert.Equal(t, "LinkedIn Ads has the highest click-through rate at 3.00%.", ctr.Text)

	cpc := a.Answer("cost per click", table)
	assert.Equal(t, "LinkedIn Ads has the lowest cost per click at $2.00.", cpc.Text)

	roas := a.Answer("roas", table)
	assert.Equal(t, "Google Sheets has the highest ROAS at 4.00x.", roas.Text)

	conv := a.Answer("conversions", table)
	assert.Contains(t, conv.Text, "Google Sheets drives the most conversions (40)")

	budget := a.Answer("budget", table)
	assert.Equal(t, "You have spent $1000.00 of $2000.00 (50.00% of budget). LinkedIn Ads takes the largest share at 60.00%.", budget.Text)

	perf := a.Answer("top platform", table)
	assert.Contains(t, perf.Text, "Across 2 connected platforms")
	assert.Contains(t, perf.Text, "Best CTR: LinkedIn Ads")
}

func TestAnswerWithoutRevenue(t *testing.T) {
	a := New(0)
	ans := a.Answer("roas", comparison(deriver.Options{}))
	assert.Contains(t, ans.Text, "revenue-per-conversion")
}

func TestAnswerWithoutData(t *testing.T) {
	a := New(0)
	empty := aggregator.New(nil, deriver.Options{}).Aggregate(entity.Campaign{ID: "c-2"}, nil)

	for _, q := range []string{"ctr", "roas", "conversions", "budget", "best"} {
		ans := a.Answer(q, empty)
		assert.Contains(t, ans.Text, "No connected platform", q)
	}
}

func TestFallback(t *testing.T) {
	ans := New(0).Answer("hello there", comparison(deriver.Options{}))
	assert.False(t, ans.Matched)
	assert.Equal(t, FallbackRule, ans.Rule)
	assert.Contains(t, ans.Text, "Summer Sale")
}

func TestAskHonoursContext(t *testing.T) {
	a := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Ask(ctx, "ctr", comparison(deriver.Options{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAskWaitsForDelay(t *testing.T) {
	a := New(20 * time.Millisecond)
	start := time.Now()

	ans, err := a.Ask(context.Background(), "ctr", comparison(deriver.Options{}))
	require.NoError(t, err)
	assert.True(t, ans.Matched)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
