// Package insights answers campaign questions from a fixed keyword table.
// Answers are filled from the comparison table; nothing is inferred.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// DefaultDelay imitates the response time of the chat.
const DefaultDelay = 1500 * time.Millisecond

// FallbackRule names the answer given when no rule matches.
const FallbackRule = "fallback"

// Rule maps keywords to an answer template. Keywords may be phrases.
type Rule struct {
	Name     string
	Keywords []string
	Answer   func(t entity.ComparisonTable) string
}

// Answer is the reply to one question.
type Answer struct {
	Question string `json:"question"`
	Rule     string `json:"rule"`
	Text     string `json:"answer"`
	Matched  bool   `json:"matched"`
}

// Rules are checked in order; the first rule with a matching keyword wins.
var Rules = []Rule{
	{
		Name:     "roas",
		Keywords: []string{"roas", "return on ad spend"},
		Answer: func(t entity.ComparisonTable) string {
			return best(t, entity.RankHighestROAS, "ROAS", deriver.FormatRatio,
				"ROAS needs a revenue-per-conversion value; configure one to compare returns.")
		},
	},
	{
		Name:     "roi",
		Keywords: []string{"roi", "return on investment"},
		Answer: func(t entity.ComparisonTable) string {
			return best(t, entity.RankHighestROI, "ROI", deriver.FormatPercent,
				"ROI needs a revenue-per-conversion value; configure one to compare returns.")
		},
	},
	{
		Name:     "ctr",
		Keywords: []string{"ctr", "click-through", "click through", "engagement"},
		Answer: func(t entity.ComparisonTable) string {
			return best(t, entity.RankBestCTR, "click-through rate", deriver.FormatPercent, "")
		},
	},
	{
		Name:     "cpc",
		Keywords: []string{"cpc", "cost per click", "cheapest", "cheap"},
		Answer: func(t entity.ComparisonTable) string {
			return best(t, entity.RankLowestCPC, "cost per click", deriver.FormatCurrency, "")
		},
	},
	{
		Name:     "conversions",
		Keywords: []string{"conversion", "conversions", "convert", "converting"},
		Answer: func(t entity.ComparisonTable) string {
			r, ok := t.Best(entity.RankMostConversions)
			if !ok {
				return noData("conversions")
			}
			return fmt.Sprintf("%s drives the most conversions (%.0f). Campaign conversion rate is %s.",
				r.Platform.DisplayName(), r.Value, deriver.FormatPercent(t.Summary.Derived.ConversionRate))
		},
	},
	{
		Name:     "budget",
		Keywords: []string{"budget", "spend", "spent", "spending", "cost"},
		Answer: func(t entity.ComparisonTable) string {
			s := t.Summary
			if s.ConnectedCount == 0 {
				return noData("spend")
			}
			text := fmt.Sprintf("You have spent %s", deriver.FormatCurrency(s.Totals.Spend))
			if s.Budget > 0 {
				text += fmt.Sprintf(" of %s (%s of budget)", deriver.FormatCurrency(s.Budget), deriver.FormatPercent(s.BudgetUtilization))
			}
			if top, ok := largestSpend(t); ok {
				text += fmt.Sprintf(". %s takes the largest share at %s", top.Platform().DisplayName(), deriver.FormatPercent(top.SpendShare))
			}
			return text + "."
		},
	},
	{
		Name:     "performance",
		Keywords: []string{"best", "top", "perform", "performing", "performance", "winner", "compare"},
		Answer:   overview,
	},
}

// Assistant answers questions with an optional simulated delay.
type Assistant struct {
	rules []Rule
	delay time.Duration
}

// New creates an assistant using Rules. A negative delay is treated as zero.
func New(delay time.Duration) *Assistant {
	if delay < 0 {
		delay = 0
	}
	return &Assistant{rules: Rules, delay: delay}
}

// Ask waits for the configured delay, then answers from table. It returns
// ctx.Err() when the context ends first.
func (a *Assistant) Ask(ctx context.Context, question string, table entity.ComparisonTable) (Answer, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Answer{}, ctx.Err()
		case <-timer.C:
		}
	}
	return a.Answer(question, table), nil
}

// Answer replies immediately.
func (a *Assistant) Answer(question string, table entity.ComparisonTable) Answer {
	ans := Answer{Question: question}
	rule, ok := Match(a.rules, question)
	if !ok {
		ans.Rule = FallbackRule
		ans.Text = fallback(table)
		return ans
	}
	ans.Rule = rule.Name
	ans.Text = rule.Answer(table)
	ans.Matched = true
	return ans
}

// Match returns the first rule with a keyword in question. Keywords match
// whole words, case-insensitively.
func Match(rules []Rule, question string) (Rule, bool) {
	normalized := " " + strings.Join(words(question), " ") + " "
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(normalized, " "+strings.Join(words(kw), " ")+" ") {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func best(t entity.ComparisonTable, m entity.RankingMetric, label string, format func(float64) string, missing string) string {
	r, ok := t.Best(m)
	if !ok {
		if missing != "" && t.Summary.ConnectedCount > 0 {
			return missing
		}
		return noData(label)
	}
	text := fmt.Sprintf("%s has the %s %s at %s.", r.Platform.DisplayName(), superlative(m), label, format(r.Value))
	if row, ok := t.Row(r.Platform); ok && row.Provenance == entity.ProvenanceEstimated {
		text += " This figure is estimated from campaign totals."
	}
	return text
}

func superlative(m entity.RankingMetric) string {
	if m == entity.RankLowestCPC {
		return "lowest"
	}
	return "highest"
}

func overview(t entity.ComparisonTable) string {
	if t.Summary.ConnectedCount == 0 {
		return noData("performance")
	}
	var parts []string
	for _, m := range entity.RankingMetrics {
		if r, ok := t.Best(m); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", m.Label(), r.Platform.DisplayName()))
		}
	}
	text := fmt.Sprintf("Across %d connected platforms: %s.", t.Summary.ConnectedCount, strings.Join(parts, "; "))
	if t.HasEstimates {
		text += " Some platforms are estimated from campaign totals."
	}
	return text
}

func largestSpend(t entity.ComparisonTable) (entity.PlatformRow, bool) {
	var top entity.PlatformRow
	found := false
	for _, r := range t.ConnectedRows() {
		if !found || r.Raw.Spend > top.Raw.Spend {
			top, found = r, true
		}
	}
	return top, found && top.Raw.Spend > 0
}

func noData(what string) string {
	return fmt.Sprintf("No connected platform has %s data yet. Connect a platform to get insights.", what)
}

func fallback(t entity.ComparisonTable) string {
	return fmt.Sprintf("I can answer questions about ROAS, ROI, CTR, CPC, conversions, budget and overall performance for %s. Try \"Which platform has the best CTR?\"",
		campaignLabel(t))
}

func campaignLabel(t entity.ComparisonTable) string {
	if t.CampaignName != "" {
		return t.CampaignName
	}
	return "this campaign"
}
