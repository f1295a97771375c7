// Package aggregator builds the cross-platform comparison table of a campaign.
package aggregator

import (
	"errors"
	"sort"

	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

// FeedResult is what is known about one platform's own data feed.
type FeedResult struct {
	Metrics entity.RawPlatformMetrics
	State   entity.LoadState
	Err     error
}

// Loaded wraps metrics that arrived successfully.
func Loaded(m entity.RawPlatformMetrics) FeedResult {
	return FeedResult{Metrics: m, State: entity.LoadStateLoaded}
}

// Failed wraps a fetch failure for platform p.
func Failed(p entity.Platform, err error) FeedResult {
	return FeedResult{Metrics: entity.RawPlatformMetrics{Platform: p}, State: entity.LoadStateError, Err: err}
}

// Pending marks a platform whose data has not arrived yet.
func Pending(p entity.Platform) FeedResult {
	return FeedResult{Metrics: entity.RawPlatformMetrics{Platform: p}, State: entity.LoadStateLoading}
}

// kinded is implemented by fetch errors that carry a category.
type kinded interface {
	ErrorKind() string
}

// Aggregator combines real and estimated platform metrics.
type Aggregator struct {
	strategy EstimationStrategy
	opts     deriver.Options
}

// New creates an aggregator. A nil strategy uses DefaultShareTable.
func New(strategy EstimationStrategy, opts deriver.Options) *Aggregator {
	if strategy == nil {
		strategy = DefaultShareTable
	}
	return &Aggregator{strategy: strategy, opts: opts}
}

// Aggregate builds the comparison table of a campaign from whatever feed
// results are available. Missing feeds are treated as still loading.
func (a *Aggregator) Aggregate(c entity.Campaign, feeds map[entity.Platform]FeedResult) entity.ComparisonTable {
	rows := []entity.PlatformRow{}
	connected := 0
	for _, p := range entity.Platforms {
		if !c.Declares(p) {
			continue
		}
		row := a.row(c, p, feeds)
		if row.Connected() {
			connected++
		}
		rows = append(rows, row)
	}

	table := entity.ComparisonTable{
		CampaignID:   c.ID,
		CampaignName: c.Name,
		Rows:         []entity.PlatformRow{},
		Rankings:     map[entity.RankingMetric]entity.Ranking{},
		Summary:      entity.Summary{Budget: c.Budget},
	}
	if connected == 0 {
		table.Summary.Derived = deriver.DeriveTotals(entity.Totals{}, a.opts)
		return table
	}

	var totals entity.Totals
	for _, r := range rows {
		if r.Connected() {
			totals = totals.Add(r.Raw)
		}
	}
	for i := range rows {
		rows[i].SpendShare = deriver.SpendShare(rows[i].Raw.Spend, totals.Spend)
		if rows[i].Provenance == entity.ProvenanceEstimated && rows[i].Connected() {
			table.HasEstimates = true
		}
	}

	// connected first, canonical order otherwise
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Connected() != rows[j].Connected() {
			return rows[i].Connected()
		}
		return rows[i].Platform().Order() < rows[j].Platform().Order()
	})

	table.Rows = rows
	table.Rankings = Rank(rows)
	table.Summary = entity.Summary{
		Totals:            totals,
		Derived:           deriver.DeriveTotals(totals, a.opts),
		Budget:            c.Budget,
		BudgetUtilization: deriver.BudgetUtilization(totals.Spend, c.Budget),
		ConnectedCount:    connected,
	}
	return table
}

func (a *Aggregator) row(c entity.Campaign, p entity.Platform, feeds map[entity.Platform]FeedResult) entity.PlatformRow {
	feed, hasFeed := feeds[p]

	if !p.HasDedicatedFeed() {
		// a status check may still say the platform was disconnected
		if hasFeed && (feed.Err != nil || feed.State == entity.LoadStateError || !feed.Metrics.Connected) {
			return a.offline(p, entity.ProvenanceEstimated, feed)
		}
		est, ok := a.strategy.Estimate(p, c.Totals)
		if !ok {
			return a.offline(p, entity.ProvenanceEstimated, FeedResult{State: entity.LoadStateDisconnected})
		}
		est.Platform = p
		return entity.PlatformRow{
			Raw:        est,
			Derived:    deriver.Derive(est, a.opts),
			Provenance: entity.ProvenanceEstimated,
			State:      entity.LoadStateLoaded,
		}
	}

	if !hasFeed {
		return a.offline(p, entity.ProvenanceReal, Pending(p))
	}
	if feed.Err != nil || feed.State == entity.LoadStateError || feed.State == entity.LoadStateLoading || !feed.Metrics.Connected {
		return a.offline(p, entity.ProvenanceReal, feed)
	}
	m := feed.Metrics
	m.Platform = p
	m = m.Normalize()
	return entity.PlatformRow{
		Raw:        m,
		Derived:    deriver.Derive(m, a.opts),
		Provenance: entity.ProvenanceReal,
		State:      entity.LoadStateLoaded,
	}
}

// offline builds a zeroed row for a platform that is not taking part in the
// comparison, keeping the reason visible.
func (a *Aggregator) offline(p entity.Platform, prov entity.Provenance, feed FeedResult) entity.PlatformRow {
	raw := entity.RawPlatformMetrics{Platform: p}
	row := entity.PlatformRow{
		Raw:        raw,
		Derived:    deriver.Derive(raw, a.opts),
		Provenance: prov,
		State:      feed.State,
	}
	switch {
	case feed.Err != nil:
		row.State = entity.LoadStateError
		row.Error = feed.Err.Error()
		var k kinded
		if errors.As(feed.Err, &k) {
			row.ErrorKind = k.ErrorKind()
		}
	case feed.State == entity.LoadStateError, feed.State == entity.LoadStateLoading:
		row.State = feed.State
	default:
		row.State = entity.LoadStateDisconnected
	}
	return row
}
