package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

func snapshot() entity.ReportSnapshot {
	metrics := []entity.ReportMetric{entity.MetricClicks, entity.MetricCPC, entity.MetricCTR, entity.MetricROAS}
	return entity.ReportSnapshot{
		ReportName:   "Q1 Review",
		CampaignID:   "c-1",
		CampaignName: "Spring",
		DateRange:    "90d",
		GeneratedAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Metrics:      metrics,
		Summary: map[entity.ReportMetric]entity.OptionalMetric{
			entity.MetricClicks: entity.Available(557),
			entity.MetricCPC:    entity.Available(1.81),
			entity.MetricCTR:    entity.Available(3.3),
			entity.MetricROAS:   entity.Unavailable(),
		},
		Budget:     2000,
		BudgetUsed: 50.42,
		Platforms: []entity.SnapshotRow{
			{
				Platform: entity.PlatformLinkedInAds, Name: "LinkedIn Ads",
				Provenance: entity.ProvenanceReal, State: entity.LoadStateLoaded,
				Values: map[entity.ReportMetric]entity.OptionalMetric{
					entity.MetricClicks: entity.Available(333),
					entity.MetricCPC:    entity.Available(1.5),
					entity.MetricCTR:    entity.Available(3.33),
					entity.MetricROAS:   entity.Unavailable(),
				},
			},
			{
				Platform: entity.PlatformFacebookAds, Name: "Facebook Ads",
				Provenance: entity.ProvenanceEstimated, State: entity.LoadStateLoaded,
				Values: map[entity.ReportMetric]entity.OptionalMetric{
					entity.MetricClicks: entity.Available(224),
					entity.MetricCPC:    entity.Available(2.26),
					entity.MetricCTR:    entity.Available(3.2),
					entity.MetricROAS:   entity.Unavailable(),
				},
			},
		},
		Rankings: []entity.SnapshotRanking{
			{Metric: entity.RankBestCTR, Label: "Best CTR", Platform: entity.PlatformLinkedInAds, Value: 3.33, Found: true},
			{Metric: entity.RankHighestROAS, Label: "Highest ROAS"},
		},
		KPIs: []entity.SnapshotTarget{
			{Name: "Leads", Category: "conversion", Unit: "count", CurrentValue: 95, TargetValue: 100, Progress: 95, Status: entity.StatusOnTrack},
		},
		Benchmarks: []entity.SnapshotTarget{
			{Name: "Industry CTR", Category: "engagement", Unit: "%", CurrentValue: 3.3, TargetValue: 2, Progress: 165, Status: entity.StatusExceeding},
		},
		HasEstimates: true,
	}
}

func TestEncodeCSV(t *testing.T) {
	out := EncodeCSV(snapshot())

	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 3)

	lines := strings.Split(strings.TrimSpace(blocks[0]), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Platform,Source,Status,Clicks,CPC,CTR,ROAS", lines[0])
	assert.Equal(t, "LinkedIn Ads,real,loaded,333,1.5,3.33,requires conversion value", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Facebook Ads,estimated,"))

	assert.True(t, strings.HasPrefix(blocks[1], "KPIs\n"))
	assert.Contains(t, blocks[1], "Leads,conversion,95,100,count,95,On Track")
	assert.True(t, strings.HasPrefix(blocks[2], "Benchmarks\n"))
}

func TestEncodeCSV_WithoutTargets(t *testing.T) {
	snap := snapshot()
	snap.KPIs, snap.Benchmarks = nil, nil

	assert.NotContains(t, EncodeCSV(snap), "\n\n")
}

func TestEncodeText_SectionOrder(t *testing.T) {
	out := EncodeText(snapshot())

	summary := strings.Index(out, "== Summary ==")
	platforms := strings.Index(out, "== Platform Breakdown ==")
	kpis := strings.Index(out, "== KPIs ==")
	benchmarks := strings.Index(out, "== Benchmarks ==")

	require.True(t, summary >= 0 && platforms >= 0 && kpis >= 0 && benchmarks >= 0)
	assert.True(t, summary < platforms && platforms < kpis && kpis < benchmarks)
	assert.Contains(t, out, "Facebook Ads [estimated, loaded]")
	assert.Contains(t, out, "CPC: $1.50")
	assert.Contains(t, out, "ROAS: requires conversion value")
	assert.Contains(t, out, "Best CTR: LinkedIn Ads (3.33%)")
	assert.Contains(t, out, "Highest ROAS: No data")
	assert.Contains(t, out, "not measured data")
}

func TestCSVAndJSONCarryTheSameNumbers(t *testing.T) {
	repo := NewExportRepository()
	snap := snapshot()

	csvArt, err := repo.Encode(snap, entity.FormatCSV)
	require.NoError(t, err)
	jsonArt, err := repo.Encode(snap, entity.FormatJSON)
	require.NoError(t, err)

	var decoded entity.ReportSnapshot
	require.NoError(t, json.Unmarshal(jsonArt.Content, &decoded))

	lines := strings.Split(strings.Split(string(csvArt.Content), "\n\n")[0], "\n")
	for i, row := range decoded.Platforms {
		cells := strings.Split(lines[i+1], ",")
		for j, m := range decoded.Metrics {
			cell := cells[3+j]
			v := row.Values[m]
			if !v.Available {
				assert.Equal(t, "requires conversion value", cell)
				continue
			}
			f, err := strconv.ParseFloat(cell, 64)
			require.NoError(t, err)
			assert.Equal(t, v.Value, f, "%s %s", row.Name, m)
		}
	}
}

func TestEncode_JSONMarksUnavailableAsNull(t *testing.T) {
	art, err := NewExportRepository().Encode(snapshot(), entity.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "application/json", art.MIMEType)
	assert.Equal(t, "q1-review.json", art.Filename)
	assert.Contains(t, string(art.Content), `"roas": null`)
	assert.Contains(t, string(art.Content), `"provenance": "estimated"`)
}

func TestEncode_PDF(t *testing.T) {
	art, err := NewExportRepository().Encode(snapshot(), entity.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", art.MIMEType)
	assert.True(t, strings.HasPrefix(string(art.Content), "%PDF"))
}

func TestEncode_PDFWithoutPlatforms(t *testing.T) {
	snap := snapshot()
	snap.Platforms = []entity.SnapshotRow{}

	_, err := NewExportRepository().Encode(snap, entity.FormatPDF)
	assert.NoError(t, err)
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	_, err := NewExportRepository().Encode(snapshot(), "xlsx")
	assert.True(t, errors.Is(err, types.ErrUnsupportedFormat))
}

func TestDeliver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	art := entity.Artifact{Filename: "q1-review.txt", Content: []byte("hello")}

	path, err := NewExportRepository().Deliver(art, dir)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, ".txt", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "q1-review_"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestSlugAndCleanRichTags(t *testing.T) {
	assert.Equal(t, "q1-review", slug("[bold]Q1 Review![/bold]"))
	assert.Equal(t, "report", slug("!!!"))
	assert.Equal(t, "plain", cleanRichTags("\x1b[31mplain\x1b[0m"))
}
