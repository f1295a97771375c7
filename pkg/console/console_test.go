package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	m.Run()
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 15},
		{100, 30},
		{150, 30},
		{-10, 0},
		{91, 27},
	}
	for _, tt := range tests {
		bar := Bar(tt.percent)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "percent %v", tt.percent)
		assert.Equal(t, barWidth, strings.Count(bar, "█")+strings.Count(bar, "░"))
	}
}

func TestTableRender(t *testing.T) {
	c := NewConsoleWithWriter(&bytes.Buffer{})
	table := c.CreateTable()
	table.AddColumn("Platform")
	table.AddColumn("Clicks")
	table.AddRow("LinkedIn Ads", 300)
	table.AddRow("Facebook Ads")

	out := table.Render()
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "LinkedIn Ads")
	assert.Contains(t, out, "300")
	assert.Contains(t, out, "Facebook Ads")
}

func TestDisplayTargetBars(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.DisplayTargetBars("KPIs", []types.TargetBar{
		{Label: "Leads (45 / 50 leads)", Progress: 90, Display: 90, Status: "On Track"},
		{Label: "Signups", Progress: 120, Display: 100, Status: "Exceeding"},
	})
	out := buf.String()
	assert.Contains(t, out, "KPIs")
	assert.Contains(t, out, "Leads (45 / 50 leads)")
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "120.0%")
	assert.Contains(t, out, "Exceeding")

	buf.Reset()
	c.DisplayTargetBars("Benchmarks", nil)
	assert.Contains(t, buf.String(), "No benchmarks defined for this campaign")
}

func TestDisplayPanelAndLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.DisplayPanel("Insights", "LinkedIn Ads has the highest ROAS.")
	c.LogSuccess("Deleted report %s", "r-1")
	c.Printf("%d platforms\n", 3)

	out := buf.String()
	assert.Contains(t, out, "Insights")
	assert.Contains(t, out, "LinkedIn Ads has the highest ROAS.")
	assert.Contains(t, out, "Deleted report r-1")
	assert.Contains(t, out, "3 platforms")
}
