package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
)

const pageWidth = 277.0 // A4 landscape minus margins

// EncodePDF renders the snapshot as a PDF document with the same sections
// as the text report.
func EncodePDF(snap entity.ReportSnapshot) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(cleanRichTags(snap.ReportName), true)
	pdf.SetCreationDate(snap.GeneratedAt)

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}
	estimatedColor := [3]int{180, 110, 0}

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+pageWidth, pdf.GetY())
		pdf.Ln(4)
	}

	drawSection := func(title string, content string) {
		if content == "" {
			return
		}
		sectionTitle(title)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(pageWidth, 5, tr(cleanRichTags(content)), "", "L", false)
		pdf.Ln(6)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by Campaign Analytics | %s", snap.GeneratedAt.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+cleanRichTags(snap.ReportName)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Campaign: %s (%s)  |  Date range: %s", snap.CampaignName, snap.CampaignID, snap.DateRange)), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	var summary strings.Builder
	for _, m := range snap.Metrics {
		fmt.Fprintf(&summary, "%s: %s\n", m.Label(), deriver.FormatMetric(m.Kind(), snap.Summary[m]))
	}
	fmt.Fprintf(&summary, "Budget: %s (%s used)\n", deriver.FormatCurrency(snap.Budget), deriver.FormatPercent(snap.BudgetUsed))
	for _, r := range snap.Rankings {
		fmt.Fprintf(&summary, "%s: %s\n", r.Label, RankingText(r))
	}
	drawSection("Summary", strings.TrimSpace(summary.String()))

	sectionTitle("Platform Breakdown")
	if len(snap.Platforms) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, "No connected platforms")
		pdf.Ln(8)
	} else {
		nameWidth, sourceWidth := 38.0, 22.0
		colWidth := (pageWidth - nameWidth - sourceWidth) / float64(len(snap.Metrics))

		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(nameWidth, 7, "Platform", "B", 0, "L", false, 0, "")
		pdf.CellFormat(sourceWidth, 7, "Source", "B", 0, "L", false, 0, "")
		for _, m := range snap.Metrics {
			pdf.CellFormat(colWidth, 7, tr(m.Label()), "B", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		missing := false
		for _, row := range snap.Platforms {
			if row.Provenance == entity.ProvenanceEstimated {
				pdf.SetTextColor(estimatedColor[0], estimatedColor[1], estimatedColor[2])
			}
			pdf.CellFormat(nameWidth, 6, tr(row.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(sourceWidth, 6, string(row.Provenance), "", 0, "L", false, 0, "")
			for _, m := range snap.Metrics {
				v := row.Values[m]
				text := "n/a"
				if v.Available {
					text = deriver.FormatMetric(m.Kind(), v)
				} else {
					missing = true
				}
				pdf.CellFormat(colWidth, 6, tr(text), "", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		}
		pdf.SetFont("Arial", "I", 8)
		if snap.HasEstimates {
			pdf.Cell(0, 6, "Estimated rows are a proportional breakdown of campaign totals, not measured data.")
			pdf.Ln(-1)
		}
		if missing {
			pdf.Cell(0, 6, "n/a: "+deriver.RequiresConversionValue)
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	drawSection("KPIs", targetsText(snap.KPIs))
	drawSection("Benchmarks", targetsText(snap.Benchmarks))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func targetsText(targets []entity.SnapshotTarget) string {
	lines := make([]string, 0, len(targets))
	for _, t := range targets {
		lines = append(lines, targetLine(t))
	}
	return strings.Join(lines, "\n")
}
