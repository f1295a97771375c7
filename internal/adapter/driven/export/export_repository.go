package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/campaign-analytics-go/internal/application/deriver"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

var mimeTypes = map[entity.ReportFormat]string{
	entity.FormatCSV:  "text/csv",
	entity.FormatText: "text/plain; charset=utf-8",
	entity.FormatJSON: "application/json",
	entity.FormatPDF:  "application/pdf",
}

var extensions = map[entity.ReportFormat]string{
	entity.FormatCSV:  "csv",
	entity.FormatText: "txt",
	entity.FormatJSON: "json",
	entity.FormatPDF:  "pdf",
}

// MIMEType returns the content type of a format.
func MIMEType(f entity.ReportFormat) string { return mimeTypes[f] }

// Encode renders a snapshot in the requested format.
func (r *ExportRepositoryImpl) Encode(snap entity.ReportSnapshot, format entity.ReportFormat) (entity.Artifact, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case entity.FormatCSV:
		content = []byte(EncodeCSV(snap))
	case entity.FormatText:
		content = []byte(EncodeText(snap))
	case entity.FormatJSON:
		content, err = json.MarshalIndent(snap, "", "  ")
	case entity.FormatPDF:
		content, err = EncodePDF(snap)
	default:
		return entity.Artifact{}, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return entity.Artifact{}, fmt.Errorf("error encoding %s report: %w", format, err)
	}

	return entity.Artifact{
		Filename: slug(snap.ReportName) + "." + extensions[format],
		MIMEType: mimeTypes[format],
		Content:  content,
	}, nil
}

// Deliver writes the artifact to outputDir under a timestamped name and
// returns the absolute path.
func (r *ExportRepositoryImpl) Deliver(artifact entity.Artifact, outputDir string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(artifact.Filename), ".")
	base := strings.TrimSuffix(artifact.Filename, filepath.Ext(artifact.Filename))
	if base == "" {
		base = "report"
	}

	outputFilename, err := generateFilename(base, outputDir, ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFilename, artifact.Content, 0644); err != nil {
		return "", fmt.Errorf("error writing report file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// EncodeCSV renders one header row, one row per platform and optional KPI
// and benchmark blocks separated by blank lines. Cells are not quoted, so a
// comma inside a value shifts the columns.
func EncodeCSV(snap entity.ReportSnapshot) string {
	var b strings.Builder

	header := []string{"Platform", "Source", "Status"}
	for _, m := range snap.Metrics {
		header = append(header, m.Label())
	}
	writeLine(&b, header)

	for _, row := range snap.Platforms {
		record := []string{row.Name, string(row.Provenance), string(row.State)}
		for _, m := range snap.Metrics {
			record = append(record, csvValue(row.Values[m]))
		}
		writeLine(&b, record)
	}

	writeTargetsCSV(&b, "KPIs", snap.KPIs)
	writeTargetsCSV(&b, "Benchmarks", snap.Benchmarks)
	return b.String()
}

func writeTargetsCSV(b *strings.Builder, title string, targets []entity.SnapshotTarget) {
	if len(targets) == 0 {
		return
	}
	b.WriteString("\n")
	writeLine(b, []string{title})
	writeLine(b, []string{"Name", "Category", "Current", "Target", "Unit", "Progress", "Status"})
	for _, t := range targets {
		writeLine(b, []string{
			t.Name,
			t.Category,
			number(t.CurrentValue),
			number(t.TargetValue),
			t.Unit,
			number(t.Progress),
			string(t.Status),
		})
	}
}

func writeLine(b *strings.Builder, cells []string) {
	b.WriteString(strings.Join(cells, ","))
	b.WriteString("\n")
}

func csvValue(m entity.OptionalMetric) string {
	if !m.Available {
		return deriver.RequiresConversionValue
	}
	return number(m.Value)
}

func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// EncodeText renders labeled sections in a fixed order: summary, platform
// breakdown, KPIs, benchmarks.
func EncodeText(snap entity.ReportSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", snap.ReportName)
	fmt.Fprintf(&b, "Campaign: %s (%s)\n", snap.CampaignName, snap.CampaignID)
	fmt.Fprintf(&b, "Date Range: %s\n", snap.DateRange)
	fmt.Fprintf(&b, "Generated: %s\n", snap.GeneratedAt.Format(time.RFC3339))

	b.WriteString("\n== Summary ==\n")
	for _, m := range snap.Metrics {
		fmt.Fprintf(&b, "%s: %s\n", m.Label(), deriver.FormatMetric(m.Kind(), snap.Summary[m]))
	}
	fmt.Fprintf(&b, "Budget: %s\n", deriver.FormatCurrency(snap.Budget))
	fmt.Fprintf(&b, "Budget Utilization: %s\n", deriver.FormatPercent(snap.BudgetUsed))
	for _, r := range snap.Rankings {
		fmt.Fprintf(&b, "%s: %s\n", r.Label, RankingText(r))
	}

	b.WriteString("\n== Platform Breakdown ==\n")
	if len(snap.Platforms) == 0 {
		b.WriteString("No connected platforms\n")
	}
	for _, row := range snap.Platforms {
		fmt.Fprintf(&b, "%s [%s, %s]\n", row.Name, row.Provenance, row.State)
		for _, m := range snap.Metrics {
			fmt.Fprintf(&b, "  %s: %s\n", m.Label(), deriver.FormatMetric(m.Kind(), row.Values[m]))
		}
	}
	if snap.HasEstimates {
		b.WriteString("Estimated rows are a proportional breakdown of campaign totals, not measured data.\n")
	}

	writeTargetsText(&b, "KPIs", snap.KPIs)
	writeTargetsText(&b, "Benchmarks", snap.Benchmarks)
	return b.String()
}

func writeTargetsText(b *strings.Builder, title string, targets []entity.SnapshotTarget) {
	if len(targets) == 0 {
		return
	}
	fmt.Fprintf(b, "\n== %s ==\n", title)
	for _, t := range targets {
		b.WriteString(targetLine(t))
		b.WriteString("\n")
	}
}

func targetLine(t entity.SnapshotTarget) string {
	return fmt.Sprintf("%s: %s / %s %s (%s, %s)",
		t.Name, number(t.CurrentValue), number(t.TargetValue), t.Unit,
		deriver.FormatPercent(t.Progress), t.Status)
}

var rankingKinds = map[entity.RankingMetric]entity.MetricKind{
	entity.RankBestCTR:         entity.KindPercent,
	entity.RankLowestCPC:       entity.KindCurrency,
	entity.RankHighestROAS:     entity.KindRatio,
	entity.RankHighestROI:      entity.KindPercent,
	entity.RankMostConversions: entity.KindCount,
}

// RankingText renders a ranking winner, or "No data".
func RankingText(r entity.SnapshotRanking) string {
	if !r.Found {
		return "No data"
	}
	return fmt.Sprintf("%s (%s)", r.Platform.DisplayName(), deriver.FormatMetric(rankingKinds[r.Metric], entity.Available(r.Value)))
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	s := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(cleanRichTags(name)), "-"), "-")
	if s == "" {
		return "report"
	}
	return s
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// Regex para limpar formatação pterm (rich tags) e sequências ANSI de cor/estilo.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags remove tags de formatação do pterm e sequências ANSI.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
