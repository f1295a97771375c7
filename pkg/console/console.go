package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BoldRed       = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

const barWidth = 30

// Console é uma implementação do ConsoleInterface sobre pterm.
type Console struct {
	out io.Writer
}

// NewConsole cria um Console que escreve no stdout.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stdout)
}

// NewConsoleWithWriter cria um Console que escreve em w.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria a barra de progresso da busca por plataforma.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Fetching platform data").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		WithWriter(c.out).
		Start()
	return &progressHandle{bar: bar}
}

func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

func (h *progressHandle) Stop() {
	if h.bar != nil {
		_, _ = h.bar.Stop()
	}
}

// Table acumula colunas e linhas e renderiza com pterm.
type Table struct {
	columns []string
	rows    [][]string
}

func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

func (t *Table) AddColumn(name string, _ ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(t.columns))
	for i, cell := range cells {
		if i >= len(row) {
			row = append(row, "")
		}
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

// Render devolve a tabela com cabeçalho e bordas.
func (t *Table) Render() string {
	data := pterm.TableData{t.columns}
	data = append(data, t.rows...)

	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	return rendered
}

// DisplayPanel draws body inside a titled box.
func (c *Console) DisplayPanel(title, body string) {
	panel := pterm.DefaultBox.
		WithTitle(title).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(body)
	fmt.Fprintln(c.out, panel)
}

// DisplayTargetBars exibe o progresso de KPIs e benchmarks em barras.
func (c *Console) DisplayTargetBars(title string, bars []types.TargetBar) {
	if len(bars) == 0 {
		c.LogWarning("No %s defined for this campaign", strings.ToLower(title))
		return
	}

	data := pterm.TableData{{"Target", "Progress", "", "Status"}}
	for _, b := range bars {
		style := statusStyle(b.Status)
		data = append(data, []string{
			b.Label,
			fmt.Sprintf("%.1f%%", b.Progress),
			style.Sprint(Bar(b.Display)),
			style.Sprint(b.Status),
		})
	}

	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	fmt.Fprintln(c.out)
	c.DisplayPanel(title, rendered)
}

// Bar draws a progress percentage, clamped to 0..100, as a fixed width bar.
func Bar(percent float64) string {
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func statusStyle(status string) *pterm.Style {
	switch status {
	case "Exceeding":
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case "On Track":
		return pterm.NewStyle(pterm.FgGreen)
	case "At Risk":
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgRed)
	}
}
