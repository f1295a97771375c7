package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/campaign-analytics-go/internal/application/reporting"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// ErrUnknownStatus is returned for a report status filter that does not exist.
var ErrUnknownStatus = errors.New("unknown report status")

// ReportUseCase composes reports and manages the report registry.
type ReportUseCase struct {
	dashboard    *DashboardUseCase
	campaignRepo repository.CampaignRepository
	exportRepo   repository.ExportRepository
	registry     repository.ReportRegistry
	console      types.ConsoleInterface
	now          func() time.Time
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	dashboard *DashboardUseCase,
	campaignRepo repository.CampaignRepository,
	exportRepo repository.ExportRepository,
	registry repository.ReportRegistry,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		dashboard:    dashboard,
		campaignRepo: campaignRepo,
		exportRepo:   exportRepo,
		registry:     registry,
		console:      console,
		now:          time.Now,
	}
}

// Source is the campaign data one report run is composed from. It is
// fetched once and shared by every format of the run.
type Source struct {
	Connected int
	Snapshot  *entity.ReportSnapshot
	Now       time.Time
}

// Generate runs one report through the builder. Validation failures come
// back as reporting.FieldErrors together with the state that holds the
// user's input. The artifact is written to outputDir when it is not empty.
func (uc *ReportUseCase) Generate(ctx context.Context, cfg entity.ReportConfig, outputDir string) (reporting.State, string, error) {
	state, src, err := uc.Prepare(ctx, cfg)
	if err != nil {
		return state, "", err
	}
	return uc.Compose(ctx, src, cfg, outputDir)
}

// Prepare rejects a bad form before anything is fetched, then loads the
// campaign once and builds the snapshot the formats of a run encode.
func (uc *ReportUseCase) Prepare(ctx context.Context, cfg entity.ReportConfig) (reporting.State, Source, error) {
	now := uc.now()
	state := reporting.Apply(reporting.NewState(cfg.CampaignID), reporting.Configure(cfg)...)
	if errs := reporting.ValidateForm(state.Config, now); errs != nil {
		state.FieldErrors = errs
		return state, Source{}, errs
	}

	cmp, err := uc.dashboard.Compare(ctx, cfg.CampaignID)
	if err != nil {
		return state, Source{}, err
	}
	src := Source{Connected: cmp.Table.Summary.ConnectedCount, Now: now}
	if state.Config.Schedule.Enabled {
		return state, src, nil
	}

	kpis, benchmarks, err := uc.loadTargets(ctx, state.Config)
	if err != nil {
		return state, Source{}, err
	}
	snapshot := reporting.BuildSnapshot(state.Config, cmp.Table, kpis, benchmarks, now)
	src.Snapshot = &snapshot
	return state, src, nil
}

// Compose encodes one format of a prepared report and stores the result in
// the registry. Scheduled reports store their definition only.
func (uc *ReportUseCase) Compose(ctx context.Context, src Source, cfg entity.ReportConfig, outputDir string) (reporting.State, string, error) {
	state := reporting.Apply(reporting.NewState(cfg.CampaignID), reporting.Configure(cfg)...)
	state = reporting.Apply(state,
		reporting.Submit{ConnectedPlatforms: src.Connected},
		reporting.Validate{Now: src.Now},
	)
	if state.Phase != reporting.PhaseComposing {
		return state, "", state.FieldErrors
	}

	if state.Config.Schedule.Enabled {
		state = reporting.Reduce(state, reporting.Composed{})
		return uc.deliver(ctx, state, nil, src.Now)
	}

	if src.Snapshot == nil {
		err := errors.New("report data was not prepared")
		return reporting.Reduce(state, reporting.Fail{Err: err}), "", err
	}
	artifact, err := uc.exportRepo.Encode(*src.Snapshot, state.Config.Format)
	if err != nil {
		state = reporting.Reduce(state, reporting.Fail{Err: err})
		return state, "", err
	}
	state = reporting.Reduce(state, reporting.Composed{Artifact: &artifact})

	path := ""
	if outputDir != "" {
		path, err = uc.exportRepo.Deliver(artifact, outputDir)
		if err != nil {
			state = reporting.Reduce(state, reporting.Fail{Err: err})
			return state, "", err
		}
	}

	state, _, err = uc.deliver(ctx, state, &artifact, src.Now)
	return state, path, err
}

func (uc *ReportUseCase) deliver(ctx context.Context, state reporting.State, artifact *entity.Artifact, now time.Time) (reporting.State, string, error) {
	report := reporting.NewReport(state.Config, artifact, now)
	if err := uc.registry.Add(ctx, report); err != nil {
		err = fmt.Errorf("error storing report: %w", err)
		return reporting.Reduce(state, reporting.Fail{Err: err}), "", err
	}
	return reporting.Reduce(state, reporting.Delivered{Report: report}), "", nil
}

func (uc *ReportUseCase) loadTargets(ctx context.Context, cfg entity.ReportConfig) ([]entity.KPI, []entity.Benchmark, error) {
	var kpis []entity.KPI
	var benchmarks []entity.Benchmark
	var err error

	if cfg.IncludeKPIs {
		if kpis, err = uc.campaignRepo.ListKPIs(ctx, cfg.CampaignID); err != nil {
			return nil, nil, fmt.Errorf("error loading KPIs: %w", err)
		}
	}
	if cfg.IncludeBenchmarks {
		if benchmarks, err = uc.campaignRepo.ListBenchmarks(ctx, cfg.CampaignID); err != nil {
			return nil, nil, fmt.Errorf("error loading benchmarks: %w", err)
		}
	}
	return kpis, benchmarks, nil
}

// List returns the registry entries, optionally filtered by status.
func (uc *ReportUseCase) List(ctx context.Context, status string) ([]entity.Report, error) {
	reports, err := uc.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return reports, nil
	}
	s, err := ParseReportStatus(status)
	if err != nil {
		return nil, err
	}
	return repository.FilterByStatus(reports, s), nil
}

// Delete removes a report for good.
func (uc *ReportUseCase) Delete(ctx context.Context, id string) error {
	return uc.registry.Delete(ctx, id)
}

// ParseReportStatus accepts a status name in any case.
func ParseReportStatus(s string) (entity.ReportStatus, error) {
	for _, st := range []entity.ReportStatus{entity.ReportScheduled, entity.ReportGenerated} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w %q: use scheduled or generated", ErrUnknownStatus, s)
}

// ConfigFromArgs builds a report configuration from CLI arguments.
func ConfigFromArgs(args *types.CLIArgs, format string) entity.ReportConfig {
	cfg := entity.ReportConfig{
		CampaignID:        args.Campaign,
		Name:              args.ReportName,
		TemplateID:        args.ReportType,
		DateRange:         args.DateRange,
		Format:            entity.ReportFormat(strings.ToLower(format)),
		IncludeKPIs:       args.IncludeKPIs,
		IncludeBenchmarks: args.IncludeBenchmarks,
	}
	for _, m := range args.Metrics {
		cfg.Metrics = append(cfg.Metrics, entity.ReportMetric(strings.ToLower(strings.TrimSpace(m))))
	}
	if args.Schedule {
		cfg.Schedule = entity.Schedule{
			Enabled:    true,
			Frequency:  strings.ToLower(args.Frequency),
			Day:        args.Day,
			Time:       args.Time,
			Recipients: reporting.Recipients(args.Recipients),
		}
	}
	return cfg
}

// RunReport gera um relatório por formato solicitado, todos a partir dos
// mesmos dados.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	formats := args.ReportFormats
	if len(formats) == 0 {
		formats = []string{string(entity.FormatCSV)}
	}
	configs := make([]entity.ReportConfig, 0, len(formats))
	for _, format := range formats {
		configs = append(configs, ConfigFromArgs(args, format))
	}

	status := uc.console.Status("Loading campaign data...")
	_, src, err := uc.Prepare(ctx, configs[0])
	status.Stop()
	if err != nil {
		return uc.reportFailure(err)
	}

	failed := 0
	for _, cfg := range configs {
		format := string(cfg.Format)

		status := uc.console.Status(fmt.Sprintf("Generating %s report...", format))
		state, path, err := uc.Compose(ctx, src, cfg, args.Dir)
		status.Stop()

		var fieldErrs reporting.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			return uc.reportFailure(err)
		case err != nil:
			uc.console.LogError("Failed to generate %s report: %s", format, err)
			failed++
			continue
		}

		if state.Report.Status == entity.ReportScheduled {
			uc.console.LogSuccess("Scheduled %s report %q (%s, %s) for %s",
				format, reporting.ReportName(state.Config), state.Config.Schedule.Frequency,
				state.Report.ID, strings.Join(state.Config.Schedule.Recipients, ", "))
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", strings.ToUpper(format), path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(formats))
	}
	return nil
}

func (uc *ReportUseCase) reportFailure(err error) error {
	var fieldErrs reporting.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	uc.console.LogError("Report configuration is invalid:")
	for _, line := range strings.Split(fieldErrs.Error(), "; ") {
		uc.console.Println("  - " + line)
	}
	return fmt.Errorf("invalid report configuration")
}

// RunReportsList lista os relatórios do registro.
func (uc *ReportUseCase) RunReportsList(ctx context.Context, args *types.CLIArgs) error {
	reports, err := uc.List(ctx, args.Status)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		uc.console.LogInfo("No reports found")
		return nil
	}

	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Name")
	table.AddColumn("Campaign")
	table.AddColumn("Format")
	table.AddColumn("Status")
	table.AddColumn("Created")
	table.AddColumn("Delivery")

	for _, r := range reports {
		status := pterm.FgGreen.Sprint(r.Status)
		delivery := ""
		if r.Artifact != nil {
			delivery = r.Artifact.Filename
		}
		if r.Status == entity.ReportScheduled {
			status = pterm.FgYellow.Sprint(r.Status)
			delivery = fmt.Sprintf("%s to %s", r.Config.Schedule.Frequency, strings.Join(r.Config.Schedule.Recipients, ", "))
		}
		table.AddRow(
			r.ID,
			pterm.FgMagenta.Sprint(reporting.ReportName(r.Config)),
			r.Config.CampaignID,
			string(r.Config.Format),
			status,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			delivery,
		)
	}
	uc.console.Print(table.Render())
	return nil
}

// RunReportsDelete remove relatórios do registro.
func (uc *ReportUseCase) RunReportsDelete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := uc.Delete(ctx, id); err != nil {
			return err
		}
		uc.console.LogSuccess("Deleted report %s", id)
	}
	return nil
}
