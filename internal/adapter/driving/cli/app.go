package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/adapter/driven/config"
	"github.com/diillson/campaign-analytics-go/internal/adapter/driving/httpapi"
	"github.com/diillson/campaign-analytics-go/internal/application/usecase"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
	"github.com/diillson/campaign-analytics-go/pkg/version"
)

// DefaultListenAddr is used by serve when no address is configured.
const DefaultListenAddr = ":8080"

// ServicesBuilder wires the use cases once the configuration is known.
type ServicesBuilder func(ctx context.Context, cfg types.Config, logger *zap.Logger) (*usecase.Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	build      ServicesBuilder
	version    string

	// Populated by prepare before any command runs.
	args     *types.CLIArgs
	config   types.Config
	logger   *zap.Logger
	services *usecase.Services

	checkUpdates bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, build ServicesBuilder) *CLIApp {
	app := &CLIApp{
		configRepo:   configRepo,
		build:        build,
		version:      versionStr,
		args:         &types.CLIArgs{},
		checkUpdates: true,
	}

	rootCmd := &cobra.Command{
		Use:               "campaign-analytics",
		Short:             "Cross-platform marketing campaign analytics",
		Version:           version.FormatVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.prepare,
		PersistentPostRun: app.cleanup,
		RunE:              app.runDashboard,
	}
	rootCmd.SetVersionTemplate(`{{printf "Campaign Analytics version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", config.DefaultEnvFile, "Dotenv file loaded before the configuration")
	flags.String("api-url", "", "Base URL of the campaign backend API")
	flags.StringP("campaign", "c", "", "Campaign id to analyse")
	flags.Float64("revenue-per-conversion", 0, "Revenue attributed to each conversion, enables ROAS and ROI")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		app.dashboardCommand(),
		app.reportCommand(),
		app.reportsCommand(),
		app.kpisCommand(),
		app.insightsCommand(),
		app.serveCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// prepare loads the configuration in order env file, config file,
// environment, flags, and then builds the services.
func (app *CLIApp) prepare(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var cfg types.Config
	if path, _ := cmd.Flags().GetString("config-file"); path != "" {
		loaded, err := app.configRepo.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("error loading config file: %w", err)
		}
		cfg = *loaded
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}

	args, err := parseFlags(cmd)
	if err != nil {
		return err
	}
	cfg = mergeConfig(cfg, args)
	app.args = args
	app.config = cfg

	format := cfg.LogFormat
	if format == "" && cmd.Name() != "serve" {
		format = "console"
	}
	level := cfg.LogLevel
	if level == "" && cmd.Name() != "serve" {
		level = "warn"
	}
	logger, err := httpapi.NewLogger(level, format)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	app.logger = logger

	services, err := app.build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	app.services = services
	return nil
}

func (app *CLIApp) cleanup(_ *cobra.Command, _ []string) {
	if app.services != nil {
		if err := app.services.Close(); err != nil {
			app.logger.Warn("error closing registry", zap.Error(err))
		}
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// parseFlags collects every flag the invoked command defines.
func parseFlags(cmd *cobra.Command) (*types.CLIArgs, error) {
	f := cmd.Flags()
	args := &types.CLIArgs{}

	args.ConfigFile, _ = f.GetString("config-file")
	args.APIBaseURL, _ = f.GetString("api-url")
	args.Campaign, _ = f.GetString("campaign")
	if f.Changed("revenue-per-conversion") {
		v, _ := f.GetFloat64("revenue-per-conversion")
		args.RevenuePerConversion = &v
	}
	args.LogLevel, _ = f.GetString("log-level")

	args.ReportName, _ = f.GetString("report-name")
	args.ReportType, _ = f.GetString("template")
	args.ReportFormats, _ = f.GetStringSlice("format")
	args.Metrics, _ = f.GetStringSlice("metrics")
	args.DateRange, _ = f.GetString("date-range")
	args.Dir, _ = f.GetString("dir")
	args.IncludeKPIs, _ = f.GetBool("include-kpis")
	args.IncludeBenchmarks, _ = f.GetBool("include-benchmarks")
	args.Schedule, _ = f.GetBool("schedule")
	args.Frequency, _ = f.GetString("frequency")
	args.Day, _ = f.GetString("day")
	args.Time, _ = f.GetString("time")
	args.Recipients, _ = f.GetStringSlice("recipients")

	args.Status, _ = f.GetString("status")
	args.ListenAddr, _ = f.GetString("listen")

	args.TargetName, _ = f.GetString("name")
	args.CurrentValue, _ = f.GetFloat64("current")
	args.TargetValue, _ = f.GetFloat64("target")
	args.Unit, _ = f.GetString("unit")
	args.Category, _ = f.GetString("category")
	args.Benchmark, _ = f.GetBool("benchmark")
	args.Industry, _ = f.GetString("industry")
	args.Source, _ = f.GetString("source")

	if args.Dir != "" {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}
	return args, nil
}

// mergeConfig overlays explicit flags on cfg and fills the arguments the
// flags left empty from cfg.
func mergeConfig(cfg types.Config, args *types.CLIArgs) types.Config {
	if args.APIBaseURL != "" {
		cfg.APIBaseURL = args.APIBaseURL
	}
	if args.Campaign != "" {
		cfg.Campaign = args.Campaign
	}
	if args.RevenuePerConversion != nil {
		cfg.RevenuePerConversion = args.RevenuePerConversion
	}
	if args.ListenAddr != "" {
		cfg.ListenAddr = args.ListenAddr
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	if args.Dir != "" {
		cfg.ReportDir = args.Dir
	}

	args.Campaign = cfg.Campaign
	args.Dir = cfg.ReportDir
	if args.Dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			args.Dir = cwd
		}
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	args.ListenAddr = cfg.ListenAddr
	return cfg
}

// Config returns the merged configuration of the last run.
func (app *CLIApp) Config() types.Config {
	return app.config
}
