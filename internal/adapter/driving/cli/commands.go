package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/diillson/campaign-analytics-go/internal/application/reporting"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/pkg/version"
)

func (app *CLIApp) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Compare the connected platforms of a campaign",
		RunE:  app.runDashboard,
	}
}

// runDashboard é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runDashboard(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner()
	if app.checkUpdates {
		go version.CheckLatestVersion(app.version)
	}
	return app.services.Dashboard.RunDashboard(cmd.Context(), app.args)
}

func (app *CLIApp) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate or schedule a campaign report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.services.Reports.RunReport(cmd.Context(), app.args)
		},
	}

	f := cmd.Flags()
	f.StringP("report-name", "n", "", "Report name, also used for the file name")
	f.StringP("template", "y", "", "Report template: "+strings.Join(reporting.TemplateIDs(), ", "))
	f.StringSliceP("format", "f", []string{string(entity.FormatCSV)}, "Report formats: csv, text, json, pdf")
	f.StringSliceP("metrics", "m", nil, "Metrics to include (comma-separated)")
	f.String("date-range", reporting.DefaultDateRange, "Date range: 7d, 30d, 90d, mtd, ytd or custom:FROM..TO")
	f.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	f.Bool("include-kpis", false, "Include KPI progress")
	f.Bool("include-benchmarks", false, "Include benchmark progress")
	f.Bool("schedule", false, "Schedule the report instead of generating it now")
	f.String("frequency", "weekly", "Schedule frequency: daily, weekly or monthly")
	f.String("day", "", "Day of delivery for weekly or monthly schedules")
	f.String("time", "", "Time of delivery, HH:MM")
	f.StringSlice("recipients", nil, "Email recipients of a scheduled report")
	return cmd
}

func (app *CLIApp) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage stored and scheduled reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the reports in the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.services.Reports.RunReportsList(cmd.Context(), app.args)
		},
	}
	list.Flags().String("status", "", "Only show reports with this status: scheduled or generated")

	del := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete reports from the registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			return app.services.Reports.RunReportsDelete(cmd.Context(), ids)
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

func (app *CLIApp) kpisCommand() *cobra.Command {
	runTargets := func(cmd *cobra.Command, _ []string) error {
		return app.services.Targets.RunTargets(cmd.Context(), app.args)
	}
	cmd := &cobra.Command{
		Use:     "kpis",
		Aliases: []string{"targets"},
		Short:   "Show and create KPIs and benchmarks",
		RunE:    runTargets,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show KPI and benchmark progress",
		RunE:  runTargets,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a KPI, or a benchmark with --benchmark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.services.Targets.RunAddTarget(cmd.Context(), app.args)
		},
	}
	f := add.Flags()
	f.String("name", "", "Target name")
	f.Float64("current", 0, "Current value")
	f.Float64("target", 0, "Target value")
	f.String("unit", "", "Unit of the values, e.g. leads or %")
	f.String("category", "", "Category, e.g. conversion or engagement")
	f.Bool("benchmark", false, "Create an industry benchmark instead of a KPI")
	f.String("industry", "", "Industry of the benchmark")
	f.String("source", "", "Source of the benchmark figure")

	cmd.AddCommand(list, add)
	return cmd
}

func (app *CLIApp) insightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Ask questions about campaign performance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ask QUESTION",
		Short: "Answer a question from the live comparison",
		RunE: func(cmd *cobra.Command, words []string) error {
			app.args.Question = strings.Join(words, " ")
			return app.services.Insights.RunInsights(cmd.Context(), app.args)
		},
	})
	return cmd
}
