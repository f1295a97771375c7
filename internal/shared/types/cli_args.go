package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile           string
	APIBaseURL           string
	Campaign             string
	RevenuePerConversion *float64
	LogLevel             string
	ReportName           string
	ReportType           string
	ReportFormats        []string
	Metrics              []string
	DateRange            string
	Dir                  string
	IncludeKPIs          bool
	IncludeBenchmarks    bool
	Schedule             bool
	Frequency            string
	Day                  string
	Time                 string
	Recipients           []string
	Status               string
	ListenAddr           string
	Question             string

	// Target fields are used when creating KPIs and benchmarks.
	TargetName   string
	CurrentValue float64
	TargetValue  float64
	Unit         string
	Category     string
	Benchmark    bool
	Industry     string
	Source       string
}
