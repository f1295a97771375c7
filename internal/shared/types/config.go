package types

import "time"

// DefaultTimeoutSeconds bounds every backend request.
const DefaultTimeoutSeconds = 60

// PlatformShare is the fraction of campaign totals attributed to a platform
// that has no feed of its own. Values are percentages.
type PlatformShare struct {
	Impressions float64 `json:"impressions" yaml:"impressions" toml:"impressions"`
	Clicks      float64 `json:"clicks" yaml:"clicks" toml:"clicks"`
	Spend       float64 `json:"spend" yaml:"spend" toml:"spend"`
	Conversions float64 `json:"conversions" yaml:"conversions" toml:"conversions"`
}

// RegistryConfig selects and configures the report registry backend.
type RegistryConfig struct {
	Backend       string `json:"backend" yaml:"backend" toml:"backend"`
	Path          string `json:"path" yaml:"path" toml:"path"`
	Bucket        string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Prefix        string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Region        string `json:"region" yaml:"region" toml:"region"`
	Profile       string `json:"profile" yaml:"profile" toml:"profile"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `json:"redis_password" yaml:"redis_password" toml:"redis_password"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db" toml:"redis_db"`
	KeyPrefix     string `json:"key_prefix" yaml:"key_prefix" toml:"key_prefix"`
}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	APIBaseURL           string                   `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	APIToken             string                   `json:"api_token" yaml:"api_token" toml:"api_token"`
	TimeoutSeconds       int                      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	Campaign             string                   `json:"campaign" yaml:"campaign" toml:"campaign"`
	RevenuePerConversion *float64                 `json:"revenue_per_conversion" yaml:"revenue_per_conversion" toml:"revenue_per_conversion"`
	CampaignRevenue      map[string]float64       `json:"campaign_revenue" yaml:"campaign_revenue" toml:"campaign_revenue"`
	ShareTable           map[string]PlatformShare `json:"share_table" yaml:"share_table" toml:"share_table"`
	ReportDir            string                   `json:"report_dir" yaml:"report_dir" toml:"report_dir"`
	Registry             RegistryConfig           `json:"registry" yaml:"registry" toml:"registry"`
	InsightsDelayMS      int                      `json:"insights_delay_ms" yaml:"insights_delay_ms" toml:"insights_delay_ms"`
	ListenAddr           string                   `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	LogLevel             string                   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat            string                   `json:"log_format" yaml:"log_format" toml:"log_format"`
}

// Timeout returns the request timeout, falling back to the default.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RevenueFor returns the revenue-per-conversion assumption of a campaign.
// A nil result means revenue is not tracked and ROAS/ROI are unavailable;
// a configured zero is a real zero.
func (c Config) RevenueFor(campaignID string) *float64 {
	if v, ok := c.CampaignRevenue[campaignID]; ok {
		return &v
	}
	if c.RevenuePerConversion != nil {
		v := *c.RevenuePerConversion
		return &v
	}
	return nil
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
