package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFileFormats(t *testing.T) {
	repo := NewConfigRepository()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `api_base_url = "https://api.example.com"
campaign = "c-1"
revenue_per_conversion = 40.0

[share_table.Facebook]
impressions = 50.0
clicks = 50.0
spend = 50.0
conversions = 50.0

[registry]
backend = "memory"
`,
		},
		{
			name: "yaml",
			file: "config.yml",
			content: `api_base_url: https://api.example.com
campaign: c-1
revenue_per_conversion: 40
share_table:
  Facebook: {impressions: 50, clicks: 50, spend: 50, conversions: 50}
registry:
  backend: memory
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{"api_base_url": "https://api.example.com", "campaign": "c-1",
"revenue_per_conversion": 40,
"share_table": {"Facebook": {"impressions": 50, "clicks": 50, "spend": 50, "conversions": 50}},
"registry": {"backend": "memory"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
			assert.Equal(t, "c-1", cfg.Campaign)
			assert.Equal(t, types.Float64(40), cfg.RevenuePerConversion)
			assert.Equal(t, "memory", cfg.Registry.Backend)
			assert.Equal(t, types.PlatformShare{Impressions: 50, Clicks: 50, Spend: 50, Conversions: 50}, cfg.ShareTable["Facebook"])
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")

	_, err = repo.LoadConfigFile(writeFile(t, "config.ini", "a=b"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, "config.json", "{"))
	assert.ErrorContains(t, err, "error parsing JSON file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvAPIToken, "secret")
	t.Setenv(EnvTimeout, "15")
	t.Setenv(EnvRegistryBackend, "Redis")
	t.Setenv(EnvRedisAddr, "cache:6379")

	cfg := types.Config{APIBaseURL: "https://file.example.com", Campaign: "c-1"}
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "https://env.example.com", cfg.APIBaseURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, "redis", cfg.Registry.Backend)
	assert.Equal(t, "cache:6379", cfg.Registry.RedisAddr)
	assert.Equal(t, "c-1", cfg.Campaign)
}

func TestApplyEnvRejectsBadTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")
	cfg := types.Config{}
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, "env.local", "CAMPAIGN_TEST_DOTENV=loaded\n")
	t.Setenv("CAMPAIGN_TEST_DOTENV", "")
	os.Unsetenv("CAMPAIGN_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path))
	assert.Equal(t, "loaded", os.Getenv("CAMPAIGN_TEST_DOTENV"))
}
