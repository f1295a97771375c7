package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL          = "CAMPAIGN_API_URL"
	EnvAPIToken        = "CAMPAIGN_API_TOKEN"
	EnvTimeout         = "CAMPAIGN_API_TIMEOUT_SECONDS"
	EnvRegistryBackend = "CAMPAIGN_REGISTRY_BACKEND"
	EnvRegistryBucket  = "CAMPAIGN_REGISTRY_BUCKET"
	EnvRedisAddr       = "CAMPAIGN_REDIS_ADDR"
	EnvLogLevel        = "CAMPAIGN_LOG_LEVEL"
)

// DefaultEnvFile is loaded by LoadDotEnv when no path is given.
const DefaultEnvFile = "env.local"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment.
// Files that do not exist are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays CAMPAIGN_* environment variables on cfg.
func ApplyEnv(cfg *types.Config) error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", EnvTimeout, v)
		}
		cfg.TimeoutSeconds = n
	}
	if v := os.Getenv(EnvRegistryBackend); v != "" {
		cfg.Registry.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRegistryBucket); v != "" {
		cfg.Registry.Bucket = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Registry.RedisAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}
