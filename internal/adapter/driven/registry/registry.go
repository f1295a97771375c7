// Package registry holds the report registry backends.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	awsadapter "github.com/diillson/campaign-analytics-go/internal/adapter/driven/aws"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// Backend names accepted in the registry configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

// DefaultFilePath is used by the file backend when no path is configured.
const DefaultFilePath = "reports.json"

// Describer is implemented by registries that can say where they store data.
type Describer interface {
	Describe(ctx context.Context) (string, error)
}

// New opens the configured registry. The file backend is the default.
func New(ctx context.Context, cfg types.RegistryConfig, logger *zap.Logger) (repository.ReportRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return NewMemoryRegistry(), nil
	case "", BackendFile:
		path := cfg.Path
		if path == "" {
			path = DefaultFilePath
		}
		return NewFileRegistry(path), nil
	case BackendS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 registry requires a bucket")
		}
		sessions := awsadapter.NewSessionProvider()
		client, err := sessions.S3Client(ctx, cfg.Profile, cfg.Region)
		if err != nil {
			return nil, err
		}
		reg := NewS3Registry(client, cfg.Bucket, cfg.Prefix)
		reg.identity = func(ctx context.Context) (string, error) {
			return sessions.AccountID(ctx, cfg.Profile)
		}
		return reg, nil
	case BackendRedis:
		return NewRedisRegistry(ctx, cfg, logger)
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedRegistry, cfg.Backend)
}

// sortReports orders reports oldest first, breaking ties by id.
func sortReports(reports []entity.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}
