package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// redisCommands is the subset of *redis.Client the registry uses.
type redisCommands interface {
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Close() error
}

// RedisRegistry keeps report documents in a hash and their order in a
// sorted set scored by creation time.
type RedisRegistry struct {
	client   redisCommands
	hashKey  string
	indexKey string
	logger   *zap.Logger
	addr     string
}

// NewRedisRegistry connects to Redis and checks the connection.
func NewRedisRegistry(ctx context.Context, cfg types.RegistryConfig, logger *zap.Logger) (*RedisRegistry, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", cfg.RedisDB),
	)
	reg := newRedisRegistry(client, cfg.KeyPrefix, logger)
	reg.addr = addr
	return reg, nil
}

func newRedisRegistry(client redisCommands, prefix string, logger *zap.Logger) *RedisRegistry {
	if prefix == "" {
		prefix = "campaign-analytics"
	}
	return &RedisRegistry{
		client:   client,
		hashKey:  prefix + ":reports",
		indexKey: prefix + ":reports:index",
		logger:   logger,
	}
}

func (r *RedisRegistry) Add(ctx context.Context, rep entity.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("error encoding report %s: %w", rep.ID, err)
	}

	created, err := r.client.HSetNX(ctx, r.hashKey, rep.ID, data).Result()
	if err != nil {
		return fmt.Errorf("error storing report %s: %w", rep.ID, err)
	}
	if !created {
		return fmt.Errorf("report %s already exists", rep.ID)
	}
	score := float64(rep.CreatedAt.UnixNano())
	if err := r.client.ZAdd(ctx, r.indexKey, redis.Z{Score: score, Member: rep.ID}).Err(); err != nil {
		return fmt.Errorf("error indexing report %s: %w", rep.ID, err)
	}
	return nil
}

func (r *RedisRegistry) List(ctx context.Context) ([]entity.Report, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	reports := []entity.Report{}
	if len(ids) == 0 {
		return reports, nil
	}

	values, err := r.client.HMGet(ctx, r.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("error loading reports: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			r.logger.Warn("report index entry without document", zap.String("id", ids[i]))
			continue
		}
		var rep entity.Report
		if err := json.Unmarshal([]byte(s), &rep); err != nil {
			return nil, fmt.Errorf("error parsing report %s: %w", ids[i], err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, r.hashKey, id).Result()
	if err != nil {
		return fmt.Errorf("error deleting report %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
	}
	if err := r.client.ZRem(ctx, r.indexKey, id).Err(); err != nil {
		return fmt.Errorf("error unindexing report %s: %w", id, err)
	}
	return nil
}

func (r *RedisRegistry) Describe(_ context.Context) (string, error) {
	return fmt.Sprintf("redis %s key %s", r.addr, r.hashKey), nil
}

// Close closes the Redis connection.
func (r *RedisRegistry) Close() error {
	r.logger.Info("Redis connection closed")
	return r.client.Close()
}
