package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/infrastructure/config"
)

// DefaultValuationKey is the Redis key holding the cached valuation report.
const DefaultValuationKey = "stockdesk:inventory:valuation"

// ValuationCache stores the latest valuation report. Get returns (nil, nil)
// on a miss. Every Invalidate bumps a generation counter; Set stores the
// report only while the generation still matches the one read before the
// report was computed, so a write racing an invalidation is dropped.
type ValuationCache interface {
	Get(ctx context.Context) (*inventory.ValuationReport, error)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, generation uint64, report *inventory.ValuationReport) error
	Invalidate(ctx context.Context) error
}

// RedisValuationCache keeps the report as JSON under a single key with a TTL.
// The generation lives in a sibling counter key.
type RedisValuationCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisValuationCache wraps an existing client.
func NewRedisValuationCache(client *redis.Client, key string, ttl time.Duration) *RedisValuationCache {
	if key == "" {
		key = DefaultValuationKey
	}
	return &RedisValuationCache{client: client, key: key, genKey: key + ":gen", ttl: ttl}
}

// Get implements ValuationCache
func (c *RedisValuationCache) Get(ctx context.Context) (*inventory.ValuationReport, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read valuation cache: %w", err)
	}
	var report inventory.ValuationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached valuation: %w", err)
	}
	return &report, nil
}

// Generation implements ValuationCache
func (c *RedisValuationCache) Generation(ctx context.Context) (uint64, error) {
	return readGeneration(ctx, c.client, c.genKey)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd stringGetter, key string) (uint64, error) {
	gen, err := cmd.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read valuation generation: %w", err)
	}
	return gen, nil
}

// Set implements ValuationCache. The generation key is watched so an
// Invalidate landing between the check and the write aborts the write.
func (c *RedisValuationCache) Set(ctx context.Context, generation uint64, report *inventory.ValuationReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode valuation: %w", err)
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, c.genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write valuation cache: %w", err)
	}
	return nil
}

// Invalidate implements ValuationCache
func (c *RedisValuationCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.Incr(ctx, c.genKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate valuation cache: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (c *RedisValuationCache) Close() error {
	return c.client.Close()
}

// InMemoryValuationCache is a process-local cache for single-instance
// deployments and tests.
type InMemoryValuationCache struct {
	mu         sync.RWMutex
	report     *inventory.ValuationReport
	generation uint64
	expires    time.Time
	ttl        time.Duration
	now        func() time.Time
}

// NewInMemoryValuationCache creates an empty cache. A zero ttl never expires.
func NewInMemoryValuationCache(ttl time.Duration) *InMemoryValuationCache {
	return &InMemoryValuationCache{ttl: ttl, now: time.Now}
}

// Get implements ValuationCache
func (c *InMemoryValuationCache) Get(_ context.Context) (*inventory.ValuationReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.report == nil {
		return nil, nil
	}
	if c.ttl > 0 && !c.now().Before(c.expires) {
		return nil, nil
	}
	cp := *c.report
	return &cp, nil
}

// Generation implements ValuationCache
func (c *InMemoryValuationCache) Generation(_ context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation, nil
}

// Set implements ValuationCache
func (c *InMemoryValuationCache) Set(_ context.Context, generation uint64, report *inventory.ValuationReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return nil
	}
	cp := *report
	c.report = &cp
	c.expires = c.now().Add(c.ttl)
	return nil
}

// Invalidate implements ValuationCache
func (c *InMemoryValuationCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = nil
	c.generation++
	return nil
}

// NewValuationCache returns a Redis-backed cache when Redis is configured and
// reachable, otherwise an in-memory one.
func NewValuationCache(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) ValuationCache {
	if !cfg.Enabled() {
		logger.Info("Redis not configured, using in-memory valuation cache")
		return NewInMemoryValuationCache(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory valuation cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		_ = client.Close()
		return NewInMemoryValuationCache(ttl)
	}

	logger.Info("Using Redis valuation cache", zap.String("addr", cfg.Addr()))
	return NewRedisValuationCache(client, DefaultValuationKey, ttl)
}

var (
	_ ValuationCache = (*RedisValuationCache)(nil)
	_ ValuationCache = (*InMemoryValuationCache)(nil)
)
