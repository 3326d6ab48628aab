package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tradejournal/internal/config"
)

// ErrDisabled is returned by a nil ReportCache.
var ErrDisabled = errors.New("report cache disabled")

// ReportCache keeps serialized reports under their upload id for TTL.
type ReportCache struct {
	Store  Store
	TTL    time.Duration
	Prefix string
}

func (c *ReportCache) key(uploadID string) string {
	return c.Prefix + strings.TrimSpace(uploadID)
}

func (c *ReportCache) Put(ctx context.Context, uploadID string, report any) error {
	if c == nil || c.Store == nil {
		return ErrDisabled
	}
	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return c.Store.Set(ctx, c.key(uploadID), b, c.TTL)
}

// Get returns the raw JSON report. found is false when the id is unknown or
// has expired.
func (c *ReportCache) Get(ctx context.Context, uploadID string) (json.RawMessage, bool, error) {
	if c == nil || c.Store == nil {
		return nil, false, ErrDisabled
	}
	b, found, err := c.Store.Get(ctx, c.key(uploadID))
	if err != nil || !found {
		return nil, false, err
	}
	return json.RawMessage(b), true, nil
}

// Sweep drops expired entries when the backing store needs it. Redis expires
// keys on its own.
func (c *ReportCache) Sweep(ctx context.Context) int {
	if c == nil {
		return 0
	}
	if m, ok := c.Store.(*MemoryStore); ok {
		return m.Sweep(ctx)
	}
	return 0
}

// New builds the cache selected by cfg.Backend. It returns nil for the
// "none" backend.
func New(ctx context.Context, cfg config.ReportCacheConfig, logger *zap.Logger) (*ReportCache, error) {
	c := &ReportCache{TTL: cfg.TTL, Prefix: cfg.KeyPrefix}
	switch cfg.Backend {
	case config.CacheMemory, "":
		c.Store = NewMemoryStore()
	case config.CacheRedis:
		rs := NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		c.Store = rs
	case config.CacheDisabled:
		if logger != nil {
			logger.Info("report cache disabled")
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown report cache backend %q", cfg.Backend)
	}
	if logger != nil {
		logger.Info("report cache ready", zap.String("backend", cfg.Backend), zap.Duration("ttl", cfg.TTL))
	}
	return c, nil
}

// Close releases the backing connection, if any.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	if rs, ok := c.Store.(*RedisStore); ok {
		return rs.Close()
	}
	return nil
}
