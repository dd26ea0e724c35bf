package cache

import (
	"context"
	"fmt"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Backends accepted by New.
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendLayered = "layered"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	MemoryMaxSize int
	Redis         RedisConfig
}

// New builds the configured backend.
func New(cfg Config) (BytesCache, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewTTLCache(cfg.MemoryMaxSize), nil
	case BackendRedis:
		return NewRedisCache(cfg.Redis), nil
	case BackendLayered:
		return NewLayeredCache(NewTTLCache(cfg.MemoryMaxSize), NewRedisCache(cfg.Redis)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
