// Package matrixcache wraps a model.Matrix with a Redis-backed
// lookaside cache for (from,to) lookups, so a repeated solve over an
// unchanged location set (or a concurrent solve against the same
// matrix) skips re-deriving travel costs.
package matrixcache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"vrpsolve/internal/model"
)

// Matrix wraps an underlying model.Matrix with a Redis lookaside
// cache. It still satisfies model.Matrix, so it can be handed
// directly to model.NewInput.
type Matrix struct {
	rdb     *redis.Client
	inner   model.Matrix
	prefix  string
	ttl     time.Duration
}

// New builds a Matrix backed by a Redis client constructed from url
// (the same redis.ParseURL input REDIS_URL carries), caching lookups
// against inner under keys namespaced by prefix with the given ttl.
func New(url string, inner model.Matrix, prefix string, ttl time.Duration) (*Matrix, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("matrixcache: parse redis url: %w", err)
	}
	return &Matrix{rdb: redis.NewClient(opt), inner: inner, prefix: prefix, ttl: ttl}, nil
}

// Close releases the underlying Redis client.
func (m *Matrix) Close() error { return m.rdb.Close() }

// Cost returns the cached (or freshly computed and cached) travel
// cost from -> to.
func (m *Matrix) Cost(from, to int) model.Cost {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := m.key("cost", from, to)
	if v, err := m.rdb.Get(ctx, key).Result(); err == nil {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			return model.Cost(n)
		}
	}
	cost := m.inner.Cost(from, to)
	_ = m.rdb.Set(ctx, key, int64(cost), m.ttl).Err()
	return cost
}

// Duration returns the cached (or freshly computed and cached) travel
// duration from -> to.
func (m *Matrix) Duration(from, to int) model.Duration {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := m.key("dur", from, to)
	if v, err := m.rdb.Get(ctx, key).Result(); err == nil {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			return model.Duration(n)
		}
	}
	dur := m.inner.Duration(from, to)
	_ = m.rdb.Set(ctx, key, int64(dur), m.ttl).Err()
	return dur
}

func (m *Matrix) key(kind string, from, to int) string {
	var b strings.Builder
	b.WriteString(m.prefix)
	b.WriteByte(':')
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(from))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(to))
	return b.String()
}

var _ model.Matrix = (*Matrix)(nil)
