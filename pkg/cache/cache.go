package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/garage-management/pkg/logger"
)

// Config holds response cache configuration
type Config struct {
	// Prefix groups the keys of one resource so mutations can invalidate
	// them together, e.g. "work_orders".
	Prefix string
	TTL    time.Duration
}

type recorder struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return r.ResponseWriter.Write(b)
}

// Middleware caches successful GET responses in Redis. A nil client
// disables caching entirely; reads always fall through to the handler
// and therefore to the source of truth.
func Middleware(client *redis.Client, cfg Config) func(http.Handler) http.Handler {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(cfg.Prefix, r)
			ctx := r.Context()

			if cached, err := client.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
				logger.Debug(ctx).Str("path", r.URL.Path).Str("cache_key", key).Msg("Cache hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.Write(cached)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && len(rec.body) > 0 {
				if err := client.Set(ctx, key, rec.body, cfg.TTL).Err(); err != nil {
					logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache response")
				}
			}
		})
	}
}

// Invalidate removes every cached response under the given prefix. Called
// after any mutation of the resource.
func Invalidate(ctx context.Context, client *redis.Client, prefix string) error {
	if client == nil {
		return nil
	}

	pattern := fmt.Sprintf("cache:%s:*", prefix)
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Info(ctx).Int("count", len(keys)).Str("pattern", pattern).Msg("Cache invalidated")
	}
	return nil
}

func cacheKey(prefix string, r *http.Request) string {
	sum := sha256.Sum256([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("cache:%s:%s", prefix, hex.EncodeToString(sum[:]))
}
