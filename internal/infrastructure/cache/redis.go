package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"megawe/internal/config"
)

// Key prefixes for cached API responses.
const (
	JobsSearchPrefix   = "jobs:search:"
	JobsFeaturedPrefix = "jobs:featured:"
	JobsLockPrefix     = "jobs:lock:"
)

const fallbackTTL = 300 * time.Second

// Redis is a JSON cache that degrades to a no-op when the server is
// unreachable.
type Redis struct {
	client *redis.Client
	log    logrus.FieldLogger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

// NewRedis connects using cfg. An empty address or a failed ping yields a
// cache that misses on every read.
func NewRedis(cfg config.RedisConfig, log logrus.FieldLogger) *Redis {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Redis{log: log.WithField("component", "cache"), ttl: cfg.TTL}
	if r.ttl <= 0 {
		r.ttl = fallbackTTL
	}

	addr := cfg.Addr()
	if addr == "" {
		r.log.Info("redis not configured, caching disabled")
		return r
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		r.log.WithError(err).Warn("redis unavailable, bypassing cache")
		_ = client.Close()
		return r
	}

	r.client = client
	return r
}

// NewRedisFromClient wraps an existing client without pinging it.
func NewRedisFromClient(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Redis {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if ttl <= 0 {
		ttl = fallbackTTL
	}
	return &Redis{client: client, log: log.WithField("component", "cache"), ttl: ttl}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

// Available reports whether reads can hit.
func (r *Redis) Available() bool {
	return !r.isUnavailable()
}

// TTL is the expiry used when SetJSON is given none.
func (r *Redis) TTL() time.Duration {
	if r == nil || r.ttl <= 0 {
		return fallbackTTL
	}
	return r.ttl
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.log == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.WithError(err).Warn("redis error, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.TTL()
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// SetIfNotExists always succeeds when no server is configured.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if r.isUnavailable() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

// DeleteByPattern removes every key matching pattern and returns how many
// were deleted.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if r.isUnavailable() {
		return 0, nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return 0, nil
	}

	n := 0
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"key": k, "pattern": pattern}).Warn("redis delete failed")
			continue
		}
		n++
	}
	return n, iter.Err()
}

// InvalidateJobs drops every cached listing response.
func (r *Redis) InvalidateJobs(ctx context.Context) (int, error) {
	total := 0
	var firstErr error
	for _, p := range []string{JobsSearchPrefix + "*", JobsFeaturedPrefix + "*", JobsLockPrefix + "*"} {
		n, err := r.DeleteByPattern(ctx, p)
		total += n
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return total, firstErr
}
