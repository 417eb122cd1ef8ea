package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// Redis is a cache shared between directory instances. Calls go through a
// circuit breaker so an unreachable server costs one fast error per request
// instead of a dial timeout.
type Redis struct {
	client    *redis.Client
	breaker   *gobreaker.CircuitBreaker
	namespace string
	logger    *slog.Logger
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
	// ConnectTimeout bounds the startup ping retries. Zero means 10s.
	ConnectTimeout time.Duration
}

// NewRedis connects to redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = connectTimeout

	ping := func() error {
		err := client.Ping(ctx).Err()
		if err != nil {
			logger.Warn("redis not reachable yet", slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		}
		return err
	}
	if err := backoff.Retry(ping, backoff.WithContext(retry, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	r := NewRedisFromClient(client, opts.Namespace, logger)
	logger.Info("redis cache connected", slog.String("addr", opts.Addr), slog.String("namespace", r.namespace))
	return r, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, namespace string, logger *slog.Logger) *Redis {
	if namespace == "" {
		namespace = "staffdir"
	}
	return &Redis{
		client:    client,
		breaker:   newBreaker("redis-cache:"+namespace, logger),
		namespace: namespace,
		logger:    logger,
	}
}

// newBreaker opens after five consecutive failures and lets one trial call through after 30s.
func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}

// guard runs fn through the breaker.
func (r *Redis) guard(fn func() error) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

func (r *Redis) valueKey(key string) string   { return r.namespace + ":v:" + key }
func (r *Redis) groupKey(group string) string { return r.namespace + ":g:" + group }
func (r *Redis) keyVersion(key string) string { return r.namespace + ":n:v:" + key }
func (r *Redis) groupVersion(g string) string { return r.namespace + ":n:g:" + g }

// Version sums the invalidation counters of key and groups. Counters are
// shared by every process using the namespace.
func (r *Redis) Version(ctx context.Context, key string, groups ...string) (uint64, error) {
	names := make([]string, 0, len(groups)+1)
	names = append(names, r.keyVersion(key))
	for _, g := range groups {
		names = append(names, r.groupVersion(g))
	}

	var sum uint64
	err := r.guard(func() error {
		values, err := r.client.MGet(ctx, names...).Result()
		if err != nil {
			return err
		}
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return fmt.Errorf("parse cache version: %w", err)
			}
			sum += n
		}
		return nil
	})
	return sum, err
}

// Get returns the value for key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		raw   []byte
		found bool
	)
	err := r.guard(func() error {
		v, err := r.client.Get(ctx, r.valueKey(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, found = v, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return raw, found, nil
}

// Set stores value and adds key to each group's member set.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, groups ...string) error {
	return r.guard(func() error {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.valueKey(key), value, ttl)
			for _, g := range groups {
				pipe.SAdd(ctx, r.groupKey(g), key)
				if ttl > 0 {
					pipe.Expire(ctx, r.groupKey(g), ttl)
				}
			}
			return nil
		})
		return err
	})
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.guard(func() error {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, r.keyVersion(key))
			pipe.Del(ctx, r.valueKey(key))
			return nil
		})
		return err
	})
}

// ExpireGroup deletes every member of group and the group set itself.
func (r *Redis) ExpireGroup(ctx context.Context, group string) error {
	var members []string
	err := r.guard(func() error {
		if err := r.client.Incr(ctx, r.groupVersion(group)).Err(); err != nil {
			return fmt.Errorf("bump group %q: %w", group, err)
		}

		var err error
		members, err = r.client.SMembers(ctx, r.groupKey(group)).Result()
		if err != nil {
			return fmt.Errorf("read group %q: %w", group, err)
		}

		keys := make([]string, 0, len(members)+1)
		for _, m := range members {
			keys = append(keys, r.valueKey(m))
		}
		keys = append(keys, r.groupKey(group))

		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("expire group %q: %w", group, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("cache group expired", slog.String("group", group), slog.Int("keys", len(members)))
	return nil
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
