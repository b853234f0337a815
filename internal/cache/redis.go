package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"StockCloseness/internal/model"
)

// RedisStore keeps JSON-encoded price series in Redis so several runs can share fetches.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to a redis:// URL or a bare host:port address and pings it.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	opts, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (model.PriceSeries, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PriceSeries{}, false, nil
	}
	if err != nil {
		return model.PriceSeries{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var series model.PriceSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return model.PriceSeries{}, false, fmt.Errorf("decode cached series %s: %w", key, err)
	}
	return series, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, series model.PriceSeries) error {
	raw, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encode series: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
