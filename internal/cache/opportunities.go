package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpportunityRecord captures the last alerted state for a fingerprint.
type OpportunityRecord struct {
	ProfitPct float64   `json:"profit_pct"`
	Kind      string    `json:"kind"`
	SeenAt    time.Time `json:"seen_at"`
}

// OpportunityCache stores the last alerted opportunity per fingerprint so
// repeated scans of unchanged prices do not re-alert within the TTL window.
type OpportunityCache interface {
	Get(ctx context.Context, fingerprint string) (*OpportunityRecord, bool, error)
	Set(ctx context.Context, fingerprint string, record OpportunityRecord) error
	Close() error
}

type redisOpportunityCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisOpportunityCache builds a cache keyed by opportunity fingerprint.
// The TTL should match the opportunity timeout: once quotes are that stale
// the same fingerprint is effectively a new detection.
func NewRedisOpportunityCache(addr, password string, db int, ttl time.Duration, prefix string) (OpportunityCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if prefix == "" {
		prefix = "opp_seen"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisOpportunityCache{client: client, ttl: ttl, prefix: prefix}, nil
}

func (c *redisOpportunityCache) key(fingerprint string) string {
	return fmt.Sprintf("%s:%s", c.prefix, fingerprint)
}

func (c *redisOpportunityCache) Get(ctx context.Context, fingerprint string) (*OpportunityRecord, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record OpportunityRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (c *redisOpportunityCache) Set(ctx context.Context, fingerprint string, record OpportunityRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(fingerprint), payload, c.ttl).Err()
}

func (c *redisOpportunityCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
