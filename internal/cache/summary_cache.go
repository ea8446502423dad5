// Package cache keeps summary query results in Redis. Stored runs never
// change, so entries only expire by TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
)

const keyPrefix = "loansim:summary"

type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache returns a cache that does nothing when client is nil.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Connect pings addr and returns a client, or nil when addr is empty.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Int("db", db).Msg("connected to redis")
	return client, nil
}

func (c *SummaryCache) Enabled() bool {
	return c != nil && c.client != nil
}

func Key(runID string, f repository.SummaryFilter) string {
	return fmt.Sprintf("%s:%s:%d:%d:%d:%s", keyPrefix, runID, int(f.CutMonth), f.OfficeCode, f.ProductCode, f.CreditStatus)
}

// Get reports a miss for anything it cannot read back. Redis failures are
// logged, never returned; the database stays the source of truth.
func (c *SummaryCache) Get(ctx context.Context, runID string, f repository.SummaryFilter) ([]model.SummaryRow, bool) {
	if !c.Enabled() {
		return nil, false
	}

	key := Key(runID, f)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
		}
		return nil, false
	}

	var rows []model.SummaryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding corrupt summary cache entry")
		return nil, false
	}
	return rows, true
}

func (c *SummaryCache) Set(ctx context.Context, runID string, f repository.SummaryFilter, rows []model.SummaryRow) {
	if !c.Enabled() {
		return
	}

	key := Key(runID, f)
	data, err := json.Marshal(rows)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("marshal summary for cache")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
}
