package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/observability"
)

// ReportCache stores rendered submission reports in Redis. Entries are keyed by
// the ledger watermark the report was built at. The watermark grows with every
// committed answer, so an entry written before the latest answer is never read
// again, even when Redis was unreachable while that answer was recorded.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewReportCache wraps the client. A nil client disables caching.
func NewReportCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "report_cache").Logger(),
	}
}

// Enabled reports whether a Redis client is attached.
func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *ReportCache) key(scope string, watermark int64) string {
	return fmt.Sprintf("reports:submissions:%s:w%d", scope, watermark)
}

// Load decodes the report cached for scope at watermark into dest and reports
// whether it was found.
func (c *ReportCache) Load(ctx context.Context, scope string, watermark int64, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	cached, err := c.client.Get(ctx, c.key(scope, watermark)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("scope", scope).Msg("failed to read report cache")
		}
		observability.ReportCacheLookups().WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal(cached, dest); err != nil {
		c.logger.Warn().Err(err).Str("scope", scope).Msg("discarding undecodable report cache entry")
		observability.ReportCacheLookups().WithLabelValues("miss").Inc()
		return false
	}

	observability.ReportCacheLookups().WithLabelValues("hit").Inc()
	return true
}

// Store caches value under the watermark read before the report was built.
func (c *ReportCache) Store(ctx context.Context, scope string, watermark int64, value interface{}) {
	if !c.Enabled() {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("scope", scope).Msg("failed to encode report")
		return
	}
	if err := c.client.Set(ctx, c.key(scope, watermark), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("scope", scope).Msg("failed to store report cache")
	}
}
