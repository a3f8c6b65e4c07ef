package pois

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

// CachedFilter is a read-through Redis cache in front of another Filter.
// Cache failures degrade to the underlying catalog; they never fail a
// generation run.
type CachedFilter struct {
	next Filter
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCached wraps next with a Redis cache. rdb may be nil, in which case
// every call passes straight through.
func NewCached(next Filter, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedFilter {
	return &CachedFilter{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedFilter) FindCandidates(ctx context.Context, q Query) ([]model.POI, error) {
	if c.rdb == nil {
		return c.next.FindCandidates(ctx, q)
	}

	key := CacheKey(q)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []model.POI
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding unreadable poi cache entry")
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Str("key", key).Msg("poi cache read failed")
	}

	candidates, err := c.next.FindCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(candidates); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("poi cache write failed")
		}
	}
	return candidates, nil
}

// CacheKey builds a deterministic key for a query: mood tags are
// de-duplicated and sorted so equivalent queries share an entry.
func CacheKey(q Query) string {
	tags := lo.Uniq(q.MoodTags)
	sort.Strings(tags)
	return fmt.Sprintf("pois:%s:%s:%s:%d",
		strings.ToLower(q.Destination), q.BudgetTier, strings.Join(tags, ","), q.Limit)
}
