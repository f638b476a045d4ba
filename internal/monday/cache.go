package monday

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// BoardCache is a short-lived Redis cache of raw board query
// responses. monday.com meters API calls against a complexity budget,
// and a busy farm polling progress can burn through it; a few seconds
// of staleness on the board read is an acceptable trade.
//
// The cache is strictly best-effort. A nil *BoardCache, a zero TTL, or
// an unreachable Redis all degrade to "every read hits the API".
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zerolog.Logger
}

// NewBoardCache constructs a BoardCache. rdb may be nil and ttl may be
// zero; both disable caching.
func NewBoardCache(rdb *redis.Client, ttl time.Duration, log *zerolog.Logger) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *BoardCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

func cacheKey(boardID string) string {
	return "weightsync:board:" + boardID
}

// Get returns the cached raw response for the board, if present.
func (c *BoardCache) Get(ctx context.Context, boardID string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, cacheKey(boardID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Msg("board cache read failed")
		}
		return nil, false
	}
	return raw, true
}

// Set stores the raw response for the board under the configured TTL.
func (c *BoardCache) Set(ctx context.Context, boardID string, raw []byte) {
	if !c.enabled() {
		return
	}

	if err := c.rdb.Set(ctx, cacheKey(boardID), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Msg("board cache write failed")
	}
}

// Invalidate drops the cached response for the board. Called after a
// mutation so the next read does not serve a stale running total.
func (c *BoardCache) Invalidate(ctx context.Context, boardID string) {
	if !c.enabled() {
		return
	}

	if err := c.rdb.Del(ctx, cacheKey(boardID)).Err(); err != nil {
		c.log.Debug().Err(err).Msg("board cache invalidation failed")
	}
}
