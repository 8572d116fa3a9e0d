// Package cache keeps the player-facing content views in Redis so polling
// screens don't hit Postgres on every refresh. The materializer drops a
// screen's entry whenever its content changes.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const viewTTL = 5 * time.Minute

// Views caches serialized player views per screen. A nil *Views is a valid
// no-op cache for deployments without Redis.
type Views struct {
	rdb *redis.Client
}

func New(address, username, password string) *Views {
	return &Views{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

func screenKey(screenID int) string {
	return fmt.Sprintf("screen:%d:view", screenID)
}

// GetView returns the cached serialized view, or false on miss.
func (v *Views) GetView(ctx context.Context, screenID int) ([]byte, bool) {
	if v == nil {
		return nil, false
	}
	data, err := v.rdb.Get(ctx, screenKey(screenID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Int("screen_id", screenID).Msg("redis get failed")
		}
		return nil, false
	}
	return data, true
}

// SetView stores the serialized view with a TTL backstop.
func (v *Views) SetView(ctx context.Context, screenID int, data []byte) {
	if v == nil {
		return
	}
	if err := v.rdb.Set(ctx, screenKey(screenID), data, viewTTL).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("redis set failed")
	}
}

// InvalidateScreens drops the cached views for the given screens. Misses
// are fine; the next poll rebuilds the entry.
func (v *Views) InvalidateScreens(ctx context.Context, screenIDs []int) {
	if v == nil || len(screenIDs) == 0 {
		return
	}
	keys := make([]string, len(screenIDs))
	for i, id := range screenIDs {
		keys[i] = screenKey(id)
	}
	if err := v.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Ints("screen_ids", screenIDs).Msg("redis invalidate failed")
	} else {
		log.Debug().Ints("screen_ids", screenIDs).Msg("invalidated cached screen views")
	}
}
