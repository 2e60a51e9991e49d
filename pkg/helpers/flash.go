package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Flash messages are one-shot: stored on a redirect, rendered once by the
// next page load, then gone. Keyed by the anonymous session id so they work
// before login.

const flashTTL = 10 * time.Minute

func flashKey(sid string) string { return "flash:" + sid }

// SessionKey is the Redis key of a user's login session record.
func SessionKey(userID string) string { return "user:session:" + userID }

// SetFlash stores the one-shot message for the session. A nil client makes
// it a no-op so handlers degrade quietly without Redis.
func SetFlash(ctx context.Context, rdb *redis.Client, sid, msg string) {
	if rdb == nil || sid == "" {
		return
	}
	_ = rdb.Set(ctx, flashKey(sid), msg, flashTTL).Err()
}

// PopFlash returns the pending message and clears it atomically.
func PopFlash(ctx context.Context, rdb *redis.Client, sid string) string {
	if rdb == nil || sid == "" {
		return ""
	}
	msg, err := rdb.GetDel(ctx, flashKey(sid)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return ""
	}
	return msg
}
