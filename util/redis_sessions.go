package util

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/config"
)

// Redis key layout: "session:<token>" holds the cached identity for a single
// session, "user_sessions:<uid>" is a set of every live token the user owns so
// all of them can be dropped at once on password change or account removal.

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// AddSessionToUserSet records a freshly issued token in the user's session
// set. The set carries no TTL; cleanup happens through the removal helpers.
// A missing Redis client is not an error, the DB remains the source of truth.
func AddSessionToUserSet(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	key := userSessionsKey(userID)
	if err := rdb.SAdd(ctx, key, token).Err(); err != nil {
		return err
	}
	// PERSIST guards against a TTL left behind by an older deployment.
	return rdb.Persist(ctx, key).Err()
}

// RemoveSessionTokenFromUserSet drops one token from the user's set and
// deletes the set once it is empty. The script keeps both steps atomic.
func RemoveSessionTokenFromUserSet(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	script := `
		local removed = redis.call('SREM', KEYS[1], ARGV[1])
		if removed > 0 then
			local count = redis.call('SCARD', KEYS[1])
			if count == 0 then
				redis.call('DEL', KEYS[1])
			end
		end
		return removed
	`
	return rdb.Eval(context.Background(), script, []string{userSessionsKey(userID)}, token).Err()
}

// InvalidateUserSessions deletes every cached session belonging to the user
// along with the tracking set itself.
func InvalidateUserSessions(userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	key := userSessionsKey(userID)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, sessionKey(tok)).Err()
	}
	return rdb.Del(ctx, key).Err()
}
