package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence keys record which users hold a live session. They are advisory
// only: token verification never consults them, so a redis outage cannot
// lock anyone out.
const presenceKeyFmt = "presence:%d"

func MarkOnline(rdb *redis.Client, userId uint, duration time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf(presenceKeyFmt, userId)
	return rdb.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), duration).Err()
}

func MarkOffline(rdb *redis.Client, userId uint) error {
	ctx := context.Background()
	key := fmt.Sprintf(presenceKeyFmt, userId)
	return rdb.Del(ctx, key).Err()
}

// OnlineUserCount returns the number of unique users with a presence key.
func OnlineUserCount(rdb *redis.Client) (int, error) {
	ctx := context.Background()
	var cursor uint64
	userIds := make(map[string]struct{})
	for {
		keys, newCursor, err := rdb.Scan(ctx, cursor, "presence:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			parts := strings.Split(key, ":")
			if len(parts) == 2 && parts[0] == "presence" && parts[1] != "" {
				userIds[parts[1]] = struct{}{}
			}
		}
		if newCursor == 0 {
			break
		}
		cursor = newCursor
	}
	return len(userIds), nil
}
