package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "ordertracker:ratelimit"

// NewIPRateLimiter returns middleware that limits by client IP.
// rateFormatted: "300-M", "1000-H", "50-S"; empty disables. A non-nil
// redisClient shares counters across instances, otherwise they stay in
// process memory.
func NewIPRateLimiter(rateFormatted string, redisClient *redis.Client) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	var store limiter.Store
	if redisClient != nil {
		store, err = sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}
	instance := limiter.New(store, rate)
	return stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(limitReached)).Handler, nil
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
