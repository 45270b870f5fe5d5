// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the IP-level auto-ban gate backed by the shared
// expiring store. Every request increments a per-IP counter that lives for
// one counting window; an IP whose count exceeds the limit is banned for the
// configured duration and all its requests are rejected with 429 until the
// ban key expires.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/cache"
	"github.com/stagemate/go-community-backend/internal/config"
)

const (
	banKeyPrefix   = "block_"
	countKeyPrefix = "req_count_"
)

// AutoBan returns middleware enforcing the per-IP request budget.
//
// For each request:
//  1. An existing ban key rejects immediately with 429.
//  2. The window counter is created at zero if absent (its TTL starts the
//     window) and then incremented.
//  3. A post-increment count above the limit writes the ban key and rejects
//     this request too, so the first request over budget is already refused.
//
// The counter key keeps its original TTL across increments, giving a fixed
// window that resets only when the key expires. Store failures fail open:
// losing the rate gate is preferred to taking down every endpoint with it.
func AutoBan(store *cache.Store, cfg config.AutoBanConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()

		if _, banned, err := store.Get(ctx, banKeyPrefix+ip); err == nil && banned {
			tooManyRequests(c, cfg)
			return
		} else if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("auto-ban store unavailable, failing open")
			c.Next()
			return
		}

		if _, err := store.GetOrCreate(ctx, countKeyPrefix+ip, "0", cfg.Window); err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("auto-ban store unavailable, failing open")
			c.Next()
			return
		}
		n, err := store.Incr(ctx, countKeyPrefix+ip)
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("auto-ban store unavailable, failing open")
			c.Next()
			return
		}

		if n > cfg.MaxRequests {
			if err := store.SetWithTTL(ctx, banKeyPrefix+ip, "1", cfg.BanDuration); err != nil {
				LoggerFrom(c).Warn().Err(err).Str("ip", ip).Msg("failed to persist ban key")
			}
			bansTotal.Inc()
			LoggerFrom(c).Warn().Str("ip", ip).Int64("count", n).Msg("ip auto-banned")
			tooManyRequests(c, cfg)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, cfg config.AutoBanConfig) {
	c.Header("Retry-After", strconv.Itoa(int(cfg.BanDuration.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "rate_limited",
		"message":    "too many requests",
	})
}
