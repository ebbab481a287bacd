package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/logger"
)

// RateLimitKeyFunc derives the throttle key for one request.
type RateLimitKeyFunc func(c *gin.Context) string

// RateLimitRule describes a fixed-window throttle.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	Message       string
}

// rateLimitScript increments the window counter atomically and returns the
// current count plus the remaining ttl.
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware throttles by rule. Without a redis client the
// middleware is a pass-through; the limit is best effort, not a security
// boundary.
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.MaxRequests <= 0 || rule.WindowSeconds <= 0 {
			c.Next()
			return
		}
		key := ""
		if keyFunc != nil {
			key = keyFunc(c)
		}
		if key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("ratelimit:%s:%s", rule.Prefix, key)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		result, err := rateLimitScript.Run(ctx, client, []string{redisKey}, rule.WindowSeconds).Result()
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "key", redisKey, "error", err)
			c.Next()
			return
		}

		values, ok := result.([]interface{})
		if !ok || len(values) != 2 {
			c.Next()
			return
		}
		current := toInt64(values[0])
		ttl := toInt64(values[1])

		if current > int64(rule.MaxRequests) {
			if rule.BlockSeconds > int(ttl) {
				if err := client.Expire(ctx, redisKey, time.Duration(rule.BlockSeconds)*time.Second).Err(); err == nil {
					ttl = int64(rule.BlockSeconds)
				}
			}
			waitSeconds := ttl
			if waitSeconds <= 0 {
				waitSeconds = int64(rule.WindowSeconds)
			}
			message := rule.Message
			if message == "" {
				message = fmt.Sprintf("too many attempts, retry in %d seconds", waitSeconds)
			}
			response.ErrorWithData(c, response.CodeTooManyRequests, message, gin.H{
				"retry_after_seconds": waitSeconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP throttles per client address.
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField throttles per client address plus one field of the
// JSON body, so one address cannot burn the window for every account. The
// body is restored for the handler.
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		ip := c.ClientIP()
		if c.Request.Body == nil {
			return ip
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ip
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			return ip
		}
		value, ok := payload[field].(string)
		if !ok {
			return ip
		}
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			return ip
		}
		return value + "|" + ip
	}
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		var parsed int64
		if _, err := fmt.Sscan(v, &parsed); err == nil {
			return parsed
		}
	}
	return 0
}
