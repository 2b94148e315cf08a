package ratelimit

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// windowScript counts hits on KEYS[1] inside a fixed window of ARGV[1]
// milliseconds. It returns the count and the window's remaining ttl.
const windowScript = `
local window = tonumber(ARGV[1])
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], window)
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], window)
  ttl = window
end
return {hits, ttl}
`

// Result reports a single hit against a limit.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type WindowCounter struct {
	client *redis.Client
	script *redis.Script
}

func NewWindowCounter(client *redis.Client) *WindowCounter {
	if client == nil {
		return nil
	}
	return &WindowCounter{
		client: client,
		script: redis.NewScript(windowScript),
	}
}

// Hit records one attempt for key and reports whether it is within limit.
func (w *WindowCounter) Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if w == nil || w.client == nil {
		return Result{}, errors.New("rate limiter not configured")
	}
	if key == "" {
		return Result{}, errors.New("rate limiter key is empty")
	}
	if limit <= 0 || window <= 0 {
		return Result{}, errors.New("rate limiter limit and window must be positive")
	}

	res, err := w.script.Run(ctx, w.client, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return Result{}, err
	}
	return parseWindowResult(res, limit)
}

func parseWindowResult(res []any, limit int) (Result, error) {
	if len(res) < 2 {
		return Result{}, errors.New("invalid rate limit script response")
	}
	hits := castToInt(res[0])
	ttl := time.Duration(castToInt(res[1])) * time.Millisecond

	out := Result{
		Allowed: hits <= int64(limit),
		Limit:   limit,
	}
	if remaining := int64(limit) - hits; remaining > 0 {
		out.Remaining = int(remaining)
	}
	if !out.Allowed {
		out.RetryAfter = ttl
	}
	return out, nil
}

func castToInt(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
