package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"postalservice/internal/domain/postal"

	"github.com/redis/go-redis/v9"
)

var _ postal.RecipientRateLimiter = (*RedisRecipientLimiter)(nil)

const keyPrefix = "postalservice:ratelimit:"

// RedisRecipientLimiter caps how many emails one address receives per window.
// Each accepted send is a sorted set member scored by its timestamp in nanoseconds.
type RedisRecipientLimiter struct {
	client redis.UniversalClient
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRedisRecipientLimiter connects to Redis and allows maxPerHour emails per recipient.
func NewRedisRecipientLimiter(redisAddr, password string, db int, maxPerHour int) *RedisRecipientLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
	return NewRecipientLimiter(client, maxPerHour, time.Hour)
}

// NewRecipientLimiter wraps an existing Redis client.
func NewRecipientLimiter(client redis.UniversalClient, max int, window time.Duration) *RedisRecipientLimiter {
	return &RedisRecipientLimiter{
		client: client,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Ping checks the Redis connection.
func (r *RedisRecipientLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// allowScript trims entries older than the window, then adds the new entry
// only when the recipient is under the limit. It runs atomically, so
// concurrent callers cannot all observe the same count.
//
// KEYS[1] recipient key
// ARGV[1] now score, ARGV[2] window start score, ARGV[3] limit,
// ARGV[4] member, ARGV[5] ttl in milliseconds
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// Allow reports whether another email may go to recipient and, if so, counts it.
// A non-positive limit disables the check.
func (r *RedisRecipientLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	if r.max <= 0 {
		return true, nil
	}

	now := r.now()
	allowed, err := allowScript.Run(ctx, r.client,
		[]string{recipientKey(recipient)},
		strconv.FormatInt(now.UnixNano(), 10),
		strconv.FormatInt(now.Add(-r.window).UnixNano(), 10),
		r.max,
		member(now),
		(r.window + time.Minute).Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("checking recipient rate limit: %w", err)
	}

	return allowed == 1, nil
}

// Close closes the Redis connection.
func (r *RedisRecipientLimiter) Close() error {
	return r.client.Close()
}

// recipientKey folds case so Foo@Example.org and foo@example.org share a budget.
func recipientKey(recipient string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(recipient))
}

// member is unique per call so concurrent sends within one nanosecond both count.
func member(now time.Time) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return strconv.FormatInt(now.UnixNano(), 10) + ":" + hex.EncodeToString(b)
}
