package postal

import "context"

// RecipientRateLimiter defines the contract for per-recipient rate limiting.
// Implementations live in infra/ratelimit/.
type RecipientRateLimiter interface {
	// Allow checks whether an email can be sent to the given recipient.
	// Returns true if the email is allowed, false if rate limited.
	Allow(ctx context.Context, recipient string) (bool, error)
}
