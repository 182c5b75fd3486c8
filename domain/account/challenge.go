package account

import (
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/domain"
)

// Challenge is a single-use login nonce bound to one address. At most one
// live challenge exists per address, issuing a new one supersedes the old.
type Challenge struct {
	Address   domain.Address `json:"address"`
	Value     string         `json:"value"`
	IssuedAt  time.Time      `json:"issuedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Consumed  bool           `json:"consumed"`
}

func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ChallengeRepo is the nonce challenge store. Issue and Consume on the same
// address must be serialized by the implementation.
type ChallengeRepo interface {
	// Issue stores a fresh challenge, superseding any live one for the address
	Issue(ctx ctx.Ctx, address domain.Address) (*Challenge, error)

	// Peek returns the live challenge without touching it.
	// Returns domain.ErrNoActiveChallenge when none exists.
	Peek(ctx ctx.Ctx, address domain.Address) (*Challenge, error)

	// Consume atomically checks presented value against the live challenge and
	// marks it consumed. Errors: domain.ErrNoActiveChallenge,
	// domain.ErrChallengeExpired, domain.ErrChallengeConsumed,
	// domain.ErrChallengeMismatch.
	Consume(ctx ctx.Ctx, address domain.Address, value string) error
}
