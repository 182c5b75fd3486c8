package domain

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/openmark/goapi/base/ctx"
)

// JwtCustomClaims is the session token payload. Id carries the session id
// recorded in the session store, so expiry/logout revoke the token.
type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

// Session is the server side record backing one issued token
type Session struct {
	Id        string    `json:"id"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore keeps sessions keyed by id with TTL eviction
type SessionStore interface {
	Create(ctx ctx.Ctx, session *Session) error
	Get(ctx ctx.Ctx, id string) (*Session, error)
	Delete(ctx ctx.Ctx, id string) error
}

// AuthUsecase orchestrates the wallet challenge/response login flow
type AuthUsecase interface {
	// GetChallenge issues a nonce for the address and renders the message to sign
	GetChallenge(ctx ctx.Ctx, address Address) (message string, err error)
	// Verify checks the signature over the live challenge, consumes it and grants a session token
	Verify(ctx ctx.Ctx, address Address, signature string) (token string, err error)
	// ParseToken resolves a session token to the authenticated address
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
	// Logout destroys the session carried by token
	Logout(ctx ctx.Ctx, token string) error
}
