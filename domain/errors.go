package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	// challenge error
	ErrNoActiveChallenge = errors.New("no active challenge")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrChallengeConsumed = errors.New("challenge already consumed")
	ErrChallengeMismatch = errors.New("challenge value mismatch")

	// session error
	ErrSessionNotFound = errors.New("session not found")

	// order error
	ErrMalformedOrder      = errors.New("malformed order")
	ErrSignatureMismatch   = errors.New("order signer does not match offerer")
	ErrUnrecognizedOrder   = errors.New("order is neither listing nor offer")
	ErrUnauthorizedOfferer = errors.New("caller does not match order offerer")

	// chain error
	ErrChainUnavailable = errors.New("chain unavailable")
	ErrReverted         = errors.New("transaction reverted")
)
