package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/ethereum"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
	mAccount "github.com/openmark/goapi/domain/account/mocks"
	mDomain "github.com/openmark/goapi/domain/mocks"
	"github.com/openmark/goapi/stores/auth/usecase"
)

const testTemplate = "Welcome!\n\nSign this one-time code to log in: %s"

func newAuth(challenges *mAccount.ChallengeRepo, sessions *mDomain.SessionStore, accountUC *mAccount.Usecase) domain.AuthUsecase {
	return usecase.New(&usecase.AuthUseCaseCfg{
		ChallengeRepo:      challenges,
		SessionStore:       sessions,
		AccountUC:          accountUC,
		JwtSecret:          "jwt-secret",
		SessionTTL:         time.Hour,
		SigningMsgTemplate: testTemplate,
	})
}

func liveChallenge(address domain.Address, value string) *account.Challenge {
	now := time.Now()
	return &account.Challenge{
		Address:   address,
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func signChallenge(t *testing.T, value string) (domain.Address, string) {
	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	address := domain.Address(crypto.PubkeyToAddress(*pub).Hex())

	message := fmt.Sprintf(testTemplate, value)
	sig, err := ethereum.SignHash(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	return address, sig
}

func TestLoginFlow(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, sig := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	sessions := &mDomain.SessionStore{}
	accountUC := &mAccount.Usecase{}

	challenges.On("Peek", mock.Anything, address).Return(liveChallenge(address, "one-time-code"), nil)
	challenges.On("Consume", mock.Anything, address, "one-time-code").Return(nil)
	accountUC.On("EnsureExists", mock.Anything, address).Return(&account.Account{Address: address.ToLower()}, nil)

	var created *domain.Session
	sessions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.Session)
	}).Return(nil)

	u := newAuth(challenges, sessions, accountUC)
	token, err := u.Verify(_ctx, address, sig)
	req.NoError(err)
	req.NotEmpty(token)
	req.NotNil(created)
	req.Equal(address.ToLower(), created.Address)

	sessions.On("Get", mock.Anything, created.Id).Return(created, nil)
	ads, err := u.ParseToken(_ctx, token)
	req.NoError(err)
	req.Equal(string(address.ToLower()), ads)

	challenges.AssertExpectations(t)
	accountUC.AssertExpectations(t)
}

func TestVerifyConsumedChallenge(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, sig := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	ch := liveChallenge(address, "one-time-code")
	ch.Consumed = true
	challenges.On("Peek", mock.Anything, address).Return(ch, nil)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.Verify(_ctx, address, sig)
	req.ErrorIs(err, domain.ErrChallengeConsumed)
	challenges.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyExpiredChallenge(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, sig := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	ch := liveChallenge(address, "one-time-code")
	ch.ExpiresAt = time.Now().Add(-time.Minute)
	challenges.On("Peek", mock.Anything, address).Return(ch, nil)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.Verify(_ctx, address, sig)
	req.ErrorIs(err, domain.ErrChallengeExpired)
}

func TestVerifyNoChallenge(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, sig := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	challenges.On("Peek", mock.Anything, address).Return(nil, domain.ErrNoActiveChallenge)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.Verify(_ctx, address, sig)
	req.ErrorIs(err, domain.ErrNoActiveChallenge)
}

func TestVerifySignatureMismatchKeepsChallenge(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	// signature over the right message but from the wrong wallet
	_, sig := signChallenge(t, "one-time-code")
	address, _ := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	challenges.On("Peek", mock.Anything, address).Return(liveChallenge(address, "one-time-code"), nil)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.Verify(_ctx, address, sig)
	req.ErrorIs(err, domain.ErrSignatureMismatch)
	challenges.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyGarbageSignature(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, _ := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	challenges.On("Peek", mock.Anything, address).Return(liveChallenge(address, "one-time-code"), nil)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.Verify(_ctx, address, "0x0102")
	req.ErrorIs(err, domain.ErrInvalidSignature)
}

func TestGetChallenge(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address := domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")

	challenges := &mAccount.ChallengeRepo{}
	challenges.On("Issue", mock.Anything, address).Return(liveChallenge(address, "fresh-code"), nil)

	u := newAuth(challenges, &mDomain.SessionStore{}, &mAccount.Usecase{})
	msg, err := u.GetChallenge(_ctx, address)
	req.NoError(err)
	req.Equal(fmt.Sprintf(testTemplate, "fresh-code"), msg)
}

func TestLogoutRevokesToken(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	address, sig := signChallenge(t, "one-time-code")

	challenges := &mAccount.ChallengeRepo{}
	sessions := &mDomain.SessionStore{}
	accountUC := &mAccount.Usecase{}

	challenges.On("Peek", mock.Anything, address).Return(liveChallenge(address, "one-time-code"), nil)
	challenges.On("Consume", mock.Anything, address, "one-time-code").Return(nil)
	accountUC.On("EnsureExists", mock.Anything, address).Return(&account.Account{Address: address.ToLower()}, nil)

	var created *domain.Session
	sessions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.Session)
	}).Return(nil)

	u := newAuth(challenges, sessions, accountUC)
	token, err := u.Verify(_ctx, address, sig)
	req.NoError(err)

	sessions.On("Delete", mock.Anything, created.Id).Return(nil)
	req.NoError(u.Logout(_ctx, token))

	// the session record is gone, the still well-formed token no longer resolves
	sessions.On("Get", mock.Anything, created.Id).Return(nil, domain.ErrSessionNotFound)
	_, err = u.ParseToken(_ctx, token)
	req.ErrorIs(err, domain.ErrSessionNotFound)
	sessions.AssertExpectations(t)
}

func TestParseTokenRejectsForged(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	u := newAuth(&mAccount.ChallengeRepo{}, &mDomain.SessionStore{}, &mAccount.Usecase{})
	_, err := u.ParseToken(_ctx, "not-a-jwt")
	req.Error(err)
}
