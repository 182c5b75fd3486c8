package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/ethereum"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
)

type AuthUseCaseCfg struct {
	ChallengeRepo      account.ChallengeRepo
	SessionStore       domain.SessionStore
	AccountUC          account.Usecase
	JwtSecret          string
	SessionTTL         time.Duration
	SigningMsgTemplate string
}

type impl struct {
	challenges         account.ChallengeRepo
	sessions           domain.SessionStore
	account            account.Usecase
	jwtSecret          []byte
	sessionTTL         time.Duration
	signingMsgTemplate string
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	return &impl{
		challenges:         cfg.ChallengeRepo,
		sessions:           cfg.SessionStore,
		account:            cfg.AccountUC,
		jwtSecret:          []byte(cfg.JwtSecret),
		sessionTTL:         cfg.SessionTTL,
		signingMsgTemplate: cfg.SigningMsgTemplate,
	}
}

func (im *impl) GetChallenge(c ctx.Ctx, address domain.Address) (string, error) {
	ch, err := im.challenges.Issue(c, address)
	if err != nil {
		c.WithField("err", err).Error("challenges.Issue failed")
		return "", err
	}
	return fmt.Sprintf(im.signingMsgTemplate, ch.Value), nil
}

func (im *impl) Verify(c ctx.Ctx, address domain.Address, signature string) (string, error) {
	ch, err := im.challenges.Peek(c, address)
	if err != nil {
		return "", err
	}
	if ch.Consumed {
		return "", domain.ErrChallengeConsumed
	}
	if ch.Expired(time.Now()) {
		return "", domain.ErrChallengeExpired
	}

	message := fmt.Sprintf(im.signingMsgTemplate, ch.Value)
	valid, err := ethereum.ValidateMsgSignature([]byte(message), signature, string(address))
	if err != nil {
		if errors.Is(err, ethereum.ErrInvalidSignatureFormat) || errors.Is(err, ethereum.ErrRecoveryFailed) {
			return "", domain.ErrInvalidSignature
		}
		c.WithField("err", err).Error("ethereum.ValidateMsgSignature failed")
		return "", err
	}
	// mismatch leaves the challenge live, the wallet may retry until expiry
	if !valid {
		return "", domain.ErrSignatureMismatch
	}

	// atomic check-and-mark, the losing concurrent verify gets ErrChallengeConsumed
	if err := im.challenges.Consume(c, address, ch.Value); err != nil {
		return "", err
	}

	if _, err := im.account.EnsureExists(c, address); err != nil {
		c.WithField("err", err).Error("account.EnsureExists failed")
		return "", err
	}

	now := time.Now()
	session := &domain.Session{
		Id:        uuid.NewString(),
		Address:   address.ToLower(),
		CreatedAt: now,
		ExpiresAt: now.Add(im.sessionTTL),
	}
	if err := im.sessions.Create(c, session); err != nil {
		return "", err
	}

	claims := domain.JwtCustomClaims{
		Address: string(address),
		StandardClaims: jwt.StandardClaims{
			Id:        session.Id,
			ExpiresAt: session.ExpiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(im.jwtSecret)
	if err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	}
	return ss, nil
}

func (im *impl) ParseToken(c ctx.Ctx, str string) (string, error) {
	claims, err := im.parseClaims(str)
	if err != nil {
		return "", err
	}

	// the token stays valid only while the session record lives
	session, err := im.sessions.Get(c, claims.Id)
	if err != nil {
		return "", err
	}
	return string(session.Address), nil
}

func (im *impl) Logout(c ctx.Ctx, str string) error {
	claims, err := im.parseClaims(str)
	if err != nil {
		return err
	}
	return im.sessions.Delete(c, claims.Id)
}

func (im *impl) parseClaims(str string) (*domain.JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, domain.ErrSessionNotFound
}
