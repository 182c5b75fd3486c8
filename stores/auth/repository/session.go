package repository

import (
	"encoding/json"
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/keys"
	"github.com/openmark/goapi/service/redis"
)

type sessionStore struct {
	redis redis.Service
}

// NewSessionStore creates the redis backed session store
func NewSessionStore(redis redis.Service) domain.SessionStore {
	return &sessionStore{redis: redis}
}

func sessionKey(id string) string {
	return keys.RedisKey(keys.PfxAuthSession, id)
}

func (im *sessionStore) Create(c ctx.Ctx, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrBadParamInput
	}
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := im.redis.Set(c, sessionKey(session.Id), b, ttl); err != nil {
		c.WithFields(log.Fields{
			"sessionId": session.Id,
			"err":       err,
		}).Error("create session failed")
		return err
	}
	return nil
}

func (im *sessionStore) Get(c ctx.Ctx, id string) (*domain.Session, error) {
	b, err := im.redis.Get(c, sessionKey(id))
	if err == redis.ErrNotFound {
		return nil, domain.ErrSessionNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"sessionId": id,
			"err":       err,
		}).Error("get session failed")
		return nil, err
	}
	session := &domain.Session{}
	if err := json.Unmarshal(b, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (im *sessionStore) Delete(c ctx.Ctx, id string) error {
	if _, err := im.redis.Del(c, sessionKey(id)); err != nil {
		c.WithFields(log.Fields{
			"sessionId": id,
			"err":       err,
		}).Error("delete session failed")
		return err
	}
	return nil
}
