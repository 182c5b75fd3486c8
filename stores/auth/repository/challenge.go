package repository

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
	"github.com/openmark/goapi/domain/keys"
	"github.com/openmark/goapi/service/redis"
)

const lockStripes = 64

// challengeValueBytes sizes the nonce at a full 128 bits of entropy
const challengeValueBytes = 16

// minConsumedTTL keeps the consumed marker alive long enough to answer a
// replayed verify with ErrChallengeConsumed instead of ErrNoActiveChallenge
const minConsumedTTL = time.Second

// keyedMutex serializes Issue/Consume per address with striped locks
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (km *keyedMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &km.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu
}

type challengeRepo struct {
	redis redis.Service
	ttl   time.Duration
	locks keyedMutex
}

// NewChallengeRepo creates the redis backed login challenge repo
func NewChallengeRepo(redis redis.Service, ttl time.Duration) account.ChallengeRepo {
	return &challengeRepo{
		redis: redis,
		ttl:   ttl,
	}
}

func challengeKey(address domain.Address) string {
	return keys.RedisKey(keys.PfxAuthChallenge, address.ToLowerStr())
}

func (im *challengeRepo) Issue(c ctx.Ctx, address domain.Address) (*account.Challenge, error) {
	mu := im.locks.lock(address.ToLowerStr())
	defer mu.Unlock()

	value := make([]byte, challengeValueBytes)
	if _, err := rand.Read(value); err != nil {
		return nil, err
	}

	now := time.Now()
	ch := &account.Challenge{
		Address:   address.ToLower(),
		Value:     hex.EncodeToString(value),
		IssuedAt:  now,
		ExpiresAt: now.Add(im.ttl),
	}
	b, err := json.Marshal(ch)
	if err != nil {
		return nil, err
	}
	// unconditional SET supersedes any live or consumed challenge
	if err := im.redis.Set(c, challengeKey(address), b, im.ttl); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("issue challenge failed")
		return nil, err
	}
	return ch, nil
}

func (im *challengeRepo) Peek(c ctx.Ctx, address domain.Address) (*account.Challenge, error) {
	b, err := im.redis.Get(c, challengeKey(address))
	if err == redis.ErrNotFound {
		return nil, domain.ErrNoActiveChallenge
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("peek challenge failed")
		return nil, err
	}
	ch := &account.Challenge{}
	if err := json.Unmarshal(b, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (im *challengeRepo) Consume(c ctx.Ctx, address domain.Address, value string) error {
	mu := im.locks.lock(address.ToLowerStr())
	defer mu.Unlock()

	key := challengeKey(address)
	b, err := im.redis.Get(c, key)
	if err == redis.ErrNotFound {
		return domain.ErrNoActiveChallenge
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("consume: get challenge failed")
		return err
	}
	ch := &account.Challenge{}
	if err := json.Unmarshal(b, ch); err != nil {
		return err
	}

	if ch.Consumed {
		return domain.ErrChallengeConsumed
	}
	// redis eviction normally covers this, kept for clock skew between nodes
	if ch.Expired(time.Now()) {
		return domain.ErrChallengeExpired
	}
	if ch.Value != value {
		return domain.ErrChallengeMismatch
	}

	remaining, err := im.redis.PTTL(c, key)
	if err != nil || remaining < minConsumedTTL {
		remaining = minConsumedTTL
	}
	ch.Consumed = true
	nb, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	if err := im.redis.Set(c, key, nb, remaining); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("consume: mark challenge failed")
		return err
	}
	return nil
}
