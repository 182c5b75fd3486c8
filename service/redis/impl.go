package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/metrics"
	"github.com/openmark/goapi/domain/keys"
)

const (
	// retTTLNoKey is the return value of PTTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of PTTL when the key exists but has
	// no associated expire
	retTTLNoExpire = -1
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New redis service over one pool
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// Closing conn explicitly asap improves redigo's performance,
	// because the longer a connection is held the more connections the
	// pool needs to handle at the same time.
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := []string{"func", "get", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err != nil {
		if err == redis.ErrNil {
			return nil, ErrNotFound
		}
		context.WithField("err", err).Error("GET redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := []string{"func", "set", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
		_, err = r.connDo(context, "SET", key, val)
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
		_, err = r.connDo(context, "SET", key, val, "PX", int(expire/time.Millisecond))
	}
	if err != nil {
		context.WithField("err", err).Error("SET redis failed")
	}
	return err
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error) {
	tags := []string{"func", "setnx", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX"))
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX", "PX", int(expire/time.Millisecond)))
	}
	if err == redis.ErrNil {
		// key already exists, SET ... NX replied nil
		return false, nil
	}
	if err != nil {
		context.WithField("err", err).Error("SETNX redis failed")
		return false, err
	}
	return true, nil
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, nil
	}

	tags := []string{"func", "del", "cluster", r.name, "prefix", keys.GetPrefix(ks[0])}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("elements", float64(len(ks)), tags...)

	affected, err := redis.Int(r.connDo(context, "DEL", redis.Args{}.AddFlat(ks)...))
	if err != nil {
		context.WithField("err", err).Error("DEL redis failed")
		return 0, err
	}
	return affected, nil
}

func (r *redImpl) Expire(context ctx.Ctx, key string, ttl time.Duration) error {
	tags := []string{"func", "expire", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	if ttl == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
		_, err := r.connDo(context, "PERSIST", key)
		if err != nil {
			context.WithField("err", err).Error("Expire PERSIST redis key failed")
		}
		return err
	}
	r.met.BumpAvg("ttl", ttl.Seconds(), tags...)

	reply, err := r.connDo(context, "PEXPIRE", key, int(ttl/time.Millisecond))
	if err != nil {
		context.WithField("err", err).Error("Expire redis failed")
		return err
	}
	// Return value will be 0 if key does not exist or the timeout could not be set.
	if reply.(int64) != 1 {
		return ErrExpireNotExistOrTimeout
	}
	return nil
}

func (r *redImpl) PTTL(context ctx.Ctx, key string) (time.Duration, error) {
	tags := []string{"func", "pttl", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	ms, err := redis.Int64(r.connDo(context, "PTTL", key))
	if err != nil {
		context.WithField("err", err).Error("PTTL redis failed")
		return 0, err
	}
	switch ms {
	case retTTLNoKey:
		return 0, ErrNotFound
	case retTTLNoExpire:
		return Forever, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (r *redImpl) Incr(context ctx.Ctx, key string) (int64, error) {
	defer r.met.BumpTime("time", "func", "incr", "cluster", r.name, "prefix", keys.GetPrefix(key)).End()

	res, err := redis.Int64(r.connDo(context, "INCR", key))
	if err != nil {
		context.WithField("err", err).Error("INCR redis failed")
	}
	return res, err
}
