package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/database/mongoclient"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
	"github.com/openmark/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new account repo
func New(q query.Mongo) account.Repo {
	return &impl{
		query: q,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a := &account.Account{}
	err := im.query.FindOne(c, domain.TableAccounts, bson.M{"address": address.ToLower()}, a)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find account failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Insert(c ctx.Ctx, a *account.Account) error {
	a.Address = a.Address.ToLower()
	if err := im.query.Insert(c, domain.TableAccounts, a); err != nil {
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		c.WithFields(log.Fields{
			"address": a.Address,
			"err":     err,
		}).Error("insert account failed")
		return err
	}
	return nil
}

func (im *impl) Update(c ctx.Ctx, address domain.Address, updater *account.Updater) error {
	updaterBson, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("make bsonM failed")
		return err
	}
	if err := im.query.Patch(c, domain.TableAccounts, bson.M{"address": address.ToLower()}, updaterBson); err != nil {
		if err == query.ErrNotFound {
			return domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("patch account failed")
		return err
	}
	return nil
}
