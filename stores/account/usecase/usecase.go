package usecase

import (
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
)

type impl struct {
	repo account.Repo
}

// New creates account usecase
func New(repo account.Repo) account.Usecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a, err := im.repo.Get(c, address)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"address": address,
				"err":     err,
			}).Error("repo.Get failed")
		}
		return nil, err
	}
	return a, nil
}

func (im *impl) EnsureExists(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a, err := im.repo.Get(c, address)
	if err == nil {
		return a, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	a = &account.Account{
		Address:   address.ToLower(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := im.repo.Insert(c, a); err != nil {
		// a concurrent first login won the insert
		if err == domain.ErrConflict {
			return im.repo.Get(c, address)
		}
		c.WithField("err", err).Error("repo.Insert failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Update(c ctx.Ctx, address domain.Address, updater *account.Updater) (*account.Account, error) {
	updater.UpdatedAt = time.Now()
	if err := im.repo.Update(c, address, updater); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return nil, err
	}
	return im.repo.Get(c, address)
}
