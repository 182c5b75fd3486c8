package account

import (
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/domain"
)

// Account is user's account stored in database, created on first login
type Account struct {
	Address   domain.Address `json:"address" bson:"address"`
	Alias     string         `json:"alias" bson:"alias"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Updater is the patchable subset of Account
type Updater struct {
	Alias     *string   `bson:"alias,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

type Repo interface {
	Get(ctx ctx.Ctx, address domain.Address) (*Account, error)
	Insert(ctx ctx.Ctx, account *Account) error
	Update(ctx ctx.Ctx, address domain.Address, updater *Updater) error
}

type Usecase interface {
	Get(ctx ctx.Ctx, address domain.Address) (*Account, error)
	// EnsureExists creates the account on first successful login
	EnsureExists(ctx ctx.Ctx, address domain.Address) (*Account, error)
	Update(ctx ctx.Ctx, address domain.Address, updater *Updater) (*Account, error)
}
