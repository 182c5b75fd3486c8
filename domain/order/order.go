package order

import (
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/domain"
)

// ItemType follows the exchange contract's item type enum
type ItemType int

const (
	ItemTypeNative ItemType = iota
	ItemTypeErc20
	ItemTypeErc721
	ItemTypeErc1155
)

func (t ItemType) IsCurrency() bool {
	return t == ItemTypeNative || t == ItemTypeErc20
}

func (t ItemType) IsAsset() bool {
	return t == ItemTypeErc721 || t == ItemTypeErc1155
}

func (t ItemType) IsValid() bool {
	return t >= ItemTypeNative && t <= ItemTypeErc1155
}

// OrderType combines fill mode and zone restriction, contract enum order
type OrderType int

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
)

func (t OrderType) IsValid() bool {
	return t >= OrderTypeFullOpen && t <= OrderTypePartialRestricted
}

func (t OrderType) IsRestricted() bool {
	return t == OrderTypeFullRestricted || t == OrderTypePartialRestricted
}

// Status is the settlement state recorded next to the immutable order content
type Status string

const (
	StatusOpen      Status = "open"
	StatusFilled    Status = "filled"
	StatusCancelled Status = "cancelled"
	StatusInvalid   Status = "invalid"
)

// Kind tags which side of the book an order belongs to
type Kind string

const (
	KindListing      Kind = "listing"
	KindOffer        Kind = "offer"
	KindUnrecognized Kind = "unrecognized"
)

// Item is one offer or consideration line.
// Amounts are decimal strings in the token's smallest unit.
type Item struct {
	ItemType   ItemType       `json:"itemType" bson:"itemType"`
	Token      domain.Address `json:"token" bson:"token"`
	Identifier string         `json:"identifier" bson:"identifier"`
	// StartAmount and EndAmount differ only for declining/rising price orders
	StartAmount string         `json:"startAmount" bson:"startAmount"`
	EndAmount   string         `json:"endAmount" bson:"endAmount"`
	Recipient   domain.Address `json:"recipient,omitempty" bson:"recipient,omitempty"`
}

func (i *Item) LowerCase() {
	i.Token = i.Token.ToLower()
	i.Recipient = i.Recipient.ToLower()
}

// Order is a signed exchange order. Content never changes after creation so
// the stored signature stays verifiable; only Status is updated in place.
type Order struct {
	ChainId       domain.ChainId   `json:"chainId" bson:"chainId"`
	OrderHash     domain.OrderHash `json:"orderHash" bson:"orderHash"`
	Kind          Kind             `json:"kind" bson:"kind"`
	Status        Status           `json:"status" bson:"status"`
	Offerer       domain.Address   `json:"offerer" bson:"offerer"`
	Zone          domain.Address   `json:"zone,omitempty" bson:"zone,omitempty"`
	Offer         []Item           `json:"offer" bson:"offer"`
	Consideration []Item           `json:"consideration" bson:"consideration"`
	OrderType     OrderType        `json:"orderType" bson:"orderType"`
	// string format in unix timestamp
	StartTime string `json:"startTime" bson:"startTime"`
	// string format in unix timestamp
	EndTime   string `json:"endTime" bson:"endTime"`
	Salt      string `json:"salt" bson:"salt"`
	Signature string `json:"signature" bson:"signature"`
	// Price is the human readable currency total, derived at creation
	Price     string    `json:"price,omitempty" bson:"price,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}

func (o *Order) ToId() Id {
	return Id{
		ChainId:   o.ChainId,
		OrderHash: o.OrderHash,
	}
}

func (o *Order) LowerCase() {
	o.OrderHash = o.OrderHash.ToLower()
	o.Offerer = o.Offerer.ToLower()
	o.Zone = o.Zone.ToLower()
	for i := range o.Offer {
		o.Offer[i].LowerCase()
	}
	for i := range o.Consideration {
		o.Consideration[i].LowerCase()
	}
}

type Id struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	OrderHash domain.OrderHash `json:"orderHash" bson:"orderHash"`
}

// ExchangeCfg describes one chain's exchange contract deployment
type ExchangeCfg struct {
	ChainId domain.ChainId
	// Address is the verifying contract the orders are signed against
	Address domain.Address
	// FeeRecipients are marketplace addresses tolerated as extra
	// consideration recipients during classification
	FeeRecipients []domain.Address
}

func (cfg *ExchangeCfg) IsFeeRecipient(addr domain.Address) bool {
	for _, fr := range cfg.FeeRecipients {
		if fr.Equals(addr) {
			return true
		}
	}
	return false
}

type FindAllOptions struct {
	ChainId     *domain.ChainId
	OrderHash   *domain.OrderHash
	Kind        *Kind
	Status      *Status
	Offerer     *domain.Address
	Token       *domain.Address
	Salt        *string
	EndTimeGT   *time.Time
	StartTimeLT *time.Time
	Offset      *int32
	Limit       *int32
	Sort        *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithOrderHash(orderHash domain.OrderHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OrderHash = &orderHash
		return nil
	}
}

func WithKind(kind Kind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithOfferer(offerer domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offerer = &offerer
		return nil
	}
}

func WithToken(token domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Token = &token
		return nil
	}
}

func WithSalt(salt string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Salt = &salt
		return nil
	}
}

func WithEndTimeGT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeGT = &t
		return nil
	}
}

func WithStartTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.StartTimeLT = &t
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

type Repo interface {
	// Create inserts the order. Returns domain.ErrConflict when another order
	// with the same (offerer, salt) already exists.
	Create(ctx ctx.Ctx, order *Order) error
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Order, error)
	UpdateStatus(ctx ctx.Ctx, id Id, status Status) error
}

type UseCase interface {
	// Create validates, classifies and persists an order on behalf of caller
	Create(ctx ctx.Ctx, ord Order, caller domain.Address) (*Order, error)
	Get(ctx ctx.Ctx, id Id) (*Order, error)
	ListListings(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	ListOffers(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	UpdateStatus(ctx ctx.Ctx, id Id, status Status) error
}
