package usecase

import (
	"crypto/ecdsa"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/ethereum"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
	mOrder "github.com/openmark/goapi/domain/order/mocks"
)

var (
	testErc721  = domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	testFeeAddr = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
)

func testExchanges() map[domain.ChainId]*order.ExchangeCfg {
	return map[domain.ChainId]*order.ExchangeCfg{
		5: {
			ChainId:       5,
			Address:       domain.Address("0x1a01ecd2263a9d5b5967667e508ea22db478bc4b"),
			FeeRecipients: []domain.Address{testFeeAddr},
		},
	}
}

func newSigner(t *testing.T) (*ecdsa.PrivateKey, domain.Address) {
	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	return key, domain.Address(crypto.PubkeyToAddress(*pub).Hex())
}

func signedListing(t *testing.T, key *ecdsa.PrivateKey, offerer domain.Address, cfg *order.ExchangeCfg) order.Order {
	now := time.Now()
	ord := order.Order{
		ChainId: cfg.ChainId,
		Offerer: offerer,
		Offer: []order.Item{
			{ItemType: order.ItemTypeErc721, Token: testErc721, Identifier: "7", StartAmount: "1", EndAmount: "1"},
		},
		Consideration: []order.Item{
			{ItemType: order.ItemTypeNative, StartAmount: "1000000000000000000", EndAmount: "1000000000000000000", Recipient: offerer},
		},
		OrderType: order.OrderTypeFullOpen,
		StartTime: fmt.Sprint(now.Add(-time.Hour).Unix()),
		EndTime:   fmt.Sprint(now.Add(24 * time.Hour).Unix()),
		Salt:      "777",
	}
	digest, err := ord.Digest(cfg.ChainId, cfg.Address)
	require.NoError(t, err)
	sig, err := ethereum.SignHash(digest, key)
	require.NoError(t, err)
	ord.Signature = sig
	return ord
}

func TestCreateListing(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	ord := signedListing(t, key, offerer, exchanges[5])

	repo := &mOrder.Repo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: repo, Exchanges: exchanges})
	created, err := u.Create(_ctx, ord, offerer)
	req.NoError(err)
	req.Equal(order.KindListing, created.Kind)
	req.Equal(order.StatusOpen, created.Status)
	req.NotEmpty(created.OrderHash)
	req.Equal("1", created.Price)
	req.False(created.CreatedAt.IsZero())

	expected, err := ord.HashHex()
	req.NoError(err)
	req.Equal(expected, created.OrderHash)
	repo.AssertExpectations(t)
}

func TestCreateCallerMismatch(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	_, caller := newSigner(t)
	ord := signedListing(t, key, offerer, exchanges[5])

	repo := &mOrder.Repo{}
	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: repo, Exchanges: exchanges})
	_, err := u.Create(_ctx, ord, caller)
	req.ErrorIs(err, domain.ErrUnauthorizedOfferer)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUnknownChain(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	ord := signedListing(t, key, offerer, exchanges[5])
	ord.ChainId = 1337

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: &mOrder.Repo{}, Exchanges: exchanges})
	_, err := u.Create(_ctx, ord, offerer)
	req.ErrorIs(err, domain.ErrBadParamInput)
}

func TestCreateDuplicate(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	ord := signedListing(t, key, offerer, exchanges[5])

	repo := &mOrder.Repo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: repo, Exchanges: exchanges})
	_, err := u.Create(_ctx, ord, offerer)
	req.ErrorIs(err, domain.ErrConflict)
}

func TestCreateUnrecognized(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	_, stranger := newSigner(t)

	// proceeds routed to a stranger classify as neither side of the book
	now := time.Now()
	ord := order.Order{
		ChainId: 5,
		Offerer: offerer,
		Offer: []order.Item{
			{ItemType: order.ItemTypeErc721, Token: testErc721, Identifier: "7", StartAmount: "1", EndAmount: "1"},
		},
		Consideration: []order.Item{
			{ItemType: order.ItemTypeNative, StartAmount: "1000000000000000000", EndAmount: "1000000000000000000", Recipient: stranger},
		},
		OrderType: order.OrderTypeFullOpen,
		StartTime: fmt.Sprint(now.Add(-time.Hour).Unix()),
		EndTime:   fmt.Sprint(now.Add(24 * time.Hour).Unix()),
		Salt:      "778",
	}
	digest, err := ord.Digest(5, exchanges[5].Address)
	req.NoError(err)
	sig, err := ethereum.SignHash(digest, key)
	req.NoError(err)
	ord.Signature = sig

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: &mOrder.Repo{}, Exchanges: exchanges})
	_, err = u.Create(_ctx, ord, offerer)
	req.ErrorIs(err, domain.ErrUnrecognizedOrder)
}

func TestCreateTampered(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()
	key, offerer := newSigner(t)
	ord := signedListing(t, key, offerer, exchanges[5])
	ord.Salt = "778"

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: &mOrder.Repo{}, Exchanges: exchanges})
	_, err := u.Create(_ctx, ord, offerer)
	req.ErrorIs(err, domain.ErrSignatureMismatch)
}

func TestListActiveAppendsFilters(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()
	exchanges := testExchanges()

	repo := &mOrder.Repo{}
	repo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		opts := []order.FindAllOptionsFunc{}
		for _, a := range args[1:] {
			opts = append(opts, a.(order.FindAllOptionsFunc))
		}
		parsed, err := order.GetFindAllOptions(opts...)
		req.NoError(err)
		req.NotNil(parsed.Kind)
		req.Equal(order.KindListing, *parsed.Kind)
		req.NotNil(parsed.Status)
		req.Equal(order.StatusOpen, *parsed.Status)
		req.NotNil(parsed.EndTimeGT)
	}).Return([]*order.Order{}, nil)

	u := NewOrderUseCase(&OrderUseCaseCfg{Repo: repo, Exchanges: exchanges})
	_, err := u.ListListings(_ctx)
	req.NoError(err)
	repo.AssertExpectations(t)
}
