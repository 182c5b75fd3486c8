package usecase

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
	mOrder "github.com/openmark/goapi/domain/order/mocks"
	mChain "github.com/openmark/goapi/service/chain/mocks"
)

var testHash = domain.OrderHash("0x68401e56900a4ff227a9bddba52872e92d4a3f3a56f36b7fab4cb8ce9d13b22c")

func testExchanges() map[domain.ChainId]*order.ExchangeCfg {
	return map[domain.ChainId]*order.ExchangeCfg{
		5: {
			ChainId: 5,
			Address: domain.Address("0x1a01ecd2263a9d5b5967667e508ea22db478bc4b"),
		},
	}
}

func testId() order.Id {
	return order.Id{ChainId: 5, OrderHash: testHash}
}

func storedOrder(status order.Status) *order.Order {
	now := time.Now()
	return &order.Order{
		ChainId:   5,
		OrderHash: testHash,
		Kind:      order.KindListing,
		Status:    status,
		Offerer:   domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369"),
		Offer: []order.Item{
			{ItemType: order.ItemTypeErc721, Token: domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba"), Identifier: "7", StartAmount: "1", EndAmount: "1"},
		},
		Consideration: []order.Item{
			{ItemType: order.ItemTypeNative, StartAmount: "1000000000000000000", EndAmount: "1000000000000000000", Recipient: domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")},
		},
		OrderType: order.OrderTypeFullOpen,
		StartTime: fmt.Sprint(now.Add(-time.Hour).Unix()),
		EndTime:   fmt.Sprint(now.Add(24 * time.Hour).Unix()),
		Salt:      "777",
		Signature: "0x" +
			"6c497788bc31a643be11394f36685fc76f76e25a66b4ef9f92324f7bba046f6c" +
			"6be1e66ed3e964a2e01599bca4c63e390ef53d399f37a6bd4378b42e4f825dc5" +
			"1c",
	}
}

func statusResult(validated, cancelled bool, filled, size int64) []interface{} {
	return []interface{}{validated, cancelled, big.NewInt(filled), big.NewInt(size)}
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		name     string
		unpacked []interface{}
		expected order.Status
	}{
		{"untouched", statusResult(false, false, 0, 0), order.StatusOpen},
		{"partially filled", statusResult(true, false, 1, 2), order.StatusOpen},
		{"filled", statusResult(true, false, 2, 2), order.StatusFilled},
		{"cancelled", statusResult(true, true, 0, 1), order.StatusCancelled},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := require.New(t)
			_ctx := ctx.Background()

			chainClient := &mChain.Client{}
			chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus", mock.Anything).
				Return(c.unpacked, nil)

			u := NewExchangeUseCase(&ExchangeUseCaseCfg{
				OrderRepo: &mOrder.Repo{},
				Chain:     chainClient,
				Exchanges: testExchanges(),
			})
			status, err := u.CheckStatus(_ctx, testId())
			req.NoError(err)
			req.Equal(c.expected, status)
		})
	}
}

func TestCheckStatusChainErrors(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	chainClient := &mChain.Client{}
	chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus", mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()
	chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus", mock.Anything).
		Return(nil, errors.New("execution reverted: bad order")).Once()

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: &mOrder.Repo{},
		Chain:     chainClient,
		Exchanges: testExchanges(),
	})

	// transport failure never masquerades as a definitive order state
	_, err := u.CheckStatus(_ctx, testId())
	req.ErrorIs(err, domain.ErrChainUnavailable)

	// a reverting read is a verdict, the order can never fill
	status, err := u.CheckStatus(_ctx, testId())
	req.NoError(err)
	req.Equal(order.StatusInvalid, status)
}

func TestCheckStatusUnknownChain(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: &mOrder.Repo{},
		Chain:     &mChain.Client{},
		Exchanges: testExchanges(),
	})
	_, err := u.CheckStatus(_ctx, order.Id{ChainId: 1337, OrderHash: testHash})
	req.ErrorIs(err, domain.ErrBadParamInput)
}

func TestFulfill(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	txHash := common.HexToHash("0xb32c0eefd9f89677fd7e7dfe4bd8683d5a41fae3a47a5d530d75dc410c60bc81")
	fulfiller := domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")

	repo := &mOrder.Repo{}
	repo.On("FindOne", mock.Anything, testId()).Return(storedOrder(order.StatusOpen), nil)

	chainClient := &mChain.Client{}
	chainClient.On("Send", mock.Anything, int32(5), mock.Anything, mock.Anything, "fulfillOrder",
		mock.Anything, mock.Anything, mock.Anything).Return(txHash, nil)

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: repo,
		Chain:     chainClient,
		Exchanges: testExchanges(),
	})
	got, err := u.Fulfill(_ctx, testId(), fulfiller)
	req.NoError(err)
	req.Equal(domain.TxHash(txHash.Hex()), got)
	chainClient.AssertExpectations(t)
}

func TestFulfillUnknownOrder(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	repo := &mOrder.Repo{}
	repo.On("FindOne", mock.Anything, testId()).Return(nil, domain.ErrNotFound)

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: repo,
		Chain:     &mChain.Client{},
		Exchanges: testExchanges(),
	})
	_, err := u.Fulfill(_ctx, testId(), domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"))
	req.ErrorIs(err, domain.ErrNotFound)
}

func TestFulfillReverted(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	repo := &mOrder.Repo{}
	repo.On("FindOne", mock.Anything, testId()).Return(storedOrder(order.StatusOpen), nil)

	chainClient := &mChain.Client{}
	chainClient.On("Send", mock.Anything, int32(5), mock.Anything, mock.Anything, "fulfillOrder",
		mock.Anything, mock.Anything, mock.Anything).Return(common.Hash{}, errors.New("execution reverted"))

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: repo,
		Chain:     chainClient,
		Exchanges: testExchanges(),
	})
	_, err := u.Fulfill(_ctx, testId(), domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"))
	req.ErrorIs(err, domain.ErrReverted)
}

func TestRefreshOpenOrders(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	open := storedOrder(order.StatusOpen)
	cancelled := storedOrder(order.StatusOpen)
	cancelled.OrderHash = domain.OrderHash("0x11401e56900a4ff227a9bddba52872e92d4a3f3a56f36b7fab4cb8ce9d13b22c")

	repo := &mOrder.Repo{}
	repo.On("FindAll", mock.Anything, mock.Anything).Return([]*order.Order{open, cancelled}, nil)
	repo.On("UpdateStatus", mock.Anything, cancelled.ToId(), order.StatusCancelled).Return(nil)

	chainClient := &mChain.Client{}
	chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus",
		common.HexToHash(string(open.OrderHash))).Return(statusResult(true, false, 0, 1), nil)
	chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus",
		common.HexToHash(string(cancelled.OrderHash))).Return(statusResult(true, true, 0, 1), nil)

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: repo,
		Chain:     chainClient,
		Exchanges: testExchanges(),
	})
	req.NoError(u.RefreshOpenOrders(_ctx))
	repo.AssertExpectations(t)

	// the still-open order must not be touched
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, open.ToId(), mock.Anything)
}

func TestRefreshOpenOrdersPersistsInvalid(t *testing.T) {
	req := require.New(t)
	_ctx := ctx.Background()

	ord := storedOrder(order.StatusOpen)

	repo := &mOrder.Repo{}
	repo.On("FindAll", mock.Anything, mock.Anything).Return([]*order.Order{ord}, nil)
	repo.On("UpdateStatus", mock.Anything, ord.ToId(), order.StatusInvalid).Return(nil)

	chainClient := &mChain.Client{}
	chainClient.On("Call", mock.Anything, int32(5), mock.Anything, mock.Anything, "getOrderStatus",
		common.HexToHash(string(ord.OrderHash))).Return(nil, errors.New("execution reverted: order parameters"))

	u := NewExchangeUseCase(&ExchangeUseCaseCfg{
		OrderRepo: repo,
		Chain:     chainClient,
		Exchanges: testExchanges(),
	})
	req.NoError(u.RefreshOpenOrders(_ctx))
	repo.AssertExpectations(t)
}
