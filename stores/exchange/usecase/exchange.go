package usecase

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	exchangeAbi "github.com/openmark/goapi/base/abi"
	bCtx "github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/exchange"
	"github.com/openmark/goapi/domain/order"
	"github.com/openmark/goapi/service/chain"
)

const refreshConcurrency = 8

type ExchangeUseCaseCfg struct {
	OrderRepo order.Repo
	Chain     chain.Client
	// Exchanges maps chain id to the deployed exchange contract config
	Exchanges map[domain.ChainId]*order.ExchangeCfg
}

type ExchangeUseCase struct {
	orderRepo order.Repo
	chain     chain.Client
	exchanges map[domain.ChainId]*order.ExchangeCfg
}

func NewExchangeUseCase(cfg *ExchangeUseCaseCfg) exchange.UseCase {
	return &ExchangeUseCase{
		orderRepo: cfg.OrderRepo,
		chain:     cfg.Chain,
		exchanges: cfg.Exchanges,
	}
}

func (u *ExchangeUseCase) CheckStatus(ctx bCtx.Ctx, id order.Id) (order.Status, error) {
	cfg, ok := u.exchanges[id.ChainId]
	if !ok {
		return "", domain.ErrBadParamInput
	}

	res, err := u.chain.Call(ctx, int32(id.ChainId), common.HexToAddress(string(cfg.Address)),
		exchangeAbi.ExchangeABI, "getOrderStatus", common.HexToHash(string(id.OrderHash)))
	if err != nil {
		// a reverting read is the contract's definitive verdict on the order,
		// only transport failures stay errors
		if mapChainError(err) == domain.ErrReverted {
			return order.StatusInvalid, nil
		}
		return "", domain.ErrChainUnavailable
	}
	status, err := parseOrderStatus(res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("parseOrderStatus failed")
		return "", err
	}

	switch {
	case status.IsCancelled:
		return order.StatusCancelled, nil
	case status.TotalSize.Sign() > 0 && status.TotalFilled.Cmp(status.TotalSize) >= 0:
		return order.StatusFilled, nil
	default:
		return order.StatusOpen, nil
	}
}

func (u *ExchangeUseCase) Fulfill(ctx bCtx.Ctx, id order.Id, fulfiller domain.Address) (domain.TxHash, error) {
	cfg, ok := u.exchanges[id.ChainId]
	if !ok {
		return "", domain.ErrBadParamInput
	}

	ord, err := u.orderRepo.FindOne(ctx, id)
	if err != nil {
		return "", err
	}

	bound, signature, err := toExchangeOrder(ord)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("toExchangeOrder failed")
		return "", domain.ErrMalformedOrder
	}

	txHash, err := u.chain.Send(ctx, int32(id.ChainId), common.HexToAddress(string(cfg.Address)),
		exchangeAbi.ExchangeABI, "fulfillOrder", *bound, signature, common.HexToAddress(string(fulfiller)))
	if err != nil {
		return "", mapChainError(err)
	}
	return domain.TxHash(txHash.Hex()), nil
}

func (u *ExchangeUseCase) RefreshOpenOrders(ctx bCtx.Ctx) error {
	open, err := u.orderRepo.FindAll(ctx, order.WithStatus(order.StatusOpen))
	if err != nil {
		return err
	}
	if len(open) == 0 {
		return nil
	}

	b := goroutines.NewBatch(refreshConcurrency, goroutines.WithBatchSize(len(open)))
	defer b.Close()
	for i := 0; i < len(open); i++ {
		ord := open[i]
		b.Queue(func() (interface{}, error) {
			status, err := u.CheckStatus(ctx, ord.ToId())
			if err != nil {
				return nil, err
			}
			if status != ord.Status {
				if err := u.orderRepo.UpdateStatus(ctx, ord.ToId(), status); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
	}
	b.QueueComplete()

	var anyerr error
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			// keep refreshing the rest, a flaky rpc must not wedge the sweep
			ctx.WithField("err", err).Warn("refresh order status failed")
			anyerr = err
		}
	}
	return anyerr
}

func toExchangeOrder(ord *order.Order) (*exchangeAbi.ExchangeOrder, []byte, error) {
	times, err := domain.ToBigInt([]string{ord.StartTime, ord.EndTime, ord.Salt})
	if err != nil {
		return nil, nil, err
	}

	offer := make([]exchangeAbi.ExchangeOfferItem, len(ord.Offer))
	for i, it := range ord.Offer {
		conv, err := toExchangeItem(&it)
		if err != nil {
			return nil, nil, err
		}
		offer[i] = *conv
	}
	consideration := make([]exchangeAbi.ExchangeConsiderationItem, len(ord.Consideration))
	for i, it := range ord.Consideration {
		conv, err := toExchangeItem(&it)
		if err != nil {
			return nil, nil, err
		}
		consideration[i] = exchangeAbi.ExchangeConsiderationItem{
			ItemType:    conv.ItemType,
			Token:       conv.Token,
			Identifier:  conv.Identifier,
			StartAmount: conv.StartAmount,
			EndAmount:   conv.EndAmount,
			Recipient:   common.HexToAddress(string(it.Recipient)),
		}
	}

	signature, err := hexutil.Decode(ord.Signature)
	if err != nil {
		return nil, nil, err
	}

	return &exchangeAbi.ExchangeOrder{
		Offerer:       common.HexToAddress(string(ord.Offerer)),
		Zone:          common.HexToAddress(string(ord.Zone)),
		Offer:         offer,
		Consideration: consideration,
		OrderType:     uint8(ord.OrderType),
		StartTime:     times[0],
		EndTime:       times[1],
		Salt:          times[2],
	}, signature, nil
}

func toExchangeItem(it *order.Item) (*exchangeAbi.ExchangeOfferItem, error) {
	identifier := it.Identifier
	if identifier == "" {
		identifier = "0"
	}
	nums, err := domain.ToBigInt([]string{identifier, it.StartAmount, it.EndAmount})
	if err != nil {
		return nil, err
	}
	return &exchangeAbi.ExchangeOfferItem{
		ItemType:    uint8(it.ItemType),
		Token:       common.HexToAddress(string(it.Token)),
		Identifier:  nums[0],
		StartAmount: nums[1],
		EndAmount:   nums[2],
	}, nil
}

func parseOrderStatus(unpacked []interface{}) (*exchange.OrderStatusResult, error) {
	if len(unpacked) != 4 {
		return nil, xerrors.Errorf("unexpected getOrderStatus arity %d", len(unpacked))
	}
	res := &exchange.OrderStatusResult{}
	var ok bool
	if res.IsValidated, ok = unpacked[0].(bool); !ok {
		return nil, xerrors.New("unexpected isValidated type")
	}
	if res.IsCancelled, ok = unpacked[1].(bool); !ok {
		return nil, xerrors.New("unexpected isCancelled type")
	}
	if res.TotalFilled, ok = unpacked[2].(*big.Int); !ok {
		return nil, xerrors.New("unexpected totalFilled type")
	}
	if res.TotalSize, ok = unpacked[3].(*big.Int); !ok {
		return nil, xerrors.New("unexpected totalSize type")
	}
	return res, nil
}

// mapChainError folds rpc failures into the two states callers act on:
// a definitive revert versus an unreachable chain.
func mapChainError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return domain.ErrReverted
	}
	return domain.ErrChainUnavailable
}
