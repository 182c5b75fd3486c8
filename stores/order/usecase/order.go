package usecase

import (
	"time"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
)

type OrderUseCaseCfg struct {
	Repo order.Repo
	// Exchanges maps chain id to the deployed exchange contract config
	Exchanges map[domain.ChainId]*order.ExchangeCfg
}

type orderUseCaseImpl struct {
	repo      order.Repo
	exchanges map[domain.ChainId]*order.ExchangeCfg
}

func NewOrderUseCase(cfg *OrderUseCaseCfg) order.UseCase {
	return &orderUseCaseImpl{
		repo:      cfg.Repo,
		exchanges: cfg.Exchanges,
	}
}

func (im *orderUseCaseImpl) Create(ctx ctx.Ctx, ord order.Order, caller domain.Address) (*order.Order, error) {
	exchange, ok := im.exchanges[ord.ChainId]
	if !ok {
		return nil, domain.ErrBadParamInput
	}

	// orders are only accepted from the wallet that signed them
	if !ord.Offerer.Equals(caller) {
		return nil, domain.ErrUnauthorizedOfferer
	}

	if err := ord.Validate(exchange); err != nil {
		return nil, err
	}

	kind := ord.Classify(exchange)
	if kind == order.KindUnrecognized {
		return nil, domain.ErrUnrecognizedOrder
	}

	hash, err := ord.HashHex()
	if err != nil {
		ctx.WithField("err", err).Error("ord.HashHex failed")
		return nil, err
	}

	ord.OrderHash = hash
	ord.Kind = kind
	ord.Status = order.StatusOpen
	ord.Price = ord.DisplayPrice()
	ord.CreatedAt = time.Now()

	if err := im.repo.Create(ctx, &ord); err != nil {
		if err != domain.ErrConflict {
			ctx.WithFields(log.Fields{
				"err":       err,
				"orderHash": hash,
			}).Error("repo.Create failed")
		}
		return nil, err
	}
	return &ord, nil
}

func (im *orderUseCaseImpl) Get(ctx ctx.Ctx, id order.Id) (*order.Order, error) {
	return im.repo.FindOne(ctx, id)
}

func (im *orderUseCaseImpl) ListListings(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	return im.listActive(ctx, order.KindListing, opts...)
}

func (im *orderUseCaseImpl) ListOffers(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	return im.listActive(ctx, order.KindOffer, opts...)
}

func (im *orderUseCaseImpl) listActive(ctx ctx.Ctx, kind order.Kind, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	opts = append(opts,
		order.WithKind(kind),
		order.WithStatus(order.StatusOpen),
		order.WithEndTimeGT(time.Now()),
	)
	res, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *orderUseCaseImpl) UpdateStatus(ctx ctx.Ctx, id order.Id, status order.Status) error {
	if err := im.repo.UpdateStatus(ctx, id, status); err != nil {
		if err != domain.ErrNotFound {
			ctx.WithFields(log.Fields{
				"err":    err,
				"id":     id,
				"status": status,
			}).Error("repo.UpdateStatus failed")
		}
		return err
	}
	return nil
}
