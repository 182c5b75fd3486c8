package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/delivery"
	"github.com/openmark/goapi/base/validator"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type orderHandler struct {
	order order.UseCase
}

// New registers order book endpoints. Reads go through cacheMiddleware,
// writes require a session via authMiddleware.
func New(e *echo.Echo, orderUC order.UseCase, authMiddleware, cacheMiddleware echo.MiddlewareFunc) {
	handler := &orderHandler{
		order: orderUC,
	}

	e.GET("/listings", handler.listListings, cacheMiddleware)
	e.POST("/listings", handler.createOrder, authMiddleware)
	e.GET("/offers", handler.listOffers, cacheMiddleware)
	e.POST("/offers", handler.createOrder, authMiddleware)
	e.GET("/orders/:hash", handler.getOrder)
}

type listParams struct {
	ChainId domain.ChainId `query:"chainId"`
	Offerer string         `query:"offerer"`
	Token   string         `query:"token"`
	Offset  int32          `query:"offset"`
	Limit   int32          `query:"limit"`
}

func (p *listParams) toOpts() ([]order.FindAllOptionsFunc, error) {
	opts := []order.FindAllOptionsFunc{}
	if p.ChainId != 0 {
		opts = append(opts, order.WithChainId(p.ChainId))
	}
	if p.Offerer != "" {
		if !validator.IsValidAddress(p.Offerer) {
			return nil, domain.ErrInvalidAddress
		}
		opts = append(opts, order.WithOfferer(domain.Address(p.Offerer)))
	}
	if p.Token != "" {
		if !validator.IsValidAddress(p.Token) {
			return nil, domain.ErrInvalidAddress
		}
		opts = append(opts, order.WithToken(domain.Address(p.Token)))
	}
	if p.Limit <= 0 || p.Limit > maxLimit {
		p.Limit = defaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	opts = append(opts,
		order.WithPagination(p.Offset, p.Limit),
		order.WithSort("-createdAt"),
	)
	return opts, nil
}

func (h *orderHandler) listListings(c echo.Context) error {
	return h.list(c, h.order.ListListings)
}

func (h *orderHandler) listOffers(c echo.Context) error {
	return h.list(c, h.order.ListOffers)
}

func (h *orderHandler) list(c echo.Context, lister func(ctx.Ctx, ...order.FindAllOptionsFunc) ([]*order.Order, error)) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &listParams{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts, err := p.toOpts()
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if res, err := lister(ctx, opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *orderHandler) createOrder(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	caller := c.Get("address").(domain.Address)

	p := &order.Order{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	if res, err := h.order.Create(ctx, *p, caller); err != nil {
		ctx.WithField("err", err).Warn("order.Create failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, res)
	}
}

func (h *orderHandler) getOrder(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	hash := c.Param("hash")
	chainId, err := strconv.ParseInt(c.QueryParam("chainId"), 10, 64)
	if err != nil || chainId <= 0 {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	id := order.Id{
		ChainId:   domain.ChainId(chainId),
		OrderHash: domain.OrderHash(hash),
	}
	if res, err := h.order.Get(ctx, id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
