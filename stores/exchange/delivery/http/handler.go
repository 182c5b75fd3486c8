package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/delivery"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/exchange"
	"github.com/openmark/goapi/domain/order"
)

type exchangeHandler struct {
	exchange exchange.UseCase
}

// New registers on-chain order endpoints
func New(e *echo.Echo, exchangeUC exchange.UseCase, authMiddleware echo.MiddlewareFunc) {
	handler := &exchangeHandler{
		exchange: exchangeUC,
	}

	e.GET("/orders/:hash/status", handler.getStatus)
	e.POST("/orders/:hash/fulfill", handler.fulfill, authMiddleware)
}

func orderId(c echo.Context) (order.Id, error) {
	chainId, err := strconv.ParseInt(c.QueryParam("chainId"), 10, 64)
	if err != nil || chainId <= 0 {
		return order.Id{}, domain.ErrBadParamInput
	}
	return order.Id{
		ChainId:   domain.ChainId(chainId),
		OrderHash: domain.OrderHash(c.Param("hash")),
	}, nil
}

func (h *exchangeHandler) getStatus(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := orderId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	status, err := h.exchange.CheckStatus(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"chainId":   id.ChainId,
		"orderHash": id.OrderHash,
		"status":    status,
	})
}

func (h *exchangeHandler) fulfill(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	fulfiller := c.Get("address").(domain.Address)

	id, err := orderId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	txHash, err := h.exchange.Fulfill(ctx, id, fulfiller)
	if err != nil {
		ctx.WithField("err", err).Warn("exchange.Fulfill failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"txHash": txHash,
	})
}
