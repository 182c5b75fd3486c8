package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/delivery"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/account"
	"github.com/openmark/goapi/middleware"
)

type accountHandler struct {
	account account.Usecase
}

// New registers account endpoints. authMiddleware guards the mutating ones.
func New(e *echo.Echo, accountUC account.Usecase, authMiddleware echo.MiddlewareFunc) {
	handler := &accountHandler{
		account: accountUC,
	}
	g := e.Group("/account")
	g.GET("/:address", handler.get, middleware.IsValidAddress("address"))
	g.PATCH("", handler.update, authMiddleware)
}

func (h *accountHandler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address"))

	if res, err := h.account.Get(ctx, address); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *accountHandler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := c.Get("address").(domain.Address)

	type params struct {
		Alias *string `json:"alias"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	updater := &account.Updater{
		Alias: p.Alias,
	}
	if res, err := h.account.Update(ctx, address, updater); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
