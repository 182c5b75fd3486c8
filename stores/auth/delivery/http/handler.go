package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/delivery"
	"github.com/openmark/goapi/base/validator"
	"github.com/openmark/goapi/domain"
)

type authHandler struct {
	auth               domain.AuthUsecase
	signingMsgTemplate string
}

func New(e *echo.Echo, auth domain.AuthUsecase, template string) {
	handler := &authHandler{
		auth:               auth,
		signingMsgTemplate: template,
	}
	g := e.Group("/auth")
	g.GET("/nonce", handler.getNonce)
	g.POST("/verify", handler.verify)
	g.GET("/authenticate", handler.authenticate)
	g.POST("/logout", handler.logout)
	g.GET("/signingMsgTemplate", handler.getSigningMsgTemplate)
}

func (h *authHandler) getNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := c.QueryParam("address")
	if !validator.IsValidAddress(address) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	if msg, err := h.auth.GetChallenge(ctx, domain.Address(address)); err != nil {
		ctx.WithField("err", err).Error("auth.GetChallenge failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		res := struct {
			Message string `json:"message"`
		}{
			Message: msg,
		}
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *authHandler) verify(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address"`
		Signature string         `json:"signature"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if !validator.IsValidAddress(string(p.Address)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	if tkn, err := h.auth.Verify(ctx, p.Address, p.Signature); err != nil {
		ctx.WithField("err", err).Warn("auth.Verify failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		res := struct {
			Token string `json:"token"`
		}{
			Token: tkn,
		}
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// authenticate resolves the bearer token back to the wallet address
func (h *authHandler) authenticate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	token := bearerToken(c)
	if token == "" {
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, "missing bearer token")
	}

	if address, err := h.auth.ParseToken(ctx, token); err != nil {
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
	} else {
		res := struct {
			Address string `json:"address"`
		}{
			Address: address,
		}
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *authHandler) logout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	token := bearerToken(c)
	if token == "" {
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, "missing bearer token")
	}

	if err := h.auth.Logout(ctx, token); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *authHandler) getSigningMsgTemplate(c echo.Context) error {
	res := struct {
		Msg string `json:"template"`
	}{
		Msg: h.signingMsgTemplate,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
