package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/domain"
)

func respond(t *testing.T, status int, data interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(r, rec)
	require.NoError(t, MakeJsonResp(c, status, data))
	return rec
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrNoActiveChallenge, http.StatusGone},
		{domain.ErrChallengeExpired, http.StatusGone},
		{domain.ErrChallengeConsumed, http.StatusGone},
		{domain.ErrInvalidSignature, http.StatusUnauthorized},
		{domain.ErrSignatureMismatch, http.StatusUnauthorized},
		{domain.ErrUnauthorizedOfferer, http.StatusUnauthorized},
		{domain.ErrMalformedOrder, http.StatusUnprocessableEntity},
		{domain.ErrReverted, http.StatusUnprocessableEntity},
		{domain.ErrInvalidAddress, http.StatusBadRequest},
		{domain.ErrBadParamInput, http.StatusBadRequest},
		{domain.ErrChainUnavailable, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		// the coarse status the handler passes is overridden by the mapping
		rec := respond(t, http.StatusInternalServerError, c.err)
		require.Equal(t, c.want, rec.Code, c.err.Error())
	}
}

func TestMakeJsonRespEnvelope(t *testing.T) {
	req := require.New(t)

	rec := respond(t, http.StatusOK, map[string]string{"k": "v"})
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"status":"success"`)

	rec = respond(t, http.StatusInternalServerError, domain.ErrNotFound)
	req.Contains(rec.Body.String(), `"status":"fail"`)
}
