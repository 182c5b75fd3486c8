package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openmark/goapi/domain"
	mDomain "github.com/openmark/goapi/domain/mocks"
	"github.com/openmark/goapi/middleware"
)

const testTemplate = "Welcome!\n\nSign this one-time code to log in: %s"

func newTestServer(auth domain.AuthUsecase) *echo.Echo {
	e := echo.New()
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, auth, testTemplate)
	return e
}

func postVerify(e *echo.Echo, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/auth/verify", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)
	return rec
}

func TestVerifyGrantsToken(t *testing.T) {
	req := require.New(t)

	auth := &mDomain.AuthUsecase{}
	auth.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return("token-123", nil)

	rec := postVerify(newTestServer(auth),
		`{"address":"0xce4468e7ce84aceb74363f4ea64e5a038176f369","signature":"0x01"}`)
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "token-123")
}

func TestVerifyBadSignature(t *testing.T) {
	req := require.New(t)

	auth := &mDomain.AuthUsecase{}
	auth.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return("", domain.ErrInvalidSignature)

	rec := postVerify(newTestServer(auth),
		`{"address":"0xce4468e7ce84aceb74363f4ea64e5a038176f369","signature":"0x02"}`)
	req.Equal(http.StatusUnauthorized, rec.Code)
}

func TestVerifyMalformedAddress(t *testing.T) {
	req := require.New(t)

	auth := &mDomain.AuthUsecase{}
	rec := postVerify(newTestServer(auth), `{"address":"not-an-address","signature":"0x01"}`)
	req.Equal(http.StatusBadRequest, rec.Code)
	auth.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}
