package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// statusOverrides maps well-known domain errors to their HTTP status. Handlers
// may pass a coarse status and rely on this table for the precise one.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, query.ErrNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrNoActiveChallenge), errors.Is(err, domain.ErrChallengeExpired), errors.Is(err, domain.ErrChallengeConsumed):
		return http.StatusGone, true
	case errors.Is(err, domain.ErrChallengeMismatch), errors.Is(err, domain.ErrSignatureMismatch), errors.Is(err, domain.ErrUnauthorizedOfferer), errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrMalformedOrder), errors.Is(err, domain.ErrUnrecognizedOrder), errors.Is(err, domain.ErrReverted):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, domain.ErrInvalidAddress), errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrChainUnavailable):
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if mapped, ok := statusForError(err); ok {
			status = mapped
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
