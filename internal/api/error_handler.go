package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Client-fault validation errors carry their own safe message.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials or payment not found"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrAccountIncomplete):
		return http.StatusUnauthorized, "Account setup incomplete. Please contact support."
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized, "Invalid session"
	case errors.Is(err, domain.ErrRegistrantNotFound):
		return http.StatusNotFound, "User not found or payment not verified"
	case errors.Is(err, domain.ErrPasswordAlreadySet):
		return http.StatusBadRequest, "Password already set. Please use login."
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "Invalid signature"
	case errors.Is(err, domain.ErrUnknownTier):
		return http.StatusBadRequest, "Missing registration type"
	case errors.Is(err, domain.ErrNewsParse):
		return http.StatusInternalServerError, "Failed to parse news data"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
