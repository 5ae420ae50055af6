package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/infrastructure/forward"
)

// JoinHandler proxies consortium join-form submissions to an external
// webhook. The upstream status and body pass through verbatim so the form
// frontend sees exactly what the webhook returned.
type JoinHandler struct {
	forwarder *forward.Forwarder
	log       zerolog.Logger
}

func NewJoinHandler(forwarder *forward.Forwarder, log zerolog.Logger) *JoinHandler {
	return &JoinHandler{forwarder: forwarder, log: log}
}

// Forward handles POST /api/submit-join.
//
// @Summary      Forward a join-form submission
// @Tags         join
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      500  {object}  map[string]bool
// @Router       /api/submit-join [post]
func (h *JoinHandler) Forward(c echo.Context) error {
	if !h.forwarder.Configured() {
		h.log.Error().Msg("join webhook URL not configured")
		return c.JSON(http.StatusInternalServerError, map[string]bool{"ok": false})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]bool{"ok": false})
	}

	status, respBody, err := h.forwarder.Forward(c.Request().Context(), body)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to forward join submission")
		return c.JSON(http.StatusInternalServerError, map[string]bool{"ok": false})
	}

	return c.Blob(status, echo.MIMEApplicationJSON, respBody)
}
