package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// MemberHandler handles member authentication: login, the one-time
// set-password flow, and session verification. Domain errors propagate to
// the central error handler, which owns the status codes and messages.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool                  `json:"success"`
	Token   string                `json:"token"`
	User    *domain.MemberProfile `json:"user"`
}

type setPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid bool                  `json:"valid"`
	User  *domain.MemberProfile `json:"user"`
}

// Login handles POST /api/qdw/login.
//
// @Summary      Member login
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Email and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/qdw/login [post]
func (h *MemberHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, profile, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Success: true, Token: token, User: profile})
}

// SetPassword handles POST /api/qdw/set-password. One-time: a registrant
// with a password already set gets a 400 pointing them at login.
//
// @Summary      Set member password
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      setPasswordRequest  true  "Email and new password"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/qdw/set-password [post]
func (h *MemberHandler) SetPassword(c echo.Context) error {
	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.SetPassword(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Verify handles POST /api/qdw/verify-member. The token is taken from the JSON
// body, falling back to a bearer Authorization header.
//
// @Summary      Verify member session
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Session token"
// @Success      200   {object}  verifyResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/qdw/verify-member [post]
func (h *MemberHandler) Verify(c echo.Context) error {
	var req verifyRequest
	_ = c.Bind(&req)

	token := req.Token
	if token == "" {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
	}

	profile, err := h.service.Verify(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyResponse{Valid: true, User: profile})
}
