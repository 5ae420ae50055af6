package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// RegistrationHandler handles the registration intake and the admin listing.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

type registrationResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	ID       string `json:"id,omitempty"`
	Deferred bool   `json:"deferred,omitempty"`
}

type listRegistrationsResponse struct {
	Registrations []domain.Registrant `json:"registrations"`
}

// Submit handles POST /api/register.
//
// @Summary      Submit a workshop registration
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      registrationRequest  true  "Registration form payload"
// @Success      200   {object}  registrationResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/register [post]
func (h *RegistrationHandler) Submit(c echo.Context) error {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	// Format checks only; presence of required fields is the service's
	// contract, with its own messages.
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.Submit(c.Request().Context(), req.toInput())
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save registration. Please try again."})
	}

	if result.Deferred {
		return c.JSON(http.StatusOK, registrationResponse{Success: true, Deferred: true})
	}
	return c.JSON(http.StatusOK, registrationResponse{
		Success: true,
		Message: "Registration saved successfully",
		ID:      result.ID,
	})
}

// List handles GET /api/register — admin listing, gated by the AdminKey
// middleware. `?qdc_members=true` filters to membership opt-ins.
//
// @Summary      List registrations (admin)
// @Tags         registration
// @Produce      json
// @Security     BearerAuth
// @Param        qdc_members  query     string  false  "Filter to QDC membership opt-ins"
// @Success      200          {object}  listRegistrationsResponse
// @Failure      401          {object}  map[string]string
// @Failure      500          {object}  map[string]string
// @Router       /api/register [get]
func (h *RegistrationHandler) List(c echo.Context) error {
	membersOnly := c.QueryParam("qdc_members") == "true"

	regs, err := h.service.List(c.Request().Context(), membersOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch registrations"})
	}
	if regs == nil {
		regs = []domain.Registrant{}
	}
	return c.JSON(http.StatusOK, listRegistrationsResponse{Registrations: regs})
}
