package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/ports"
)

// EnrollmentHandler exposes enrollment, cancellation and attendance.
type EnrollmentHandler struct {
	enrollment ports.EnrollmentService
}

func NewEnrollmentHandler(enrollment ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollment}
}

// Enroll handles POST /v1/events/:id/registrations.
//
// @Summary      Enroll the caller in an event
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      201  {object}  domain.Registration
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /v1/events/{id}/registrations [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	reg, err := h.enrollment.TryEnroll(c.Request().Context(), userID, c.Param("id"), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reg)
}

// Cancel handles DELETE /v1/events/:id/registrations.
//
// @Summary      Cancel the caller's registration
// @Tags         registrations
// @Security     BearerAuth
// @Param        id  path  string  true  "Event ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id}/registrations [delete]
func (h *EnrollmentHandler) Cancel(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.enrollment.Cancel(c.Request().Context(), userID, c.Param("id"), c.RealIP()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Mine handles GET /v1/me/registrations.
//
// @Summary      List the caller's registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  registrationsResponse
// @Router       /v1/me/registrations [get]
func (h *EnrollmentHandler) Mine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	regs, err := h.enrollment.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registrationsResponse{Data: regs})
}

// ListByEvent handles GET /v1/events/:id/registrations.
//
// @Summary      List registrations of an owned event
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  registrationsResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id}/registrations [get]
func (h *EnrollmentHandler) ListByEvent(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	regs, err := h.enrollment.ListByEvent(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registrationsResponse{Data: regs})
}

// ConfirmPresence handles PUT /v1/events/:id/registrations/:user_id/presence.
//
// @Summary      Confirm or revoke a participant's attendance
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Event ID"
// @Param        user_id  path      string           true  "Participant ID"
// @Param        body     body      presenceRequest  true  "Presence"
// @Success      200      {object}  domain.Registration
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/events/{id}/registrations/{user_id}/presence [put]
func (h *EnrollmentHandler) ConfirmPresence(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req presenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reg, err := h.enrollment.ConfirmPresence(c.Request().Context(),
		userID, c.Param("id"), c.Param("user_id"), *req.Confirmed, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reg)
}
