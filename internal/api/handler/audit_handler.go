package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

type AuditHandler struct {
	audit ports.AuditTrail
}

func NewAuditHandler(audit ports.AuditTrail) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /v1/audit-logs.
//
// @Summary      Search the audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        date     query     string  false  "Day, YYYY-MM-DD"
// @Param        user_id  query     string  false  "Acting user"
// @Param        action   query     string  false  "Action tag"
// @Param        q        query     string  false  "Text contained in the description"
// @Param        page     query     int     false  "Page (default 1)"
// @Param        limit    query     int     false  "Page size (default 20, max 100)"
// @Success      200      {object}  auditLogsResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := domain.AuditFilter{
		UserID: strings.TrimSpace(c.QueryParam("user_id")),
		Action: domain.AuditAction(c.QueryParam("action")),
		Text:   strings.TrimSpace(c.QueryParam("q")),
		Page:   page,
		Limit:  limit,
	}
	if raw := c.QueryParam("date"); raw != "" {
		day, err := domain.ParseDate(raw)
		if err != nil {
			return domain.NewFieldError("date", err.Error())
		}
		filter.Date = &day
	}

	logs, total, err := h.audit.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditLogsResponse{
		Data:       logs,
		Pagination: newPagination(total, page, limit),
	})
}
