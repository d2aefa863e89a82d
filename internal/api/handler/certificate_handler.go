package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

// CertificateHandler serves certificates and triggers the issuance batch.
type CertificateHandler struct {
	certificates ports.CertificateService
}

func NewCertificateHandler(certificates ports.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// Mine handles GET /v1/me/certificates.
//
// @Summary      List the caller's certificates
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  certificatesResponse
// @Router       /v1/me/certificates [get]
func (h *CertificateHandler) Mine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	certs, err := h.certificates.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, certificatesResponse{Data: certs})
}

// Download handles GET /v1/certificates/:id/download.
//
// @Summary      Download a certificate document
// @Tags         certificates
// @Produce      plain
// @Security     BearerAuth
// @Param        id   path      string  true  "Certificate ID"
// @Success      200  {file}    file
// @Failure      404  {object}  errorResponse
// @Router       /v1/certificates/{id}/download [get]
func (h *CertificateHandler) Download(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	cert, rc, err := h.certificates.Download(c.Request().Context(), userID, c.Param("id"), c.RealIP())
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", domain.CertificateFileName(cert.EventID, cert.UserID)))
	return c.Stream(http.StatusOK, "text/plain; charset=utf-8", rc)
}

// RunBatch handles POST /v1/certificates/batch.
//
// @Summary      Issue certificates for finished events
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        dry_run  query     bool  false  "Report without issuing"
// @Success      200      {object}  ports.BatchReport
// @Failure      403      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /v1/certificates/batch [post]
func (h *CertificateHandler) RunBatch(c echo.Context) error {
	dryRun, err := parseBool(c.QueryParam("dry_run"))
	if err != nil {
		return domain.NewFieldError("dry_run", "must be a boolean")
	}
	report, err := h.certificates.RunBatch(c.Request().Context(), dryRun)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
