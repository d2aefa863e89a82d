package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

const maxBannerSize = 5 << 20

// EventHandler serves the event catalogue.
type EventHandler struct {
	events ports.EventService
}

func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /v1/events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        type   query     string  false  "seminar, talk, workshop or course"
// @Param        q      query     string  false  "Search in title, description and location"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 20, max 100)"
// @Success      200    {object}  listEventsResponse
// @Failure      422    {object}  errorResponse
// @Failure      429    {object}  errorResponse
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := domain.EventFilter{
		Type:  domain.EventType(c.QueryParam("type")),
		Query: strings.TrimSpace(c.QueryParam("q")),
		Page:  page,
		Limit: limit,
	}
	events, total, err := h.events.List(c.Request().Context(), optionalUserID(c), filter, c.RealIP())
	if err != nil {
		return err
	}

	data := make([]eventResponse, 0, len(events))
	for i := range events {
		data = append(data, toEventResponse(&events[i].Event, events[i].Registered))
	}
	return c.JSON(http.StatusOK, listEventsResponse{
		Data:       data,
		Pagination: newPagination(total, page, limit),
	})
}

// Get handles GET /v1/events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	summary, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(&summary.Event, summary.Registered))
}

// Create handles POST /v1/events.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body    body      eventRequest  true   "Event"
// @Param        banner  formData  file          false  "Banner image"
// @Success      201     {object}  eventResponse
// @Failure      403     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	in, err := bindEventInput(c)
	if err != nil {
		return err
	}

	event, err := h.events.Create(c.Request().Context(), userID, in, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(event, 0))
}

// Update handles PUT /v1/events/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Event ID"
// @Param        body  body      eventRequest  true  "Event"
// @Success      200   {object}  eventResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	in, err := bindEventInput(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	event, err := h.events.Update(ctx, userID, c.Param("id"), in, c.RealIP())
	if err != nil {
		return err
	}
	summary, err := h.events.Get(ctx, event.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(&summary.Event, summary.Registered))
}

// Delete handles DELETE /v1/events/:id.
//
// @Summary      Delete an event
// @Tags         events
// @Security     BearerAuth
// @Param        id  path  string  true  "Event ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Request().Context(), userID, c.Param("id"), c.RealIP()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindEventInput binds and validates an eventRequest and reads the optional
// banner upload.
func bindEventInput(c echo.Context) (ports.EventInput, error) {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return ports.EventInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.EventInput{}, err
	}

	verr := &domain.ValidationError{}
	in := ports.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Location:     req.Location,
		Capacity:     req.Capacity,
		InstructorID: req.InstructorID,
	}
	var err error
	if in.StartDate, err = domain.ParseDate(req.StartDate); err != nil {
		verr.Add("start_date", err.Error())
	}
	if in.EndDate, err = domain.ParseDate(req.EndDate); err != nil {
		verr.Add("end_date", err.Error())
	}
	in.StartTime = parseOptionalClock(verr, "start_time", req.StartTime)
	in.EndTime = parseOptionalClock(verr, "end_time", req.EndTime)
	if err := verr.OrNil(); err != nil {
		return ports.EventInput{}, err
	}

	banner, name, err := readBanner(c)
	if err != nil {
		return ports.EventInput{}, err
	}
	in.Banner, in.BannerName = banner, name
	return in, nil
}

func parseOptionalClock(verr *domain.ValidationError, field, s string) *domain.ClockTime {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	ct, err := domain.ParseClock(s)
	if err != nil {
		verr.Add(field, err.Error())
		return nil
	}
	return &ct
}

// readBanner returns the "banner" form file of a multipart request, if any.
func readBanner(c echo.Context) ([]byte, string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, "", nil
	}
	fh, err := c.FormFile("banner")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid banner upload")
	}
	if fh.Size > maxBannerSize {
		return nil, "", domain.NewFieldError("banner", "image must be at most 5 MB")
	}
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, "", domain.NewFieldError("banner", "file must be an image")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid banner upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBannerSize+1))
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid banner upload")
	}
	return data, fh.Filename, nil
}
