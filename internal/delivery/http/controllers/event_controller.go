package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "eventfinder/internal/delivery/http/helpers"
	"eventfinder/internal/delivery/http/middleware"
	"eventfinder/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Latitude and longitude
// are optional but must be given together; when absent the location is geocoded.
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=255" example:"Go Meetup"`
	Date        *time.Time `json:"date" validate:"required" example:"2025-08-26T19:00:00Z"`
	Location    string     `json:"location" validate:"required,max=255" example:"Lviv, Narodna 14"`
	Category    string     `json:"category" validate:"required,category" example:"TECHNOLOGY"`
	Description string     `json:"description" example:"Monthly talks"`
	Latitude    *float64   `json:"latitude" validate:"omitempty,latitude" example:"49.8397"`
	Longitude   *float64   `json:"longitude" validate:"omitempty,longitude" example:"24.0297"`
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	return coordinatePair(c.Latitude, c.Longitude)
}

func (c CreateEventRequest) toInput() domain.EventInput {
	return domain.EventInput{
		Title:       c.Title,
		Date:        *c.Date,
		Location:    c.Location,
		Category:    domain.Category(c.Category),
		Description: c.Description,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}

// UpdateEventRequest is the request body for PUT /events/{id}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Category    *string    `json:"category" validate:"omitempty,category"`
	Description *string    `json:"description"`
	Latitude    *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64   `json:"longitude" validate:"omitempty,longitude"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	return coordinatePair(u.Latitude, u.Longitude)
}

func (u UpdateEventRequest) toPatch() domain.EventPatch {
	p := domain.EventPatch{
		Title:       u.Title,
		Date:        u.Date,
		Location:    u.Location,
		Description: u.Description,
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
	}
	if u.Category != nil {
		c := domain.Category(*u.Category)
		p.Category = &c
	}
	return p
}

func coordinatePair(lat, lng *float64) []string {
	if (lat == nil) != (lng == nil) {
		return []string{"latitude and longitude must be provided together"}
	}
	return nil
}

// EventPage is a page of events with pagination metadata.
// swagger:model EventPage
type EventPage = domain.Page[*domain.Event]

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List events
// @Description Filters, sorts and paginates events. onlyMy=true restricts the list to the caller's events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Param category query string false "Category" Enums(TECHNOLOGY, MUSIC, SPORTS, ART, BUSINESS, EDUCATION, HEALTH, OTHER)
// @Param search query string false "Case-insensitive title substring"
// @Param page query int false "Page (>= 1)" default(1)
// @Param limit query int false "Page size (>= 1)" default(10)
// @Param sortBy query string false "Sort field" Enums(date, title) default(date)
// @Param order query string false "Sort direction" Enums(ASC, DESC) default(ASC)
// @Param onlyMy query bool false "Only the caller's events"
// @Success 200 {object} controllers.EventPage
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, h.MsgUnauthorized)
		return
	}
	q, err := h.ParseListEventsQuery(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	page, err := c.Service.FindAll(r.Context(), q, user.ID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// Get godoc
// @Summary Get an event
// @Description Returns one event together with its owner.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	event, err := c.Service.FindOne(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, event)
}

// Similar godoc
// @Summary Similar events
// @Description Events sharing the category, the exact date, or lying within 50 km of the given event (nearest first).
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param by query string false "Similarity" Enums(category, location, date) default(category)
// @Param page query int false "Page (>= 1)" default(1)
// @Param limit query int false "Page size (>= 1)" default(10)
// @Success 200 {object} controllers.EventPage
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "event missing or, for location, without coordinates"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id}/similar [get]
func (c *EventController) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	q, err := h.ParseSimilarQuery(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	page, err := c.Service.FindSimilar(r.Context(), id, q)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// Create godoc
// @Summary Create an event
// @Description The caller becomes the owner. Without latitude/longitude the location is geocoded; a failed lookup leaves them null.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, h.MsgUnauthorized)
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), req.toInput(), user)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Description Partial update by the owner or an admin. A new location without coordinates is geocoded again.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, ok := c.loadTarget(w, r)
	if !ok {
		return
	}
	updated, err := c.Service.Update(r.Context(), event, req.toPatch())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes the event and returns it as it was. Owner or admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := c.loadTarget(w, r)
	if !ok {
		return
	}
	removed, err := c.Service.Remove(r.Context(), event)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, removed)
}

// loadTarget returns the event checked by the ownership middleware, or loads it
// when the middleware let an admin through without reading it.
func (c *EventController) loadTarget(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	if event, ok := middleware.EventFromContext(r.Context()); ok {
		return event, true
	}
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return nil, false
	}
	event, err := c.Service.FindOne(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return nil, false
	}
	return event, true
}
