// internal/api/handler/event.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"stampmarket/internal/api/types"
	"stampmarket/internal/domain"
	"stampmarket/internal/service"
	"stampmarket/internal/util"

	"github.com/go-chi/chi/v5"
)

// EventHandler handles HTTP requests for club events and RSVPs.
type EventHandler struct {
	events service.EventService
	logger *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// EventRequest represents the request body for creating or updating an event.
type EventRequest struct {
	Title    string    `json:"title" validate:"required,min=3,max=200"`
	Location string    `json:"location" validate:"required,max=300"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	Capacity int       `json:"capacity" validate:"gte=0"`
}

func (r EventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:    r.Title,
		Location: r.Location,
		StartsAt: r.StartsAt,
		Capacity: r.Capacity,
	}
}

// CreateEvent handles POST /admin/events.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req EventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	event, err := h.events.CreateEvent(r.Context(), identity, req.toInput())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, event)
}

// UpdateEvent handles PUT /admin/events/{id}.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req EventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	event, err := h.events.UpdateEvent(r.Context(), identity, id, req.toInput())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, event)
}

// DeleteEvent handles DELETE /admin/events/{id}.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.events.DeleteEvent(r.Context(), identity, id); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// GetEvent handles GET /events/{id}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, event)
}

// ListEvents handles GET /events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	events, total, err := h.events.ListEvents(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Event]{
		Data:       events,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// RSVPRequest represents the request body for responding to an event.
type RSVPRequest struct {
	Status string `json:"status" validate:"required"`
}

// RSVP handles POST /events/{id}/rsvp.
func (h *EventHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	eventID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req RSVPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	status := domain.RSVPStatus(req.Status)
	if !status.Valid() {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	rsvp, err := h.events.RSVP(r.Context(), identity, eventID, status)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, rsvp)
}

// ListAttendees handles GET /events/{id}/attendees.
func (h *EventHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	attendees, err := h.events.ListAttendees(r.Context(), eventID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, attendees)
}
