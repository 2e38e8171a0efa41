// internal/service/event_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"
)

// EventInput carries the writable event fields.
type EventInput struct {
	Title    string
	Location string
	StartsAt time.Time
	Capacity int
}

// EventService defines event and RSVP business logic.
type EventService interface {
	CreateEvent(ctx context.Context, actor domain.Identity, input EventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, actor domain.Identity, id int64, input EventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, actor domain.Identity, id int64) error
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, int64, error)
	// RSVP upserts the caller's attendance; going RSVPs are bounded by the
	// event capacity when one is set.
	RSVP(ctx context.Context, actor domain.Identity, eventID int64, status domain.RSVPStatus) (*domain.RSVP, error)
	ListAttendees(ctx context.Context, eventID int64) ([]domain.RSVP, error)
}

type eventService struct {
	dbExecutor repository.DBExecutor
	eventRepo  repository.EventRepository
}

// NewEventService creates a new instance of EventService.
func NewEventService(dbExecutor repository.DBExecutor, eventRepo repository.EventRepository) EventService {
	return &eventService{dbExecutor: dbExecutor, eventRepo: eventRepo}
}

func validateEventInput(input EventInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("event title is required: %w", util.ErrInvalidInput)
	}
	if input.StartsAt.IsZero() {
		return fmt.Errorf("event start time is required: %w", util.ErrInvalidInput)
	}
	if input.Capacity < 0 {
		return fmt.Errorf("event capacity must not be negative: %w", util.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, actor domain.Identity, input EventInput) (*domain.Event, error) {
	if !actor.Role.IsAdmin() {
		return nil, util.ErrNotAuthorized
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:     input.Title,
		Location:  input.Location,
		StartsAt:  input.StartsAt,
		Capacity:  input.Capacity,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.eventRepo.Create(ctx, s.dbExecutor, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor domain.Identity, id int64, input EventInput) (*domain.Event, error) {
	if !actor.Role.IsAdmin() {
		return nil, util.ErrNotAuthorized
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, err
	}
	event.Title = input.Title
	event.Location = input.Location
	event.StartsAt = input.StartsAt
	event.Capacity = input.Capacity

	if err := s.eventRepo.Update(ctx, s.dbExecutor, event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Identity, id int64) error {
	if !actor.Role.IsAdmin() {
		return util.ErrNotAuthorized
	}
	return s.eventRepo.Delete(ctx, s.dbExecutor, id)
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, s.dbExecutor, id)
}

func (s *eventService) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, int64, error) {
	return s.eventRepo.List(ctx, s.dbExecutor, limit, offset)
}

func (s *eventService) RSVP(ctx context.Context, actor domain.Identity, eventID int64, status domain.RSVPStatus) (*domain.RSVP, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown rsvp status '%s': %w", status, util.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, s.dbExecutor, eventID)
	if err != nil {
		return nil, err
	}

	if status == domain.RSVPGoing && event.Capacity > 0 {
		going, err := s.eventRepo.CountGoing(ctx, s.dbExecutor, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to check event capacity: %w", err)
		}
		if going >= int64(event.Capacity) {
			return nil, util.ErrEventFull
		}
	}

	rsvp := &domain.RSVP{
		EventID: eventID,
		UserID:  actor.UserID,
		Status:  status,
	}
	if err := s.eventRepo.UpsertRSVP(ctx, s.dbExecutor, rsvp); err != nil {
		return nil, fmt.Errorf("failed to record rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *eventService) ListAttendees(ctx context.Context, eventID int64) ([]domain.RSVP, error) {
	if _, err := s.eventRepo.GetByID(ctx, s.dbExecutor, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListRSVPs(ctx, s.dbExecutor, eventID)
}
