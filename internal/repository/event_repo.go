// internal/repository/event_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"
)

// EventRepository defines the interface for event and RSVP data operations.
type EventRepository interface {
	Create(ctx context.Context, q DBExecutor, event *domain.Event) error
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Event, error)
	List(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Event, int64, error)
	Update(ctx context.Context, q DBExecutor, event *domain.Event) error
	Delete(ctx context.Context, q DBExecutor, id int64) error
	// UpsertRSVP records attendance. One record per (user, event);
	// re-submitting updates the status.
	UpsertRSVP(ctx context.Context, q DBExecutor, rsvp *domain.RSVP) error
	CountGoing(ctx context.Context, q DBExecutor, eventID int64) (int64, error)
	ListRSVPs(ctx context.Context, q DBExecutor, eventID int64) ([]domain.RSVP, error)
}
