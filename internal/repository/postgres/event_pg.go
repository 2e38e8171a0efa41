// internal/repository/postgres/event_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/jmoiron/sqlx"
)

// EventRepository implements repository.EventRepository for PostgreSQL.
type EventRepository struct{}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sqlx.DB) repository.EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) Create(ctx context.Context, q repository.DBExecutor, event *domain.Event) error {
	query := `INSERT INTO events (title, location, starts_at, capacity, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		event.Title, event.Location, event.StartsAt, event.Capacity, event.CreatedBy,
		event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Event, error) {
	var event domain.Event
	query := `SELECT id, title, location, starts_at, capacity, created_by, created_at, updated_at
              FROM events WHERE id = $1`
	if err := q.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Event, int64, error) {
	events := []domain.Event{}
	query := `SELECT id, title, location, starts_at, capacity, created_by, created_at, updated_at
              FROM events ORDER BY starts_at ASC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &events, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM events`); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}
	return events, totalCount, nil
}

func (r *EventRepository) Update(ctx context.Context, q repository.DBExecutor, event *domain.Event) error {
	query := `UPDATE events SET title = $1, location = $2, starts_at = $3, capacity = $4, updated_at = $5
              WHERE id = $6`
	result, err := q.ExecContext(ctx, query,
		event.Title, event.Location, event.StartsAt, event.Capacity, time.Now().UTC(), event.ID)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating event %d: %w", event.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting event %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpsertRSVP records attendance. The unique (event_id, user_id) constraint
// turns a re-submission into a status update.
func (r *EventRepository) UpsertRSVP(ctx context.Context, q repository.DBExecutor, rsvp *domain.RSVP) error {
	now := time.Now().UTC()
	query := `INSERT INTO rsvps (event_id, user_id, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $4)
              ON CONFLICT (event_id, user_id)
              DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
              RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, rsvp.EventID, rsvp.UserID, rsvp.Status, now).
		Scan(&rsvp.ID, &rsvp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp for event %d user %d: %w", rsvp.EventID, rsvp.UserID, err)
	}
	rsvp.UpdatedAt = now
	return nil
}

func (r *EventRepository) CountGoing(ctx context.Context, q repository.DBExecutor, eventID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND status = $2`
	if err := q.GetContext(ctx, &count, query, eventID, domain.RSVPGoing); err != nil {
		return 0, fmt.Errorf("failed to count attendees for event %d: %w", eventID, err)
	}
	return count, nil
}

func (r *EventRepository) ListRSVPs(ctx context.Context, q repository.DBExecutor, eventID int64) ([]domain.RSVP, error) {
	rsvps := []domain.RSVP{}
	query := `SELECT id, event_id, user_id, status, created_at, updated_at
              FROM rsvps WHERE event_id = $1 ORDER BY created_at ASC`
	if err := q.SelectContext(ctx, &rsvps, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to list rsvps for event %d: %w", eventID, err)
	}
	return rsvps, nil
}
