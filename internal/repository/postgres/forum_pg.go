// internal/repository/postgres/forum_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/jmoiron/sqlx"
)

// ForumRepository implements repository.ForumRepository for PostgreSQL.
type ForumRepository struct{}

// NewForumRepository creates a new ForumRepository.
func NewForumRepository(db *sqlx.DB) repository.ForumRepository {
	return &ForumRepository{}
}

func (r *ForumRepository) CreateThread(ctx context.Context, q repository.DBExecutor, thread *domain.Thread) error {
	query := `INSERT INTO threads (author_id, title, slug, body, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		thread.AuthorID, thread.Title, thread.Slug, thread.Body, thread.CreatedAt, thread.UpdatedAt,
	).Scan(&thread.ID)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

func (r *ForumRepository) GetThreadByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Thread, error) {
	var thread domain.Thread
	query := `SELECT id, author_id, title, slug, body, created_at, updated_at FROM threads WHERE id = $1`
	if err := q.GetContext(ctx, &thread, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread %d: %w", id, err)
	}
	return &thread, nil
}

func (r *ForumRepository) ListThreads(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Thread, int64, error) {
	threads := []domain.Thread{}
	query := `SELECT id, author_id, title, slug, body, created_at, updated_at
              FROM threads ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &threads, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list threads: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM threads`); err != nil {
		return nil, 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return threads, totalCount, nil
}

func (r *ForumRepository) DeleteThread(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thread %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting thread %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *ForumRepository) CreateReply(ctx context.Context, q repository.DBExecutor, reply *domain.Reply) error {
	query := `INSERT INTO replies (thread_id, author_id, body, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, reply.ThreadID, reply.AuthorID, reply.Body, reply.CreatedAt).Scan(&reply.ID)
	if err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

func (r *ForumRepository) ListReplies(ctx context.Context, q repository.DBExecutor, threadID int64, limit, offset int) ([]domain.Reply, int64, error) {
	replies := []domain.Reply{}
	query := `SELECT id, thread_id, author_id, body, created_at
              FROM replies WHERE thread_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &replies, query, threadID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list replies for thread %d: %w", threadID, err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM replies WHERE thread_id = $1`, threadID); err != nil {
		return nil, 0, fmt.Errorf("failed to count replies for thread %d: %w", threadID, err)
	}
	return replies, totalCount, nil
}

func (r *ForumRepository) GetReplyByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Reply, error) {
	var reply domain.Reply
	query := `SELECT id, thread_id, author_id, body, created_at FROM replies WHERE id = $1`
	if err := q.GetContext(ctx, &reply, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reply %d: %w", id, err)
	}
	return &reply, nil
}

func (r *ForumRepository) DeleteReply(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM replies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reply %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting reply %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
