// internal/repository/forum_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"
)

// ForumRepository defines the interface for forum data operations.
type ForumRepository interface {
	CreateThread(ctx context.Context, q DBExecutor, thread *domain.Thread) error
	GetThreadByID(ctx context.Context, q DBExecutor, id int64) (*domain.Thread, error)
	ListThreads(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Thread, int64, error)
	DeleteThread(ctx context.Context, q DBExecutor, id int64) error
	CreateReply(ctx context.Context, q DBExecutor, reply *domain.Reply) error
	ListReplies(ctx context.Context, q DBExecutor, threadID int64, limit, offset int) ([]domain.Reply, int64, error)
	DeleteReply(ctx context.Context, q DBExecutor, id int64) error
	GetReplyByID(ctx context.Context, q DBExecutor, id int64) (*domain.Reply, error)
}
