// internal/service/forum_service.go
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

// ForumService defines forum business logic.
type ForumService interface {
	CreateThread(ctx context.Context, actor domain.Identity, title, body string) (*domain.Thread, error)
	GetThread(ctx context.Context, id int64) (*domain.Thread, error)
	ListThreads(ctx context.Context, limit, offset int) ([]domain.Thread, int64, error)
	DeleteThread(ctx context.Context, actor domain.Identity, id int64) error
	AddReply(ctx context.Context, actor domain.Identity, threadID int64, body string) (*domain.Reply, error)
	ListReplies(ctx context.Context, threadID int64, limit, offset int) ([]domain.Reply, int64, error)
	DeleteReply(ctx context.Context, actor domain.Identity, id int64) error
}

type forumService struct {
	dbExecutor repository.DBExecutor
	forumRepo  repository.ForumRepository
}

// NewForumService creates a new instance of ForumService.
func NewForumService(dbExecutor repository.DBExecutor, forumRepo repository.ForumRepository) ForumService {
	return &forumService{dbExecutor: dbExecutor, forumRepo: forumRepo}
}

func (s *forumService) CreateThread(ctx context.Context, actor domain.Identity, title, body string) (*domain.Thread, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("thread title and body are required: %w", util.ErrInvalidInput)
	}
	thread := domain.NewThread(actor.UserID, title, body)
	if err := s.forumRepo.CreateThread(ctx, s.dbExecutor, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return thread, nil
}

func (s *forumService) GetThread(ctx context.Context, id int64) (*domain.Thread, error) {
	return s.forumRepo.GetThreadByID(ctx, s.dbExecutor, id)
}

func (s *forumService) ListThreads(ctx context.Context, limit, offset int) ([]domain.Thread, int64, error) {
	return s.forumRepo.ListThreads(ctx, s.dbExecutor, limit, offset)
}

// DeleteThread removes a thread. Only its author or an administrator may.
func (s *forumService) DeleteThread(ctx context.Context, actor domain.Identity, id int64) error {
	thread, err := s.forumRepo.GetThreadByID(ctx, s.dbExecutor, id)
	if err != nil {
		return err
	}
	if thread.AuthorID != actor.UserID && !actor.Role.IsAdmin() {
		return util.ErrNotAuthorized
	}
	return s.forumRepo.DeleteThread(ctx, s.dbExecutor, id)
}

func (s *forumService) AddReply(ctx context.Context, actor domain.Identity, threadID int64, body string) (*domain.Reply, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("reply body is required: %w", util.ErrInvalidInput)
	}
	if _, err := s.forumRepo.GetThreadByID(ctx, s.dbExecutor, threadID); err != nil {
		return nil, err
	}
	reply := &domain.Reply{
		ThreadID:  threadID,
		AuthorID:  actor.UserID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.forumRepo.CreateReply(ctx, s.dbExecutor, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return reply, nil
}

func (s *forumService) ListReplies(ctx context.Context, threadID int64, limit, offset int) ([]domain.Reply, int64, error) {
	return s.forumRepo.ListReplies(ctx, s.dbExecutor, threadID, limit, offset)
}

func (s *forumService) DeleteReply(ctx context.Context, actor domain.Identity, id int64) error {
	reply, err := s.forumRepo.GetReplyByID(ctx, s.dbExecutor, id)
	if err != nil {
		return err
	}
	if reply.AuthorID != actor.UserID && !actor.Role.IsAdmin() {
		return util.ErrNotAuthorized
	}
	return s.forumRepo.DeleteReply(ctx, s.dbExecutor, id)
}
