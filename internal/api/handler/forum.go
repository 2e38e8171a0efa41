// internal/api/handler/forum.go
package handler

import (
	"log/slog"
	"net/http"

	"stampmarket/internal/api/types"
	"stampmarket/internal/domain"
	"stampmarket/internal/service"

	"github.com/go-chi/chi/v5"
)

// ForumHandler handles HTTP requests for discussion threads and replies.
type ForumHandler struct {
	forum  service.ForumService
	logger *slog.Logger
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(forum service.ForumService, logger *slog.Logger) *ForumHandler {
	return &ForumHandler{forum: forum, logger: logger}
}

// CreateThreadRequest represents the request body for opening a thread.
type CreateThreadRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
	Body  string `json:"body" validate:"required,min=1,max=10000"`
}

// CreateThread handles POST /forum/threads.
func (h *ForumHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req CreateThreadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	thread, err := h.forum.CreateThread(r.Context(), identity, req.Title, req.Body)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, thread)
}

// GetThread handles GET /forum/threads/{id}.
func (h *ForumHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	thread, err := h.forum.GetThread(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, thread)
}

// ListThreads handles GET /forum/threads.
func (h *ForumHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	threads, total, err := h.forum.ListThreads(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Thread]{
		Data:       threads,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// DeleteThread handles DELETE /forum/threads/{id}.
func (h *ForumHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.forum.DeleteThread(r.Context(), identity, id); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Thread deleted"})
}

// AddReplyRequest represents the request body for replying to a thread.
type AddReplyRequest struct {
	Body string `json:"body" validate:"required,min=1,max=10000"`
}

// AddReply handles POST /forum/threads/{id}/replies.
func (h *ForumHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	threadID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req AddReplyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	reply, err := h.forum.AddReply(r.Context(), identity, threadID, req.Body)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, reply)
}

// ListReplies handles GET /forum/threads/{id}/replies.
func (h *ForumHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	threadID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	limit, offset := parsePagination(r)

	replies, total, err := h.forum.ListReplies(r.Context(), threadID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Reply]{
		Data:       replies,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// DeleteReply handles DELETE /forum/replies/{id}.
func (h *ForumHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.forum.DeleteReply(r.Context(), identity, id); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Reply deleted"})
}
