// internal/domain/forum.go
package domain

import (
	"time"

	"github.com/gosimple/slug"
)

// Thread is a forum discussion thread.
type Thread struct {
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewThread creates a Thread with a URL slug derived from its title.
func NewThread(authorID int64, title, body string) *Thread {
	now := time.Now().UTC()
	return &Thread{
		AuthorID:  authorID,
		Title:     title,
		Slug:      slug.Make(title),
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reply is a post within a thread.
type Reply struct {
	ID        int64     `db:"id" json:"id"`
	ThreadID  int64     `db:"thread_id" json:"thread_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
