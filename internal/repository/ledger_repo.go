// internal/repository/ledger_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"
)

// LedgerRepository defines the interface for the append-only ledger.
// There are deliberately no update or delete operations: corrections are
// new offsetting entries.
type LedgerRepository interface {
	// Append adds a new ledger entry using the provided DBExecutor.
	Append(ctx context.Context, q DBExecutor, entry *domain.LedgerEntry) error
	// ListByUserID retrieves a user's entries newest first, paginated,
	// along with the total count.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)
}
