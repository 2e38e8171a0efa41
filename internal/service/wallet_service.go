// internal/service/wallet_service.go
package service

import (
	"context"
	"fmt"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"
	"stampmarket/pkg/db"

	"github.com/shopspring/decimal"
)

// WalletService defines the interface for wallet-related business logic.
// Every balance mutation goes through Credit or Debit (or their Tx
// variants), each of which appends exactly one ledger entry inside the
// same database transaction as the balance change.
type WalletService interface {
	GetBalance(ctx context.Context, userID int64) (*domain.Wallet, error)
	Credit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error)
	Debit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)

	// CreditTx and DebitTx apply the mutation on the caller's executor so
	// the order engine and the payment gateway can fold wallet mutations
	// into their own transactions. The returned entry carries the
	// post-mutation balance snapshot.
	CreditTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error)
	DebitTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	walletRepo repository.WalletRepository
	ledgerRepo repository.LedgerRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WalletService {
	return &walletService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// GetBalance returns the user's wallet, lazily creating it on first access.
func (s *walletService) GetBalance(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetOrCreateByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

// ListTransactions retrieves a paginated list of a user's ledger entries.
func (s *walletService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	entries, totalCount, err := s.ledgerRepo.ListByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve ledger history: %w", err)
	}
	return entries, totalCount, nil
}

// Credit adds money to a user's wallet in its own transaction.
func (s *walletService) Credit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("credit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("credit: transaction controller does not implement DBExecutor")
	}

	wallet, entry, err := s.CreditTx(ctx, txExecutor, userID, amount, description, orderNumber)
	if err != nil {
		return nil, nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("credit: failed to commit transaction: %w", err)
	}
	return wallet, entry, nil
}

// Debit takes money from a user's wallet in its own transaction.
func (s *walletService) Debit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("debit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("debit: transaction controller does not implement DBExecutor")
	}

	wallet, entry, err := s.DebitTx(ctx, txExecutor, userID, amount, description, orderNumber)
	if err != nil {
		return nil, nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("debit: failed to commit transaction: %w", err)
	}
	return wallet, entry, nil
}

// CreditTx applies a credit on the caller's executor. The wallet row is
// locked first so concurrent mutations on the same user serialize and the
// ledger entry's balance snapshot stays exact.
func (s *walletService) CreditTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	if _, err := s.walletRepo.GetOrCreateByUserID(ctx, q, userID); err != nil {
		return nil, nil, fmt.Errorf("credit: failed to get wallet for user %d: %w", userID, err)
	}
	if _, err := s.walletRepo.GetByUserIDForUpdate(ctx, q, userID); err != nil {
		return nil, nil, fmt.Errorf("credit: failed to lock wallet for user %d: %w", userID, err)
	}

	if err := s.walletRepo.AdjustBalance(ctx, q, userID, amount); err != nil {
		return nil, nil, fmt.Errorf("credit: failed to update wallet balance: %w", err)
	}

	updatedWallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, q, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("credit: failed to re-fetch updated wallet for user %d: %w", userID, err)
	}

	entry := domain.NewLedgerEntry(userID, domain.LedgerKindCredit, amount, updatedWallet.Balance, description, orderNumber)
	if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
		return nil, nil, fmt.Errorf("credit: failed to append ledger entry: %w", err)
	}

	return updatedWallet, entry, nil
}

// DebitTx applies a debit on the caller's executor. It fails with
// ErrInsufficientFunds before touching anything when the balance cannot
// cover the amount.
func (s *walletService) DebitTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	if _, err := s.walletRepo.GetOrCreateByUserID(ctx, q, userID); err != nil {
		return nil, nil, fmt.Errorf("debit: failed to get wallet for user %d: %w", userID, err)
	}
	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, q, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("debit: failed to lock wallet for user %d: %w", userID, err)
	}

	if wallet.Balance.LessThan(amount) {
		return nil, nil, util.ErrInsufficientFunds
	}

	// The repository repeats the non-negative check inside the UPDATE, so a
	// lost race still cannot drive the balance below zero.
	if err := s.walletRepo.AdjustBalance(ctx, q, userID, amount.Neg()); err != nil {
		return nil, nil, fmt.Errorf("debit: failed to update wallet balance: %w", err)
	}

	updatedWallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, q, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("debit: failed to re-fetch updated wallet for user %d: %w", userID, err)
	}

	entry := domain.NewLedgerEntry(userID, domain.LedgerKindDebit, amount, updatedWallet.Balance, description, orderNumber)
	if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
		return nil, nil, fmt.Errorf("debit: failed to append ledger entry: %w", err)
	}

	return updatedWallet, entry, nil
}
