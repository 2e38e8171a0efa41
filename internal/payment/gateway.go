// internal/payment/gateway.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/service"
	"stampmarket/internal/util"
	"stampmarket/pkg/db"

	"github.com/shopspring/decimal"
)

// Gateway is the payment confirmation adapter. It verifies a signed
// confirmation from the external gateway before crediting the wallet.
// It is constructed once at process start and injected; there is no
// module-level instance. An empty secret leaves the gateway unconfigured:
// every call then fails with ErrGatewayUnavailable instead of crashing.
type Gateway struct {
	secret     []byte
	chargeTTL  time.Duration
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	chargeRepo repository.ChargeRepository
	wallets    service.WalletService
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// NewGateway creates a new Gateway. secret may be empty, producing an
// unconfigured gateway.
func NewGateway(
	secret string,
	chargeTTL time.Duration,
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	chargeRepo repository.ChargeRepository,
	wallets service.WalletService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) *Gateway {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Gateway{
		secret:     key,
		chargeTTL:  chargeTTL,
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		chargeRepo: chargeRepo,
		wallets:    wallets,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// Configured reports whether a signing secret is set.
func (g *Gateway) Configured() bool {
	return len(g.secret) > 0
}

// Sign computes the hex HMAC-SHA256 confirmation signature for a charge
// reference and gateway payment id. Exposed for tests and local tooling.
func (g *Gateway) Sign(chargeRef, paymentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(chargeRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePendingCharge opens a charge awaiting external confirmation and
// returns it with its opaque reference.
func (g *Gateway) CreatePendingCharge(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Charge, error) {
	if !g.Configured() {
		return nil, util.ErrGatewayUnavailable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidAmount
	}

	charge := domain.NewCharge(userID, amount, g.chargeTTL)
	if err := g.chargeRepo.Create(ctx, g.dbExecutor, charge); err != nil {
		return nil, fmt.Errorf("create pending charge: %w", err)
	}
	return charge, nil
}

// VerifyAndCredit checks the gateway's confirmation signature in constant
// time and, on a match, confirms the charge and credits the wallet in one
// transaction. A signature mismatch performs no mutation at all.
func (g *Gateway) VerifyAndCredit(ctx context.Context, chargeRef, paymentID, signature string, amount decimal.Decimal) (*domain.Wallet, *domain.LedgerEntry, error) {
	if !g.Configured() {
		return nil, nil, util.ErrGatewayUnavailable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	expected := g.Sign(chargeRef, paymentID)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, nil, util.ErrInvalidSignature
	}

	txController, err := g.beginTx(ctx, g.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("verify and credit: failed to begin transaction: %w", err)
	}
	defer g.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("verify and credit: transaction controller does not implement DBExecutor")
	}

	charge, err := g.chargeRepo.GetByReference(ctx, txExecutor, chargeRef)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrNotFound
		}
		return nil, nil, fmt.Errorf("verify and credit: failed to load charge: %w", err)
	}
	if !charge.Amount.Equal(amount) {
		return nil, nil, fmt.Errorf("verify and credit: confirmed amount does not match charge: %w", util.ErrInvalidInput)
	}
	// The background sweep lags; confirmations racing it are caught here.
	if time.Now().UTC().After(charge.ExpiresAt) {
		return nil, nil, fmt.Errorf("charge '%s' expired: %w", chargeRef, util.ErrDuplicateEntry)
	}

	// The conditional confirm is the replay guard: a second confirmation of
	// the same charge fails here and credits nothing.
	confirmed, err := g.chargeRepo.MarkConfirmed(ctx, txExecutor, chargeRef)
	if err != nil {
		return nil, nil, fmt.Errorf("verify and credit: failed to confirm charge: %w", err)
	}
	if !confirmed {
		return nil, nil, fmt.Errorf("charge '%s' already processed or expired: %w", chargeRef, util.ErrDuplicateEntry)
	}

	description := fmt.Sprintf("Wallet top-up, payment %s", paymentID)
	wallet, entry, err := g.wallets.CreditTx(ctx, txExecutor, charge.UserID, amount, description, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("verify and credit: failed to credit wallet: %w", err)
	}

	if err := g.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("verify and credit: failed to commit transaction: %w", err)
	}

	g.logger.Info("charge confirmed", "reference", chargeRef, "user_id", charge.UserID, "amount", amount)
	return wallet, entry, nil
}

// ExpireStale fails pending charges whose TTL elapsed. Called periodically
// by the background worker.
func (g *Gateway) ExpireStale(ctx context.Context) (int64, error) {
	expired, err := g.chargeRepo.ExpireOlderThan(ctx, g.dbExecutor, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire stale charges: %w", err)
	}
	if expired > 0 {
		g.logger.Info("expired stale charges", "count", expired)
	}
	return expired, nil
}
