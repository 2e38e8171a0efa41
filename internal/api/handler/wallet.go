// internal/api/handler/wallet.go
package handler

import (
	"log/slog"
	"net/http"

	"stampmarket/internal/api/types"
	"stampmarket/internal/domain"
	"stampmarket/internal/service"
	"stampmarket/internal/util"

	"github.com/shopspring/decimal"
)

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	service service.WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{service: svc, logger: logger}
}

// GetBalance handles the get wallet balance request.
// GET /wallet/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	wallet, err := h.service.GetBalance(r.Context(), identity.UserID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user_id": wallet.UserID,
		"balance": wallet.Balance,
	})
}

// ListTransactions handles the ledger history request.
// GET /wallet/transactions
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	limit, offset := parsePagination(r)

	entries, totalCount, err := h.service.ListTransactions(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.LedgerEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// TopUpRequest represents the request body for a demo top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// TopUp handles the unsigned demo credit path. It bypasses the payment
// gateway entirely, so it is not eligible for trust-sensitive deployments.
// POST /wallet/topup
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req TopUpRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidAmount)
		return
	}

	wallet, entry, err := h.service.Credit(r.Context(), identity.UserID, req.Amount, "Demo top-up", nil)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":     "Top-up successful",
		"new_balance": wallet.Balance,
		"entry_id":    entry.ID,
	})
}
