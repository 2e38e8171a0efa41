// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"stampmarket/internal/util"

	"github.com/go-playground/validator/v10"
)

// DefaultTimeout bounds request handling across the router.
const DefaultTimeout = 30 * time.Second

// validate is the shared request validator. Handlers declare constraints
// as struct tags on their request types.
var validate = validator.New(validator.WithRequiredStructEnabled())

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error onto an HTTP status. Unrecognized
// errors stay opaque: a 500 with no detail, so partial-state internals
// never leak to the caller.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrWalletNotFound),
		util.IsError(err, util.ErrOrderNotFound), util.IsError(err, util.ErrProductNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrNotAuthorized):
		statusCode = http.StatusForbidden
		message = "Not authorized"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds"
	case util.IsError(err, util.ErrInsufficientStock):
		statusCode = http.StatusConflict
		message = "Insufficient stock"
	case util.IsError(err, util.ErrInvalidTransition):
		statusCode = http.StatusConflict
		message = "Invalid order status transition"
	case util.IsError(err, util.ErrEventFull):
		statusCode = http.StatusConflict
		message = "Event is at capacity"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Already processed"
	case util.IsError(err, util.ErrInvalidSignature):
		statusCode = http.StatusUnauthorized
		message = "Invalid payment signature"
	case util.IsError(err, util.ErrGatewayUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "Payment gateway not configured"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}

// decodeAndValidate decodes the request body into dst and runs the shared
// validator over it.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	if err := validate.Struct(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}

// parseID parses a positive int64 path or query parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// parsePagination reads limit/offset query parameters with defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
