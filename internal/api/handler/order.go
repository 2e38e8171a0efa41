// internal/api/handler/order.go
package handler

import (
	"log/slog"
	"net/http"

	"stampmarket/internal/api/types"
	"stampmarket/internal/domain"
	"stampmarket/internal/service"

	"github.com/go-chi/chi/v5"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	service service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

// PlaceOrderRequest represents the request body for order placement.
// Prices are deliberately absent: the engine derives the total from the
// live catalog.
type PlaceOrderRequest struct {
	Items []struct {
		ProductID int64 `json:"product_id" validate:"required,gt=0"`
		Quantity  int   `json:"quantity" validate:"required,gte=1"`
	} `json:"items" validate:"required,min=1,dive"`
	ShippingAddress struct {
		Street     string `json:"street" validate:"required"`
		City       string `json:"city" validate:"required"`
		State      string `json:"state" validate:"required"`
		PostalCode string `json:"postal_code" validate:"required"`
	} `json:"shipping_address" validate:"required"`
}

// PlaceOrder handles order placement.
// POST /orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req PlaceOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	address := domain.ShippingAddress{
		Street:     req.ShippingAddress.Street,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		PostalCode: req.ShippingAddress.PostalCode,
	}

	order, err := h.service.PlaceOrder(r.Context(), identity.UserID, lines, address)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, order)
}

// GetOrder handles single-order retrieval.
// GET /orders/{orderNumber}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.service.GetOrder(r.Context(), orderNumber, identity)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, order)
}

// ListMyOrders handles the caller's own order history.
// GET /orders
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	limit, offset := parsePagination(r)

	orders, totalCount, err := h.service.ListOrdersForUser(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Order]{
		Data:       orders,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// CancelOrder handles cancellation by the owner or an administrator.
// POST /orders/{orderNumber}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.service.CancelOrder(r.Context(), orderNumber, identity)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Order cancelled",
		"order":   order,
	})
}

// UpdateStatusRequest represents the request body for an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles administrative status changes.
// PUT /admin/orders/{orderNumber}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	orderNumber := chi.URLParam(r, "orderNumber")

	var req UpdateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), orderNumber, domain.OrderStatus(req.Status), identity)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, order)
}

// ListAll handles the admin view over all orders with an optional status filter.
// GET /admin/orders?status=pending
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())
	limit, offset := parsePagination(r)

	var statusFilter *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		statusFilter = &status
	}

	orders, totalCount, err := h.service.ListAllOrders(r.Context(), statusFilter, limit, offset, identity)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Order]{
		Data:       orders,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
