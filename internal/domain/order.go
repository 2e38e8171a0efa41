// internal/domain/order.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the defined statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// PaymentStatus is the payment lifecycle state of an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ShippingAddress is the destination of an order. All fields are required.
type ShippingAddress struct {
	Street     string `db:"ship_street" json:"street"`
	City       string `db:"ship_city" json:"city"`
	State      string `db:"ship_state" json:"state"`
	PostalCode string `db:"ship_postal_code" json:"postal_code"`
}

// Complete reports whether every required address field is non-empty.
func (a ShippingAddress) Complete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.PostalCode) != ""
}

// Order is a placed order. totalAmount and the per-item prices are
// snapshotted at placement time, decoupled from live catalog prices.
// The only payment method in this design is the internal wallet.
type Order struct {
	ID            int64           `db:"id" json:"id"`
	Number        string          `db:"order_number" json:"order_number"` // Unique, generated at creation
	UserID        int64           `db:"user_id" json:"user_id"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	Status        OrderStatus     `db:"status" json:"status"`
	ShippingAddress
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Populated separately, not a DB column
	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is one line of an order with the price snapshotted at purchase.
type OrderItem struct {
	ID              int64           `db:"id" json:"id"`
	OrderID         int64           `db:"order_id" json:"-"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	ProductName     string          `db:"product_name" json:"product_name"`
	Quantity        int             `db:"quantity" json:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase" json:"price_at_purchase"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewOrderNumber generates a unique order number: creation timestamp in
// unix millis plus a random suffix.
func NewOrderNumber() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// NewOrder creates a pending Order with a completed wallet payment.
func NewOrder(userID int64, total decimal.Decimal, address ShippingAddress) *Order {
	now := time.Now().UTC()
	return &Order{
		Number:          NewOrderNumber(),
		UserID:          userID,
		TotalAmount:     total,
		PaymentMethod:   "wallet",
		PaymentStatus:   PaymentStatusCompleted,
		Status:          OrderStatusPending,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
