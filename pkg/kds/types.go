// Package kds is the client side of the kitchen display workflow: the wire
// types served by the kitchen view endpoint, a typed HTTP client, the lane
// partitioner and the polling loop that keeps a display board fresh.
package kds

import "time"

// Status is an item status as it appears on the wire.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

// OrderView is one ticket on the kitchen board.
type OrderView struct {
	ID        uint       `json:"id"`
	TableName string     `json:"table_name"`
	CreatedAt time.Time  `json:"created_at"`
	Note      string     `json:"note"`
	Status    string     `json:"status"`
	Items     []ItemView `json:"items"`
}

type ItemView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
	Status   Status `json:"status"`
	Version  uint   `json:"version"`
}

type KitchenViewResponse struct {
	Orders []OrderView `json:"orders"`
}

type AdvanceRequest struct {
	Status          Status `json:"status"`
	ExpectedVersion *uint  `json:"expected_version,omitempty"`
}

// ItemRecord is the updated item returned by an advance.
type ItemRecord struct {
	ID        uint      `json:"id"`
	OrderID   uint      `json:"order_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note"`
	Status    Status    `json:"status"`
	Version   uint      `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completion reports the two effects of order reconciliation separately.
type Completion struct {
	OrderCompleted bool `json:"order_completed"`
	PaymentSettled bool `json:"payment_settled"`
}

type AdvanceResponse struct {
	Message    string     `json:"message"`
	Item       ItemRecord `json:"item"`
	Completion Completion `json:"completion"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
