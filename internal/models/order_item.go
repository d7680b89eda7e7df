package models

import (
	"fmt"
	"time"
)

type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Note      string    `json:"note" gorm:"type:text"`
	Status    string    `json:"status" gorm:"default:'pending'"`
	Version   uint      `json:"version" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemStatus represents the kitchen status of an order item
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCooking   ItemStatus = "cooking"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
	ItemCancelled ItemStatus = "cancelled"
)

// ItemStatuses lists every status in canonical kitchen order.
var ItemStatuses = []ItemStatus{ItemPending, ItemCooking, ItemReady, ItemServed, ItemCancelled}

// ParseItemStatus accepts only the exact lowercase enum values.
func ParseItemStatus(s string) (ItemStatus, error) {
	if status := ItemStatus(s); status.IsValid() {
		return status, nil
	}
	return "", fmt.Errorf("unknown item status %q", s)
}

func (s ItemStatus) IsValid() bool {
	for _, status := range ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further kitchen transition is expected.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemServed || s == ItemCancelled
}
