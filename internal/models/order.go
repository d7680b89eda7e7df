package models

import (
	"time"
)

type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	BranchID      uint        `json:"branch_id" gorm:"not null;index"`
	Note          string      `json:"note" gorm:"type:text"`
	Status        string      `json:"status" gorm:"default:'pending';index"`  // pending, processing, completed, cancelled
	PaymentStatus string      `json:"payment_status" gorm:"default:'unpaid'"` // unpaid, paid
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Tables        []Table     `json:"tables" gorm:"many2many:order_tables;"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)
