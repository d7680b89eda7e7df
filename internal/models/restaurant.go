package models

import (
	"time"
)

type Restaurant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	ManagerID uint      `json:"manager_id" gorm:"not null;index"`
	Branches  []Branch  `json:"branches,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Branch struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Timezone     string    `json:"timezone"` // IANA zone, empty means the server default
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Table struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	BranchID uint   `json:"branch_id" gorm:"not null;index"`
	Name     string `json:"name" gorm:"not null"`
}
