package models

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

type Product struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name" gorm:"not null"`
	CategoryID uint     `json:"category_id" gorm:"not null;index"`
	Category   Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
