package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceTiers - цены по размерам для категорий с tiered-ценообразованием.
// Для остальных продуктов все три поля null.
type PriceTiers struct {
	Small  *float64 `json:"small"`
	Medium *float64 `json:"medium"`
	Large  *float64 `json:"large"`
}

// IsEmpty возвращает true, если ни одна цена не заполнена
func (p PriceTiers) IsEmpty() bool {
	return p.Small == nil && p.Medium == nil && p.Large == nil
}

// Product представляет продукт меню.
// Заполнена ровно одна форма цены: либо Price, либо Prices -
// какая именно, определяет PricingModel родительской категории.
type Product struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string     `json:"name" gorm:"type:varchar(255);not null"`
	Image         *string    `json:"image" gorm:"type:text"`
	Price         *float64   `json:"price"`
	Prices        PriceTiers `json:"prices" gorm:"embedded;embeddedPrefix:price_"`
	BranchID      string     `json:"branch_id" gorm:"type:uuid;index;not null"`
	SubcategoryID string     `json:"subcategory_id" gorm:"type:uuid;index;not null"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Связи
	Branch      *Branch      `json:"branch,omitempty" gorm:"foreignKey:BranchID;references:ID"`
	Subcategory *Subcategory `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID;references:ID"`
}

// TableName указывает имя таблицы
func (Product) TableName() string {
	return "products"
}

// BeforeCreate генерирует UUID
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
