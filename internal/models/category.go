package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Модели ценообразования категории.
// Категория "пицца" исторически продавалась в трех размерах,
// остальные категории - по одной цене.
const (
	PricingModelFlat   = "flat"   // Одна цена на продукт
	PricingModelTiered = "tiered" // Три цены: small/medium/large
)

// Category представляет категорию меню
type Category struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Emoji        string    `json:"emoji" gorm:"type:varchar(16)"`
	PricingModel string    `json:"pricing_model" gorm:"type:varchar(16);not null;default:flat"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Подкатегории - вычисляемое представление (Preload),
	// источник истины - Subcategory.CategoryID
	Subcategories []Subcategory `json:"subcategories" gorm:"foreignKey:CategoryID"`
}

// TableName указывает имя таблицы
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate генерирует UUID
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// DerivePricingModel выводит модель ценообразования из названия категории.
// Используется только когда клиент не передал pricing_model явно,
// чтобы существующие данные вели себя как раньше.
func DerivePricingModel(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "пицца" || n == "pizza" {
		return PricingModelTiered
	}
	return PricingModelFlat
}
