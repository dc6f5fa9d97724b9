package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subcategory представляет подкатегорию меню, всегда привязана к категории
type Subcategory struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	CategoryID string    `json:"category_id" gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Связи
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName указывает имя таблицы
func (Subcategory) TableName() string {
	return "subcategories"
}

// BeforeCreate генерирует UUID
func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
