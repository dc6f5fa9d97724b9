package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статусы заказа
const (
	OrderStatusPending = "pending"
)

// OrderItem - позиция заказа (хранится внутри Items как JSON)
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"` // small/medium/large для пицц
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order представляет заказ, отправленный со страницы оформления.
// Корзина живет на клиенте, сервер получает заказ одним запросом.
type Order struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	DisplayID    string    `json:"display_id" gorm:"type:varchar(8);not null"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(50);not null"`
	Address      string    `json:"address" gorm:"type:text"`
	BranchID     *string   `json:"branch_id" gorm:"type:uuid;index"`
	Items        string    `json:"-" gorm:"type:text;not null"` // JSON массив OrderItem
	Total        float64   `json:"total" gorm:"not null"`
	Status       string    `json:"status" gorm:"type:varchar(32);not null;default:pending"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Распарсенные позиции для ответов API
	ParsedItems []OrderItem `json:"items" gorm:"-"`
}

// TableName указывает имя таблицы
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate генерирует UUID
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
