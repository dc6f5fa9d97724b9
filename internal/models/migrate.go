package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate создает таблицы в БД
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Admin{},
		&User{},
		&Branch{},
		&Category{},
		&Subcategory{},
		&Product{},
		&Order{},
	); err != nil {
		log.Printf("❌ AutoMigrate failed: %v", err)
		return err
	}
	return nil
}
