package services

import (
	"errors"
	"fmt"

	"boodaypizza/server/internal/models"

	"gorm.io/gorm"
)

// SubcategoryService управляет подкатегориями меню.
// Список подкатегорий категории - вычисляемое представление по
// Subcategory.CategoryID, отдельный денормализованный список не ведется.
type SubcategoryService struct {
	db    *gorm.DB
	cache *CatalogCache
}

// NewSubcategoryService создает новый экземпляр SubcategoryService
func NewSubcategoryService(db *gorm.DB) *SubcategoryService {
	return &SubcategoryService{db: db}
}

// SetCatalogCache подключает кэш каталога для инвалидации при изменениях
func (s *SubcategoryService) SetCatalogCache(cache *CatalogCache) {
	s.cache = cache
}

// GetAllSubcategories возвращает подкатегории с их категориями
func (s *SubcategoryService) GetAllSubcategories() ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	if err := s.db.Preload("Category").Find(&subcategories).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения подкатегорий: %w", err)
	}
	return subcategories, nil
}

// CreateSubcategory создает подкатегорию в указанной категории
func (s *SubcategoryService) CreateSubcategory(subcategory *models.Subcategory) error {
	if subcategory.Name == "" {
		return fmt.Errorf("название подкатегории обязательно: %w", ErrValidation)
	}
	if subcategory.CategoryID == "" {
		return fmt.Errorf("категория подкатегории обязательна: %w", ErrValidation)
	}

	// Родительская категория должна существовать
	var category models.Category
	if err := s.db.First(&category, "id = ?", subcategory.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("категория с ID %s не найдена: %w", subcategory.CategoryID, ErrNotFound)
		}
		return fmt.Errorf("ошибка проверки категории: %w", err)
	}

	if err := s.db.Create(subcategory).Error; err != nil {
		return fmt.Errorf("ошибка создания подкатегории: %w", err)
	}

	s.invalidateCache()
	return nil
}

// UpdateSubcategory обновляет название и/или категорию подкатегории
func (s *SubcategoryService) UpdateSubcategory(id string, updated *models.Subcategory) error {
	var subcategory models.Subcategory
	if err := s.db.First(&subcategory, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("подкатегория с ID %s не найдена: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения подкатегории: %w", err)
	}

	fields := map[string]interface{}{}
	if updated.Name != "" {
		fields["name"] = updated.Name
	}
	if updated.CategoryID != "" {
		var category models.Category
		if err := s.db.First(&category, "id = ?", updated.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("категория с ID %s не найдена: %w", updated.CategoryID, ErrNotFound)
			}
			return fmt.Errorf("ошибка проверки категории: %w", err)
		}
		fields["category_id"] = updated.CategoryID
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.db.Model(&subcategory).Updates(fields).Error; err != nil {
		return fmt.Errorf("ошибка обновления подкатегории: %w", err)
	}

	s.invalidateCache()
	return nil
}

// DeleteSubcategory удаляет подкатегорию.
// Подкатегорию с продуктами удалить нельзя.
func (s *SubcategoryService) DeleteSubcategory(id string) error {
	var subcategory models.Subcategory
	if err := s.db.First(&subcategory, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("подкатегория с ID %s не найдена: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения подкатегории: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("subcategory_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("ошибка проверки продуктов подкатегории: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("нельзя удалить подкатегорию, у которой есть продукты: %w", ErrConflict)
	}

	if err := s.db.Delete(&subcategory).Error; err != nil {
		return fmt.Errorf("ошибка удаления подкатегории: %w", err)
	}

	s.invalidateCache()
	return nil
}

func (s *SubcategoryService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
