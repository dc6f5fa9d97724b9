package services

import (
	"errors"
	"fmt"

	"boodaypizza/server/internal/models"

	"gorm.io/gorm"
)

// CategoryService управляет категориями, подкатегориями и политикой
// ценообразования. Форма цены продукта (одна цена или три размера)
// определяется полем PricingModel родительской категории.
type CategoryService struct {
	db    *gorm.DB
	cache *CatalogCache
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// SetCatalogCache подключает кэш каталога для инвалидации при изменениях
func (s *CategoryService) SetCatalogCache(cache *CatalogCache) {
	s.cache = cache
}

// GetAllCategories возвращает категории вместе с подкатегориями
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Preload("Subcategories").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	return categories, nil
}

// GetCategoryByID возвращает категорию по ID с подкатегориями
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Subcategories").First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("категория с ID %s не найдена: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения категории: %w", err)
	}
	return &category, nil
}

// CreateCategory создает новую категорию.
// Если pricing_model не передан, он выводится из названия,
// чтобы существующие данные ("Пицца") вели себя как раньше.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("название категории обязательно: %w", ErrValidation)
	}
	if category.PricingModel == "" {
		category.PricingModel = models.DerivePricingModel(category.Name)
	}
	if category.PricingModel != models.PricingModelFlat && category.PricingModel != models.PricingModelTiered {
		return fmt.Errorf("недопустимая модель ценообразования %q: %w", category.PricingModel, ErrValidation)
	}

	if err := s.db.Create(category).Error; err != nil {
		return fmt.Errorf("ошибка создания категории: %w", err)
	}

	s.invalidateCache()
	return nil
}

// UpdateCategory обновляет название и эмодзи категории.
// PricingModel после создания не меняется: продукты категории
// уже сохранены в соответствующей форме цены.
func (s *CategoryService) UpdateCategory(id string, updated *models.Category) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("категория с ID %s не найдена: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения категории: %w", err)
	}

	fields := map[string]interface{}{}
	if updated.Name != "" {
		fields["name"] = updated.Name
	}
	if updated.Emoji != "" {
		fields["emoji"] = updated.Emoji
	}
	if len(fields) > 0 {
		if err := s.db.Model(&category).Updates(fields).Error; err != nil {
			return fmt.Errorf("ошибка обновления категории: %w", err)
		}
	}

	s.invalidateCache()
	return nil
}

// DeleteCategory удаляет категорию.
// Категорию с подкатегориями удалить нельзя.
func (s *CategoryService) DeleteCategory(id string) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("категория с ID %s не найдена: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения категории: %w", err)
	}

	var subCount int64
	if err := s.db.Model(&models.Subcategory{}).Where("category_id = ?", id).Count(&subCount).Error; err != nil {
		return fmt.Errorf("ошибка проверки подкатегорий: %w", err)
	}
	if subCount > 0 {
		return fmt.Errorf("нельзя удалить категорию, у которой есть подкатегории: %w", ErrConflict)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("ошибка удаления категории: %w", err)
	}

	s.invalidateCache()
	return nil
}

// IsTieredPricing возвращает true, если продукты подкатегории продаются
// в трех размерах. Если подкатегория или ее категория не находятся,
// возвращает false.
func (s *CategoryService) IsTieredPricing(subcategoryID string) bool {
	model, err := s.ResolvePricingModel(subcategoryID)
	if err != nil {
		return false
	}
	return model == models.PricingModelTiered
}

// ResolvePricingModel возвращает модель ценообразования для подкатегории,
// поднимаясь к ее родительской категории
func (s *CategoryService) ResolvePricingModel(subcategoryID string) (string, error) {
	var subcategory models.Subcategory
	if err := s.db.Preload("Category").First(&subcategory, "id = ?", subcategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("подкатегория с ID %s не найдена: %w", subcategoryID, ErrNotFound)
		}
		return "", fmt.Errorf("ошибка получения подкатегории: %w", err)
	}
	if subcategory.Category == nil {
		return "", fmt.Errorf("категория подкатегории %s не найдена: %w", subcategoryID, ErrNotFound)
	}
	return subcategory.Category.PricingModel, nil
}

func (s *CategoryService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
