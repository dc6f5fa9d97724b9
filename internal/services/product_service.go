package services

import (
	"errors"
	"fmt"

	"boodaypizza/server/internal/models"

	"gorm.io/gorm"
)

// ProductInput - данные продукта от админ-панели.
// Поле цены клиент присылает в той форме, которую отрисовал сам,
// но сервер форму не доверяет и пересчитывает политику заново.
type ProductInput struct {
	Name          string
	BranchID      string
	SubcategoryID string
	Price         *float64
	Prices        *models.PriceTiers
	ImagePath     *string
}

// ProductService управляет продуктами меню
type ProductService struct {
	db         *gorm.DB
	categories *CategoryService
	cache      *CatalogCache
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// SetCategoryService подключает сервис категорий - он владеет
// политикой ценообразования
func (s *ProductService) SetCategoryService(categories *CategoryService) {
	s.categories = categories
}

// SetCatalogCache подключает кэш каталога для инвалидации при изменениях
func (s *ProductService) SetCatalogCache(cache *CatalogCache) {
	s.cache = cache
}

// GetAllProducts возвращает продукты с филиалом и подкатегорией
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Branch").Preload("Subcategory").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения продуктов: %w", err)
	}
	return products, nil
}

// GetProductByID возвращает продукт по ID
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Branch").Preload("Subcategory").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("продукт с ID %s не найден: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения продукта: %w", err)
	}
	return &product, nil
}

// CreateProduct создает продукт. Форма цены определяется моделью
// ценообразования родительской категории подкатегории: tiered хранит
// три цены и обнуляет одиночную, flat - наоборот.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("название продукта обязательно: %w", ErrValidation)
	}
	if input.BranchID == "" || input.SubcategoryID == "" {
		return nil, fmt.Errorf("филиал и подкатегория продукта обязательны: %w", ErrValidation)
	}

	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", input.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("филиал с ID %s не найден: %w", input.BranchID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка проверки филиала: %w", err)
	}

	pricingModel, err := s.categories.ResolvePricingModel(input.SubcategoryID)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		Name:          input.Name,
		Image:         input.ImagePath,
		BranchID:      input.BranchID,
		SubcategoryID: input.SubcategoryID,
	}

	if pricingModel == models.PricingModelTiered {
		if err := validateTiers(input.Prices); err != nil {
			return nil, err
		}
		product.Prices = *input.Prices
		product.Price = nil
	} else {
		if err := validateFlatPrice(input.Price); err != nil {
			return nil, err
		}
		product.Price = input.Price
		product.Prices = models.PriceTiers{}
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("ошибка создания продукта: %w", err)
	}

	s.invalidateCache()
	return &product, nil
}

// UpdateProduct частично обновляет продукт. Непереданные поля не меняются,
// кроме полей цены: они всегда приводятся к форме, которую диктует
// модель ценообразования итоговой подкатегории. Перевод продукта из
// tiered-категории в flat обнуляет три цены, и наоборот.
func (s *ProductService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("продукт с ID %s не найден: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения продукта: %w", err)
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.ImagePath != nil {
		product.Image = input.ImagePath
	}
	if input.BranchID != "" {
		var branch models.Branch
		if err := s.db.First(&branch, "id = ?", input.BranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("филиал с ID %s не найден: %w", input.BranchID, ErrNotFound)
			}
			return nil, fmt.Errorf("ошибка проверки филиала: %w", err)
		}
		product.BranchID = input.BranchID
	}
	if input.SubcategoryID != "" {
		product.SubcategoryID = input.SubcategoryID
	}

	pricingModel, err := s.categories.ResolvePricingModel(product.SubcategoryID)
	if err != nil {
		return nil, err
	}

	if pricingModel == models.PricingModelTiered {
		if input.Prices != nil {
			if err := validateTiers(input.Prices); err != nil {
				return nil, err
			}
			product.Prices = *input.Prices
		} else if product.Prices.IsEmpty() {
			return nil, fmt.Errorf("для категории с размерами нужны три цены: %w", ErrValidation)
		}
		product.Price = nil
	} else {
		if input.Price != nil {
			if err := validateFlatPrice(input.Price); err != nil {
				return nil, err
			}
			product.Price = input.Price
		} else if product.Price == nil {
			return nil, fmt.Errorf("для продукта нужна цена: %w", ErrValidation)
		}
		product.Prices = models.PriceTiers{}
	}

	// Save перезаписывает все колонки, включая обнуленные поля цены
	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("ошибка обновления продукта: %w", err)
	}

	s.invalidateCache()
	return &product, nil
}

// DeleteProduct удаляет продукт
func (s *ProductService) DeleteProduct(id string) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("продукт с ID %s не найден: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения продукта: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("ошибка удаления продукта: %w", err)
	}

	s.invalidateCache()
	return nil
}

func validateTiers(tiers *models.PriceTiers) error {
	if tiers == nil || tiers.Small == nil || tiers.Medium == nil || tiers.Large == nil {
		return fmt.Errorf("для категории с размерами нужны три цены (small, medium, large): %w", ErrValidation)
	}
	if *tiers.Small <= 0 || *tiers.Medium <= 0 || *tiers.Large <= 0 {
		return fmt.Errorf("цены должны быть больше нуля: %w", ErrValidation)
	}
	return nil
}

func validateFlatPrice(price *float64) error {
	if price == nil {
		return fmt.Errorf("для продукта нужна цена: %w", ErrValidation)
	}
	if *price <= 0 {
		return fmt.Errorf("цена должна быть больше нуля: %w", ErrValidation)
	}
	return nil
}

func (s *ProductService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
