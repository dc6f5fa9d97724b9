package services

import (
	"errors"
	"fmt"

	"boodaypizza/server/internal/models"

	"gorm.io/gorm"
)

// BranchService управляет логикой филиалов
type BranchService struct {
	db    *gorm.DB
	cache *CatalogCache
}

// NewBranchService создает новый экземпляр BranchService
func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{db: db}
}

// SetCatalogCache подключает кэш каталога для инвалидации при изменениях
func (s *BranchService) SetCatalogCache(cache *CatalogCache) {
	s.cache = cache
}

// GetAllBranches возвращает список всех филиалов
func (s *BranchService) GetAllBranches() ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.db.Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения филиалов: %w", err)
	}
	return branches, nil
}

// GetBranchByID возвращает филиал по ID
func (s *BranchService) GetBranchByID(id string) (*models.Branch, error) {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("филиал с ID %s не найден: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения филиала: %w", err)
	}
	return &branch, nil
}

// CreateBranch создает новый филиал
func (s *BranchService) CreateBranch(branch *models.Branch) error {
	if branch.Name == "" || branch.City == "" {
		return fmt.Errorf("название и город филиала обязательны: %w", ErrValidation)
	}

	if err := s.db.Create(branch).Error; err != nil {
		return fmt.Errorf("ошибка создания филиала: %w", err)
	}

	s.invalidateCache()
	return nil
}

// UpdateBranch обновляет существующий филиал.
// Обновляются только переданные (непустые) поля.
func (s *BranchService) UpdateBranch(id string, updated *models.Branch) error {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("филиал с ID %s не найден: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения филиала: %w", err)
	}

	fields := map[string]interface{}{}
	if updated.Name != "" {
		fields["name"] = updated.Name
	}
	if updated.City != "" {
		fields["city"] = updated.City
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.db.Model(&branch).Updates(fields).Error; err != nil {
		return fmt.Errorf("ошибка обновления филиала: %w", err)
	}

	s.invalidateCache()
	return nil
}

// DeleteBranch удаляет филиал.
// Филиал с продуктами удалить нельзя - сначала нужно удалить продукты.
func (s *BranchService) DeleteBranch(id string) error {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("филиал с ID %s не найден: %w", id, ErrNotFound)
		}
		return fmt.Errorf("ошибка получения филиала: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("branch_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("ошибка проверки продуктов филиала: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("нельзя удалить филиал, у которого есть продукты: %w", ErrConflict)
	}

	if err := s.db.Delete(&branch).Error; err != nil {
		return fmt.Errorf("ошибка удаления филиала: %w", err)
	}

	s.invalidateCache()
	return nil
}

func (s *BranchService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
