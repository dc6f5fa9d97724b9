package api

import (
	"net/http"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// CategoryController управляет API endpoints категорий
type CategoryController struct {
	service *services.CategoryService
}

// NewCategoryController создает новый контроллер категорий
func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

// GetCategories получает категории с подкатегориями
// GET /api/admin/categories
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, err := cc.service.GetAllCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении категорий"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory создает новую категорию
// POST /api/admin/category
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	if err := cc.service.CreateCategory(&category); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategory обновляет категорию
// PUT /api/admin/category/:id
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var updated models.Category
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	if err := cc.service.UpdateCategory(id, &updated); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	category, err := cc.service.GetCategoryByID(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory удаляет категорию
// DELETE /api/admin/category/:id
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	if err := cc.service.DeleteCategory(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Категория удалена"})
}
