package api

import (
	"net/http"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// SubcategoryController управляет API endpoints подкатегорий
type SubcategoryController struct {
	service *services.SubcategoryService
}

// NewSubcategoryController создает новый контроллер подкатегорий
func NewSubcategoryController(service *services.SubcategoryService) *SubcategoryController {
	return &SubcategoryController{service: service}
}

// subcategoryRequest - тело запроса создания/обновления подкатегории.
// Клиент шлет categoryId в camelCase, как исходная админка.
type subcategoryRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// GetSubcategories получает подкатегории с категориями
// GET /api/admin/subcategories
func (sc *SubcategoryController) GetSubcategories(c *gin.Context) {
	subcategories, err := sc.service.GetAllSubcategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении подкатегорий"})
		return
	}
	c.JSON(http.StatusOK, subcategories)
}

// CreateSubcategory создает подкатегорию
// POST /api/admin/subcategory
func (sc *SubcategoryController) CreateSubcategory(c *gin.Context) {
	var req subcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	subcategory := models.Subcategory{Name: req.Name, CategoryID: req.CategoryID}
	if err := sc.service.CreateSubcategory(&subcategory); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

// UpdateSubcategory обновляет подкатегорию
// PUT /api/admin/subcategory/:id
func (sc *SubcategoryController) UpdateSubcategory(c *gin.Context) {
	var req subcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	updated := models.Subcategory{Name: req.Name, CategoryID: req.CategoryID}
	if err := sc.service.UpdateSubcategory(c.Param("id"), &updated); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Подкатегория обновлена"})
}

// DeleteSubcategory удаляет подкатегорию
// DELETE /api/admin/subcategory/:id
func (sc *SubcategoryController) DeleteSubcategory(c *gin.Context) {
	if err := sc.service.DeleteSubcategory(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Подкатегория удалена"})
}
