package api

import (
	"net/http"

	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// PublicController отдает каталог витрине без авторизации.
// Чтения идут через кэш каталога.
type PublicController struct {
	cache *services.CatalogCache
}

// NewPublicController создает новый публичный контроллер
func NewPublicController(cache *services.CatalogCache) *PublicController {
	return &PublicController{cache: cache}
}

// GetBranches возвращает филиалы
// GET /api/public/branches
func (pc *PublicController) GetBranches(c *gin.Context) {
	branches, err := pc.cache.Branches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении филиалов"})
		return
	}
	c.JSON(http.StatusOK, branches)
}

// GetCategories возвращает категории с подкатегориями
// GET /api/public/categories
func (pc *PublicController) GetCategories(c *gin.Context) {
	categories, err := pc.cache.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении категорий"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetProducts возвращает продукты с филиалом и подкатегорией
// GET /api/public/products
func (pc *PublicController) GetProducts(c *gin.Context) {
	products, err := pc.cache.Products()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении продуктов"})
		return
	}
	c.JSON(http.StatusOK, products)
}
