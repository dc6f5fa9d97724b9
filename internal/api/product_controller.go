package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// ProductController управляет API endpoints продуктов.
// Создание и обновление принимают multipart/form-data:
// текстовые поля + опциональный файл image.
type ProductController struct {
	service *services.ProductService
	images  *services.ImageService
}

// NewProductController создает новый контроллер продуктов
func NewProductController(service *services.ProductService, images *services.ImageService) *ProductController {
	return &ProductController{service: service, images: images}
}

// GetProducts получает продукты с филиалом и подкатегорией
// GET /api/admin/products
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.service.GetAllProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении продуктов"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct создает продукт
// POST /api/admin/product
func (pc *ProductController) CreateProduct(c *gin.Context) {
	input, ok := pc.parseForm(c)
	if !ok {
		return
	}

	product, err := pc.service.CreateProduct(input)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct частично обновляет продукт
// PUT /api/admin/product/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	input, ok := pc.parseForm(c)
	if !ok {
		return
	}

	product, err := pc.service.UpdateProduct(c.Param("id"), input)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct удаляет продукт
// DELETE /api/admin/product/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.service.DeleteProduct(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Продукт удален"})
}

// parseForm собирает ProductInput из multipart формы.
// При ошибке сам пишет ответ и возвращает ok=false.
func (pc *ProductController) parseForm(c *gin.Context) (services.ProductInput, bool) {
	input := services.ProductInput{
		Name:          c.PostForm("name"),
		BranchID:      c.PostForm("branchId"),
		SubcategoryID: c.PostForm("subcategoryId"),
	}

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат цены"})
			return input, false
		}
		input.Price = &price
	}

	if pricesStr := c.PostForm("prices"); pricesStr != "" {
		var tiers models.PriceTiers
		if err := json.Unmarshal([]byte(pricesStr), &tiers); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат цен по размерам"})
			return input, false
		}
		input.Prices = &tiers
	}

	file, err := c.FormFile("image")
	if err == nil && file != nil {
		imagePath, err := pc.images.Process(file)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return input, false
		}
		input.ImagePath = &imagePath
	}

	return input, true
}
