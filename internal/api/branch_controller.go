package api

import (
	"net/http"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// BranchController управляет API endpoints филиалов
type BranchController struct {
	service *services.BranchService
}

// NewBranchController создает новый контроллер филиалов
func NewBranchController(service *services.BranchService) *BranchController {
	return &BranchController{service: service}
}

// GetBranches получает список всех филиалов
// GET /api/admin/branches
func (bc *BranchController) GetBranches(c *gin.Context) {
	branches, err := bc.service.GetAllBranches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении филиалов"})
		return
	}
	c.JSON(http.StatusOK, branches)
}

// CreateBranch создает новый филиал
// POST /api/admin/branch
func (bc *BranchController) CreateBranch(c *gin.Context) {
	var branch models.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	if err := bc.service.CreateBranch(&branch); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branch)
}

// UpdateBranch обновляет филиал
// PUT /api/admin/branch/:id
func (bc *BranchController) UpdateBranch(c *gin.Context) {
	id := c.Param("id")

	var updated models.Branch
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	if err := bc.service.UpdateBranch(id, &updated); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	branch, err := bc.service.GetBranchByID(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branch)
}

// DeleteBranch удаляет филиал
// DELETE /api/admin/branch/:id
func (bc *BranchController) DeleteBranch(c *gin.Context) {
	if err := bc.service.DeleteBranch(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Филиал удален"})
}
