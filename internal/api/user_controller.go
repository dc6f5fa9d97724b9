package api

import (
	"errors"
	"fmt"
	"net/http"

	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// UserController управляет аккаунтами из админ-панели
type UserController struct {
	users  *services.UserService
	mailer *services.Mailer
}

// NewUserController создает новый контроллер пользователей
func NewUserController(users *services.UserService, mailer *services.Mailer) *UserController {
	return &UserController{users: users, mailer: mailer}
}

// GetAdmins возвращает список аккаунтов админов
// GET /api/admin/users
func (uc *UserController) GetAdmins(c *gin.Context) {
	admins, err := uc.users.ListAdmins()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}
	c.JSON(http.StatusOK, admins)
}

// GetUsers возвращает список покупателей
// GET /api/users
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser удаляет покупателя
// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.users.DeleteUser(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Пользователь удален"})
}

// PromoRequest - запрос на отправку промокода покупателю
type PromoRequest struct {
	Username  string `json:"username" binding:"required"`
	PromoCode string `json:"promoCode" binding:"required"`
}

// SendPromo отправляет промокод на почту покупателя.
// Доставка синхронная и best-effort: ошибка SMTP отдается как 500.
// POST /api/users/promo
func (uc *UserController) SendPromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	user, err := uc.users.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}

	if err := uc.mailer.SendPromoCode(user.Email, user.Name, req.PromoCode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при отправке промокода"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Промокод %s отправлен на %s", req.PromoCode, user.Email),
	})
}
