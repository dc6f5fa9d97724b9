package api

import (
	"errors"
	"net/http"
	"time"

	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthController управляет входом и регистрацией
type AuthController struct {
	users     *services.UserService
	jwtSecret string
}

// NewAuthController создает новый контроллер авторизации
func NewAuthController(users *services.UserService, jwtSecret string) *AuthController {
	return &AuthController{users: users, jwtSecret: jwtSecret}
}

// AdminLoginRequest представляет запрос на вход админа
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin обрабатывает вход админа
// POST /api/admin/login
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные параметры запроса",
			"details": err.Error(),
		})
		return
	}

	admin, err := ac.users.AuthenticateAdmin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный логин или пароль"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}

	token, err := GenerateToken(admin.ID, admin.Username, ac.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания токена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(time.Hour).Unix(),
	})
}

// AdminRegister создает нового админа со сгенерированными данными
// POST /api/admin/register
func (ac *AuthController) AdminRegister(c *gin.Context) {
	username, password, err := ac.users.RegisterAdmin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при регистрации"})
		return
	}

	// Пароль возвращается единственный раз, дальше хранится только хеш
	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"password": password,
	})
}

// UserRegisterRequest представляет запрос на регистрацию покупателя
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegister регистрирует покупателя
// POST /api/auth/register
func (ac *AuthController) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные параметры запроса",
			"details": err.Error(),
		})
		return
	}

	user, err := ac.users.RegisterUser(req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пользователь с таким email уже существует"})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Регистрация успешна",
		"name":    user.Name,
	})
}

// UserLoginRequest представляет запрос на вход покупателя
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLogin обрабатывает вход покупателя.
// Токен покупателю не выдается - сессия живет на клиенте.
// POST /api/auth/login
func (ac *AuthController) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные параметры запроса",
			"details": err.Error(),
		})
		return
	}

	user, err := ac.users.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пользователь не найден"})
			return
		}
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный пароль"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Вход успешен",
		"name":    user.Name,
	})
}
