package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"boodaypizza/server/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService управляет аккаунтами администраторов и покупателей
type UserService struct {
	db *gorm.DB
}

// NewUserService создает новый экземпляр UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

const credentialChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = credentialChars[rand.Intn(len(credentialChars))]
	}
	return string(b)
}

// GenerateCredentials генерирует логин и пароль для нового админа
func GenerateCredentials() (username, password string) {
	return "admin_" + randomString(6), randomString(8)
}

// EnsureAdmin создает первого админа, если таблица пуста.
// Сгенерированные учетные данные печатаются в лог один раз.
func (s *UserService) EnsureAdmin() error {
	var count int64
	if err := s.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("ошибка подсчета админов: %w", err)
	}
	if count > 0 {
		log.Println("ℹ️ Админ уже существует в базе")
		return nil
	}

	username, password := GenerateCredentials()
	admin, err := s.createAdmin(username, password)
	if err != nil {
		return err
	}

	log.Println("🔑 Сгенерированы учетные данные админа:")
	log.Printf("   Username: %s", admin.Username)
	log.Printf("   Password: %s", password)
	return nil
}

// RegisterAdmin создает нового админа со сгенерированными данными
// и возвращает их для показа вызвавшему админу
func (s *UserService) RegisterAdmin() (username, password string, err error) {
	username, password = GenerateCredentials()
	if _, err = s.createAdmin(username, password); err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (s *UserService) createAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	admin := models.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("ошибка создания админа: %w", err)
	}
	return &admin, nil
}

// AuthenticateAdmin проверяет логин и пароль админа
func (s *UserService) AuthenticateAdmin(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("неверный логин или пароль: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка проверки учетных данных: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("неверный логин или пароль: %w", ErrNotFound)
	}
	return &admin, nil
}

// ListAdmins возвращает логины всех админов
func (s *UserService) ListAdmins() ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.Select("id", "username", "created_at").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения админов: %w", err)
	}
	return admins, nil
}

// RegisterUser регистрирует покупателя. Username и имя выводятся
// из локальной части email.
func (s *UserService) RegisterUser(email, phone, password string) (*models.User, error) {
	if email == "" || phone == "" || password == "" {
		return nil, fmt.Errorf("email, телефон и пароль обязательны: %w", ErrValidation)
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("пользователь с таким email уже существует: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ошибка проверки email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	username := email
	if idx := strings.Index(email, "@"); idx > 0 {
		username = email[:idx]
	}

	user := models.User{
		Username:     username,
		Name:         username,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return &user, nil
}

// AuthenticateUser проверяет email и пароль покупателя
func (s *UserService) AuthenticateUser(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("пользователь не найден: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка проверки учетных данных: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("неверный пароль: %w", ErrValidation)
	}
	return &user, nil
}

// ListUsers возвращает всех покупателей
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	return users, nil
}

// DeleteUser удаляет покупателя
func (s *UserService) DeleteUser(id string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("пользователь не найден: %w", ErrNotFound)
		}
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	return nil
}

// FindUserByUsername ищет покупателя по username
func (s *UserService) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("пользователь не найден: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &user, nil
}
