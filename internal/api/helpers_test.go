package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// testServer - роутер с теми же группами и middleware, что у продакшена
type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	users  *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := newTestDB(t)

	cache := services.NewCatalogCache(db, nil)

	userService := services.NewUserService(db)

	branchService := services.NewBranchService(db)
	branchService.SetCatalogCache(cache)

	categoryService := services.NewCategoryService(db)
	categoryService.SetCatalogCache(cache)

	subcategoryService := services.NewSubcategoryService(db)
	subcategoryService.SetCatalogCache(cache)

	productService := services.NewProductService(db)
	productService.SetCategoryService(categoryService)
	productService.SetCatalogCache(cache)

	imageService, err := services.NewImageService(t.TempDir())
	require.NoError(t, err)

	orderService := services.NewOrderService(db, "")
	t.Cleanup(func() { orderService.Close() })

	// SMTP в тестах не настроен, отправка промокодов падает
	mailer := services.NewMailer("", 0, "", "")

	authController := NewAuthController(userService, testJWTSecret)
	branchController := NewBranchController(branchService)
	categoryController := NewCategoryController(categoryService)
	subcategoryController := NewSubcategoryController(subcategoryService)
	productController := NewProductController(productService, imageService)
	publicController := NewPublicController(cache)
	orderController := NewOrderController(orderService)
	userController := NewUserController(userService, mailer)

	r := gin.New()

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", authController.UserRegister)
	authGroup.POST("/login", authController.UserLogin)

	apiGroup.POST("/admin/login", authController.AdminLogin)

	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(AuthMiddleware(testJWTSecret))
	adminGroup.POST("/register", authController.AdminRegister)
	adminGroup.POST("/branch", branchController.CreateBranch)
	adminGroup.PUT("/branch/:id", branchController.UpdateBranch)
	adminGroup.DELETE("/branch/:id", branchController.DeleteBranch)
	adminGroup.GET("/branches", branchController.GetBranches)
	adminGroup.POST("/category", categoryController.CreateCategory)
	adminGroup.PUT("/category/:id", categoryController.UpdateCategory)
	adminGroup.DELETE("/category/:id", categoryController.DeleteCategory)
	adminGroup.GET("/categories", categoryController.GetCategories)
	adminGroup.POST("/subcategory", subcategoryController.CreateSubcategory)
	adminGroup.PUT("/subcategory/:id", subcategoryController.UpdateSubcategory)
	adminGroup.DELETE("/subcategory/:id", subcategoryController.DeleteSubcategory)
	adminGroup.GET("/subcategories", subcategoryController.GetSubcategories)
	adminGroup.POST("/product", productController.CreateProduct)
	adminGroup.PUT("/product/:id", productController.UpdateProduct)
	adminGroup.DELETE("/product/:id", productController.DeleteProduct)
	adminGroup.GET("/products", productController.GetProducts)
	adminGroup.GET("/orders", orderController.GetOrders)
	adminGroup.GET("/users", userController.GetAdmins)

	usersGroup := apiGroup.Group("/users")
	usersGroup.Use(AuthMiddleware(testJWTSecret))
	usersGroup.GET("", userController.GetUsers)
	usersGroup.DELETE("/:id", userController.DeleteUser)
	usersGroup.POST("/promo", userController.SendPromo)

	publicGroup := apiGroup.Group("/public")
	publicGroup.GET("/branches", publicController.GetBranches)
	publicGroup.GET("/categories", publicController.GetCategories)
	publicGroup.GET("/products", publicController.GetProducts)
	publicGroup.POST("/orders", orderController.CreateOrder)

	return &testServer{router: r, db: db, users: userService}
}

// adminToken регистрирует админа и логинится за него
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()

	username, password, err := ts.users.RegisterAdmin()
	require.NoError(t, err)

	w := ts.doJSON(t, http.MethodPost, "/api/admin/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// doProductForm отправляет продукт multipart-формой, как админка
func (ts *testServer) doProductForm(t *testing.T, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
