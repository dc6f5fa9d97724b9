package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"boodaypizza/server/internal/api"
	"boodaypizza/server/internal/config"
	"boodaypizza/server/internal/database"
	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/services"
	"boodaypizza/server/internal/utils"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	cfg := config.Load()

	// Логируем наличие DATABASE_URL (без пароля)
	if cfg.DatabaseURL != "" {
		safeURL := cfg.DatabaseURL
		if idx := strings.Index(safeURL, "@"); idx > 0 {
			if schemeIdx := strings.Index(safeURL, "://"); schemeIdx > 0 {
				safeURL = safeURL[:schemeIdx+3] + "***@" + safeURL[idx+1:]
			}
		}
		log.Printf("📋 DATABASE_URL установлен: %s", safeURL)
	}

	// Подключение к PostgreSQL - без БД приложению делать нечего
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ PostgreSQL connection failed: %v", err)
	}
	defer database.ClosePostgres(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Подключение к Redis (опционально: без него кэш работает локально)
	var redisUtil *utils.RedisClient
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Redis connection failed: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		redisUtil = utils.NewRedisClient(redisClient)
	}
	defer database.CloseRedis(redisClient)

	// Кэш публичного каталога + Pub/Sub инвалидация
	catalogCache := services.NewCatalogCache(db, redisUtil)
	catalogCache.StartAutoReload()
	defer catalogCache.Stop()

	// Сервисы
	userService := services.NewUserService(db)
	if err := userService.EnsureAdmin(); err != nil {
		log.Printf("⚠️ Ошибка инициализации админа: %v", err)
	}

	branchService := services.NewBranchService(db)
	branchService.SetCatalogCache(catalogCache)

	categoryService := services.NewCategoryService(db)
	categoryService.SetCatalogCache(catalogCache)

	subcategoryService := services.NewSubcategoryService(db)
	subcategoryService.SetCatalogCache(catalogCache)

	productService := services.NewProductService(db)
	productService.SetCategoryService(categoryService)
	productService.SetCatalogCache(catalogCache)

	imageService, err := services.NewImageService(cfg.UploadDir)
	if err != nil {
		log.Fatalf("❌ Upload dir init failed: %v", err)
	}

	mailer := services.NewMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	if mailer.Enabled() {
		log.Printf("📧 SMTP настроен: %s", cfg.EmailHost)
	} else {
		log.Println("⚠️ SMTP не настроен, отправка промокодов будет падать с ошибкой")
	}

	orderService := services.NewOrderService(db, cfg.KafkaBrokers)
	defer orderService.Close()
	if cfg.KafkaBrokers == "" {
		log.Println("⚠️ KAFKA_BROKERS не установлен, события заказов не публикуются")
	}

	// Контроллеры
	authController := api.NewAuthController(userService, cfg.JWTSecret)
	branchController := api.NewBranchController(branchService)
	categoryController := api.NewCategoryController(categoryService)
	subcategoryController := api.NewSubcategoryController(subcategoryService)
	productController := api.NewProductController(productService, imageService)
	userController := api.NewUserController(userService, mailer)
	publicController := api.NewPublicController(catalogCache)
	orderController := api.NewOrderController(orderService)
	wsController := api.NewWSController(cfg.JWTSecret)

	// Запускаем WebSocket Hub для живой ленты заказов
	go api.OrdersHub.Run()
	log.Println("📱 WebSocket Hub запущен для ленты заказов")

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Health check
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Booday Pizza Server",
			"version": "1.0.0",
		})
	})

	// Логирование всех запросов
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	})

	// CORS для фронтенда
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Загруженные изображения отдаются статикой
	r.Static("/uploads", cfg.UploadDir)

	apiGroup := r.Group("/api")

	// Вход и регистрация покупателей
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authController.UserRegister)
		authGroup.POST("/login", authController.UserLogin)
	}

	// Вход админа идет мимо middleware, лента заказов проверяет
	// токен сама: браузерный WebSocket не умеет ставить заголовки
	apiGroup.POST("/admin/login", authController.AdminLogin)
	apiGroup.GET("/admin/ws/orders", wsController.OrdersFeed)

	// Админ-панель: авторизация обязательна для всех эндпоинтов,
	// включая чтения
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(api.AuthMiddleware(cfg.JWTSecret))
	{
		adminGroup.POST("/register", authController.AdminRegister)
		adminGroup.GET("/users", userController.GetAdmins)

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
	}

	// Управление покупателями (тоже только для админа)
	usersGroup := apiGroup.Group("/users")
	usersGroup.Use(api.AuthMiddleware(cfg.JWTSecret))
	{
		usersGroup.GET("", userController.GetUsers)
		usersGroup.DELETE("/:id", userController.DeleteUser)
		usersGroup.POST("/promo", userController.SendPromo)
	}

	// Публичные эндпоинты витрины (без авторизации)
	publicGroup := apiGroup.Group("/public")
	{
		publicGroup.GET("/branches", publicController.GetBranches)
		publicGroup.GET("/categories", publicController.GetCategories)
		publicGroup.GET("/products", publicController.GetProducts)
		publicGroup.POST("/orders", orderController.CreateOrder)
	}

	log.Printf("🚀 Server running on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
