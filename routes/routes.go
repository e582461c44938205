package routes

import (
	"net/url"
	"time"

	"qrhub-admin/cache"
	"qrhub-admin/config"
	"qrhub-admin/generator"
	"qrhub-admin/handlers"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the shared services the routes are built from.
type Deps struct {
	DB        *gorm.DB
	API       *qrhub.Client
	Workflows *generator.Store
	Cache     cache.Cache
	Config    config.Config
	Log       *logrus.Logger
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config

	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.LocaleMiddleware(cfg.DefaultLocale))

	// Initialize handlers
	authHandler := &handlers.AuthHandler{
		DB:           deps.DB,
		API:          deps.API,
		Workflows:    deps.Workflows,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
	}
	brandHandler := &handlers.BrandHandler{API: deps.API}
	productHandler := &handlers.ProductHandler{API: deps.API, PageSize: cfg.HistoryPageSize}
	userHandler := &handlers.UserHandler{API: deps.API}
	generatorHandler := &handlers.GeneratorHandler{Workflows: deps.Workflows}
	notificationHandler := &handlers.NotificationHandler{DB: deps.DB}
	dashboardHandler := &handlers.DashboardHandler{
		API:   deps.API,
		Cache: deps.Cache,
		TTL:   cfg.DashboardTTL,
		Log:   deps.Log.WithField("component", "dashboard"),
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)

	// Public routes
	r.GET("/api/locale", handlers.GetLocale)
	r.GET("/locale/:locale", handlers.SetLocale)
	r.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	// Session routes (any signed-in user)
	session := r.Group("/auth")
	session.Use(middleware.AuthMiddleware(deps.DB))
	{
		session.POST("/logout", authHandler.Logout)
		session.GET("/me", authHandler.Me)
		session.PUT("/profile", authHandler.UpdateProfile)
	}

	// Admin routes (require admin role)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.DB))
	admin.Use(middleware.AdminMiddleware())
	{
		// Dashboard
		admin.GET("/dashboard", dashboardHandler.GetSummary)
		admin.GET("/dashboard/overview", dashboardHandler.GetOverview)
		admin.GET("/dashboard/activity", dashboardHandler.GetActivity)
		admin.GET("/dashboard/scans", dashboardHandler.GetScanStats)
		admin.GET("/dashboard/batches", dashboardHandler.GetBatchStats)
		admin.GET("/dashboard/health", dashboardHandler.GetHealth)

		// Brand management
		admin.GET("/brands", brandHandler.GetBrands)
		admin.POST("/brands", brandHandler.CreateBrand)
		admin.PUT("/brands/:id", brandHandler.UpdateBrand)
		admin.DELETE("/brands/:id", brandHandler.DeleteBrand)

		// Product management
		admin.GET("/products", productHandler.GetProducts)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		// User management
		admin.GET("/users", userHandler.GetUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.PUT("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		// Batch generator
		gen := admin.Group("/generator")
		gen.GET("/draft", generatorHandler.GetDraft)
		gen.DELETE("/draft", generatorHandler.ResetDraft)
		gen.PUT("/draft/info", generatorHandler.UpdateDraftInfo)
		gen.POST("/draft/items", generatorHandler.AddDraftItem)
		gen.PUT("/draft/items/:itemId", generatorHandler.UpdateDraftItem)
		gen.DELETE("/draft/items/:itemId", generatorHandler.RemoveDraftItem)
		gen.POST("/draft/step", generatorHandler.MoveDraftStep)
		gen.POST("/draft/submit", generatorHandler.SubmitDraft)
		gen.GET("/catalog", generatorHandler.GetCatalog)
		gen.GET("/active", generatorHandler.GetActiveJob)
		gen.DELETE("/active", generatorHandler.DismissActiveJob)
		gen.GET("/history", generatorHandler.GetHistory)
		gen.POST("/batches", generatorHandler.SubmitBatch)
		gen.GET("/batches/:id", generatorHandler.GetBatch)
		gen.POST("/batches/:id/retry", generatorHandler.RetryBatch)
		gen.DELETE("/batches/:id", generatorHandler.DeleteBatch)
		gen.GET("/batches/:id/download", generatorHandler.DownloadBatch)

		// Notifications
		admin.GET("/notifications", notificationHandler.GetNotifications)
		admin.POST("/notifications/:id/dismiss", notificationHandler.DismissNotification)
	}

	// Backend passthrough for authenticated sessions
	if target, err := url.Parse(cfg.BackendURL); err == nil && target.Host != "" {
		proxy := handlers.NewBackendProxy(target, deps.Log.WithField("component", "proxy"))
		backend := r.Group("/api")
		backend.Use(middleware.AuthMiddleware(deps.DB))
		backend.Any("/v1/*path", proxy)
		backend.Any("/batch-generate", proxy)
		backend.Any("/batch-generate/*path", proxy)
	}

	// /ar, /en and /zh prefixed paths
	r.NoRoute(middleware.StripLocalePrefix(r))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
