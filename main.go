package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrhub-admin/cache"
	"qrhub-admin/config"
	"qrhub-admin/database"
	"qrhub-admin/dtos"
	"qrhub-admin/generator"
	"qrhub-admin/models"
	"qrhub-admin/qrhub"
	"qrhub-admin/routes"
	"qrhub-admin/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		logrus.Fatal("Error loading .env file: ", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		logrus.Fatal("Environment validation failed: ", err)
	}

	cfg := config.Load()
	log := utils.NewLogger(cfg.Logs.Level, cfg.Logs.Style)

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go database.RunJanitor(ctx, db, 10*time.Minute, log.WithField("component", "janitor"))

	// Dashboard cache; without redis every request goes to the backend
	var dashboardCache cache.Cache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, dashboard cache disabled")
		} else {
			defer rc.Close()
			dashboardCache = rc
		}
	}

	api, err := qrhub.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		log.Fatal("Invalid QRHUB_API_URL: ", err)
	}

	notifyLog := log.WithField("component", "notifications")
	workflows := generator.NewStore(api, generator.Options{
		PollInterval: cfg.PollInterval,
		PageSize:     cfg.HistoryPageSize,
		Logger:       log.WithField("component", "generator"),
		OnTerminal: func(owner generator.Owner, job dtos.BatchJob) {
			n := &models.BatchNotification{
				SessionID:   owner.SessionID,
				UserID:      owner.UserID,
				JobID:       job.JobID,
				BatchName:   job.BatchName,
				Status:      string(job.Status),
				Progress:    job.Progress,
				TotalCodes:  job.TotalCodes,
				DownloadURL: job.DownloadURL,
				Error:       job.Error,
			}
			if err := database.RecordNotification(db, n); err != nil {
				notifyLog.WithError(err).WithField("job_id", job.JobID).Warn("Failed to record notification")
			}
		},
	}, cfg.WorkflowIdleTTL)
	go workflows.Run(ctx, time.Minute)

	// Setup Gin router
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Reauth-Required", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:        db,
		API:       api,
		Workflows: workflows,
		Cache:     dashboardCache,
		Config:    cfg,
		Log:       log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	// Stop pollers and background sweepers
	workflows.Shutdown()
	stop()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("Database connection closed")
		}
	}

	log.Info("Server exited gracefully")
}
