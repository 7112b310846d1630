package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cennik/internal/api/handlers"
	"cennik/internal/api/middleware"
	"cennik/internal/auth"
	"cennik/internal/config"
	"cennik/internal/database"
	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/ingest"
	"cennik/internal/logger"
	"cennik/internal/repository"
	"cennik/internal/schedule"
	"cennik/internal/search"
	"cennik/internal/services/notify"
	"cennik/internal/services/uploads"

	"github.com/gin-gonic/gin"
)

// Services are the components the handlers work with.
type Services struct {
	Store     *datastore.Store
	Overrides *repository.OverrideRepository
	Search    *search.Service
	Schedule  *schedule.Service
	Auth      *auth.Service
	Notifier  *notify.Notifier
	Publisher events.Publisher
	Uploads   *uploads.Store
	Analyzer  *ingest.PDFAnalyzer
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, svc Services) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	producerHandler := handlers.NewProducerHandler(svc.Store, svc.Overrides, svc.Publisher, logger)
	catalogHandler := handlers.NewCatalogHandler(svc.Store, svc.Overrides, svc.Publisher, logger)
	overrideHandler := handlers.NewOverrideHandler(svc.Overrides, logger)
	scheduleHandler := handlers.NewScheduleHandler(svc.Schedule, logger)
	searchHandler := handlers.NewSearchHandler(svc.Search, logger)
	notificationHandler := handlers.NewNotificationHandler(svc.Store, svc.Notifier, svc.Publisher, logger)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg.Env == "production", logger)
	uploadHandler := handlers.NewUploadHandler(svc.Uploads, svc.Analyzer, cfg.MaxUploadMB, logger)

	router.GET("/health", healthHandler.Check)
	router.Static(uploads.URLPrefix, cfg.UploadDir)

	// Routes
	api := router.Group("/api")
	{
		// Producers
		producers := api.Group("/producers")
		{
			producers.GET("", producerHandler.List)
			producers.GET("/:slug", producerHandler.Get)
			producers.GET("/:slug/data", producerHandler.Data)
			producers.GET("/:slug/prices", producerHandler.Prices)
		}

		api.GET("/overrides", overrideHandler.List)
		api.GET("/search", searchHandler.Search)
		api.POST("/pricing/calculate", handlers.CalculatePrice)

		// Scheduled changes
		scheduled := api.Group("/scheduled-changes")
		{
			scheduled.GET("", scheduleHandler.List)
			scheduled.GET("/check", scheduleHandler.Check)
			scheduled.POST("/apply", scheduleHandler.Apply)
		}

		// Notifications
		notifications := api.Group("/notifications")
		{
			notifications.POST("/factor-change", notificationHandler.FactorChange)
			notifications.POST("/price-error", notificationHandler.PriceError)
		}

		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", middleware.RequireAdmin(svc.Auth, logger), authHandler.Me)

		// Back office
		admin := api.Group("/admin", middleware.RequireAdmin(svc.Auth, logger))
		{
			admin.PUT("/producers", producerHandler.BulkUpdate)
			admin.PUT("/producers/:slug/data", catalogHandler.ReplaceData)
			admin.PUT("/producers/:slug/products", catalogHandler.UpdateProduct)
			admin.DELETE("/producers/:slug/products", catalogHandler.DeleteProduct)

			admin.PUT("/overrides", overrideHandler.Upsert)
			admin.DELETE("/overrides/:id", overrideHandler.Delete)

			admin.POST("/scheduled-changes", scheduleHandler.Create)
			admin.POST("/scheduled-changes/preview", scheduleHandler.Preview)
			admin.GET("/scheduled-changes/:id", scheduleHandler.Get)
			admin.POST("/scheduled-changes/:id/cancel", scheduleHandler.Cancel)

			admin.POST("/images", uploadHandler.Image)
			admin.POST("/pdf", uploadHandler.PDF)
			admin.POST("/pdf/analyze", uploadHandler.AnalyzePDF)
			admin.POST("/excel/parse", uploadHandler.ParseExcel)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless handlers and tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
