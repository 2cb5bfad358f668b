package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-builder-backend/internal/background"
	"storefront-builder-backend/internal/config"
	"storefront-builder-backend/internal/handlers"
	"storefront-builder-backend/internal/middleware"
	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/internal/seed"
	"storefront-builder-backend/internal/service"
	"storefront-builder-backend/pkg/cache"
	"storefront-builder-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	maintenance *background.Runner

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User    repository.UserRepository
	Store   repository.StoreRepository
	Page    repository.PageRepository
	Section repository.SectionRepository
}

type serviceContainer struct {
	Auth       *service.AuthService
	Store      *service.StoreService
	Page       *service.PageService
	Section    *service.SectionService
	Storefront *service.StorefrontService
}

type handlerContainer struct {
	Auth       *handlers.AuthHandler
	Store      *handlers.StoreHandler
	Page       *handlers.PageHandler
	Section    *handlers.SectionHandler
	Storefront *handlers.StorefrontHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	app.initServices()
	app.initHandlers()
	app.initRouter()

	seed.EnsureDefaultStore(cfg, app.repositories.Store, app.services.Page)

	if err := app.initMaintenance(); err != nil {
		return nil, err
	}

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.maintenance != nil {
		if err := a.maintenance.Shutdown(ctx); err != nil {
			logger.Error(err, "Maintenance runner did not stop cleanly", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Page{},
		&models.Section{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	logger.Info("Creating database indexes", nil)

	statements := []string{
		// Slug uniqueness is scoped to live rows so a soft-deleted page
		// frees its slug immediately.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_store_slug_live ON pages(store_id, slug) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_sections_page_position ON sections(page_id, position ASC)",
		"CREATE INDEX IF NOT EXISTS idx_sections_store ON sections(store_id)",
		"CREATE INDEX IF NOT EXISTS idx_pages_published ON pages(published) WHERE published = true",
		"CREATE INDEX IF NOT EXISTS idx_pages_store_type ON pages(store_id, page_type)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	enabled := a.cfg.EnableCache && a.cfg.EnableRedis

	cacheService, err := cache.NewCache(a.cfg.RedisURL, enabled)
	if err != nil {
		// Cache is an optimization here, not a dependency; degrade to
		// uncached reads rather than refusing to start.
		logger.Error(err, "Redis unavailable, continuing without cache", nil)
		cacheService, _ = cache.NewCache("", false)
	}

	a.cache = cacheService
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:    repository.NewUserRepository(a.db),
		Store:   repository.NewStoreRepository(a.db),
		Page:    repository.NewPageRepository(a.db),
		Section: repository.NewSectionRepository(a.db),
	}
}

func (a *Application) initServices() {
	a.services = serviceContainer{
		Auth:       service.NewAuthService(a.repositories.User, a.repositories.Store, a.cfg.JWTSecret, a.cfg.TokenTTLHours),
		Store:      service.NewStoreService(a.repositories.Store, a.cache),
		Page:       service.NewPageService(a.repositories.Page, a.repositories.Section, a.cache),
		Section:    service.NewSectionService(a.repositories.Section, a.repositories.Page, a.cache),
		Storefront: service.NewStorefrontService(a.repositories.Store, a.repositories.Page, a.repositories.Section, a.cache),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:       handlers.NewAuthHandler(a.services.Auth),
		Store:      handlers.NewStoreHandler(a.services.Store),
		Page:       handlers.NewPageHandler(a.services.Page),
		Section:    handlers.NewSectionHandler(a.services.Section),
		Storefront: handlers.NewStorefrontHandler(a.services.Storefront),
	}
}

func (a *Application) initMaintenance() error {
	runner := background.NewRunner()

	retention := time.Duration(a.cfg.PageRetentionDays) * 24 * time.Hour
	err := runner.Register(background.Task{
		Name:       "purge_deleted_pages",
		Interval:   time.Duration(a.cfg.MaintenanceIntervalMinutes) * time.Minute,
		Timeout:    5 * time.Minute,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			_, err := a.services.Page.PurgeDeleted(retention)
			return err
		},
	})
	if err != nil {
		return fmt.Errorf("register maintenance task: %w", err)
	}

	runner.Start(context.Background())
	a.maintenance = runner
	return nil
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.POST("/register", a.handlers.Auth.Register)
			public.POST("/login", a.handlers.Auth.Login)

			// Storefront rendering: published pages, visible sections only.
			public.GET("/storefront/:storeSlug/pages", a.handlers.Storefront.ListPages)
			public.GET("/storefront/:storeSlug/pages/:pageSlug", a.handlers.Storefront.GetPage)
		}

		editor := v1.Group("")
		editor.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			editor.GET("/store", a.handlers.Store.Get)
			editor.PUT("/store/theme", a.handlers.Store.UpdateThemeSettings)

			editor.GET("/pages", a.handlers.Page.GetAll)
			editor.POST("/pages", a.handlers.Page.Create)
			editor.GET("/pages/templates", a.handlers.Page.Templates)
			editor.GET("/pages/preview/:slug", a.handlers.Storefront.Preview)
			editor.GET("/pages/:id", a.handlers.Page.GetByID)
			editor.PUT("/pages/:id", a.handlers.Page.Update)
			editor.DELETE("/pages/:id", a.handlers.Page.Delete)
			editor.POST("/pages/:id/publish", a.handlers.Page.Publish)
			editor.POST("/pages/:id/unpublish", a.handlers.Page.Unpublish)
			editor.POST("/pages/:id/duplicate", a.handlers.Page.Duplicate)

			editor.GET("/pages/:id/sections", a.handlers.Section.List)
			editor.POST("/pages/:id/sections", a.handlers.Section.Add)
			editor.GET("/pages/:id/builder-config", a.handlers.Section.BuilderConfig)
			editor.PUT("/pages/:id/sections/reorder", a.handlers.Section.Reorder)
			editor.PUT("/pages/:id/sections/:sectionId", a.handlers.Section.Update)
			editor.DELETE("/pages/:id/sections/:sectionId", a.handlers.Section.Delete)
			editor.POST("/pages/:id/sections/:sectionId/duplicate", a.handlers.Section.Duplicate)
			editor.POST("/pages/:id/sections/:sectionId/toggle-visibility", a.handlers.Section.ToggleVisibility)
		}
	}

	a.router = router
}
