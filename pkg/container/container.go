package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"sunkissed-backend/internal/config"
	infraCache "sunkissed-backend/internal/infrastructure/cache"
	"sunkissed-backend/internal/infrastructure/database"
	"sunkissed-backend/internal/infrastructure/storage"
	"sunkissed-backend/pkg/cache"
	"sunkissed-backend/pkg/jwt"
	"sunkissed-backend/pkg/logger"

	adminHandler "sunkissed-backend/internal/domains/admin/handler"
	adminRepo "sunkissed-backend/internal/domains/admin/repository"
	adminService "sunkissed-backend/internal/domains/admin/service"
	catalogHandler "sunkissed-backend/internal/domains/catalog/handler"
	catalogRepo "sunkissed-backend/internal/domains/catalog/repository"
	catalogService "sunkissed-backend/internal/domains/catalog/service"
	communityHandler "sunkissed-backend/internal/domains/community/handler"
	communityRepo "sunkissed-backend/internal/domains/community/repository"
	communityService "sunkissed-backend/internal/domains/community/service"
	designHandler "sunkissed-backend/internal/domains/design/handler"
	designRepo "sunkissed-backend/internal/domains/design/repository"
	designService "sunkissed-backend/internal/domains/design/service"
	mediaHandler "sunkissed-backend/internal/domains/media/handler"
	mediaRepo "sunkissed-backend/internal/domains/media/repository"
	mediaService "sunkissed-backend/internal/domains/media/service"
	orderHandler "sunkissed-backend/internal/domains/order/handler"
	orderRepo "sunkissed-backend/internal/domains/order/repository"
	orderService "sunkissed-backend/internal/domains/order/service"
	productHandler "sunkissed-backend/internal/domains/product/handler"
	productRepo "sunkissed-backend/internal/domains/product/repository"
	productService "sunkissed-backend/internal/domains/product/service"
	settingsHandler "sunkissed-backend/internal/domains/settings/handler"
	settingsRepo "sunkissed-backend/internal/domains/settings/repository"
	settingsService "sunkissed-backend/internal/domains/settings/service"
)

const settingsCacheTTL = 5 * time.Minute

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the API and the
// worker. Everything in it is a singleton for the process lifetime.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CatalogRepo   catalogRepo.Repository
	DesignRepo    designRepo.Repository
	CommunityRepo communityRepo.Repository
	SettingsRepo  settingsRepo.Repository
	AdminRepo     adminRepo.Repository
	UploadRepo    mediaRepo.Repository
	ProductRepo   productRepo.Repository
	OrderRepo     orderRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	CatalogService   catalogService.ServiceInterface
	DesignService    designService.ServiceInterface
	SessionService   designService.SessionServiceInterface
	CommunityService communityService.ServiceInterface
	SettingsService  settingsService.ServiceInterface
	AdminService     adminService.ServiceInterface
	UploadService    mediaService.ServiceInterface
	ProductService   productService.ServiceInterface
	OrderService     orderService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	CatalogHandler   *catalogHandler.Handler
	DesignHandler    *designHandler.DesignHandler
	BuilderHandler   *designHandler.BuilderHandler
	CommunityHandler *communityHandler.CommunityHandler
	SettingsHandler  *settingsHandler.SettingsHandler
	AdminHandler     *adminHandler.AdminHandler
	UploadHandler    *mediaHandler.UploadHandler
	ProductHandler   *productHandler.ProductHandler
	OrderHandler     *orderHandler.OrderHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole dependency graph. Order matters:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("Initializing container", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.Pool); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	logger.Debug("Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.Cache = c.initCache(ctx)

	// ========================================
	// STEP 4: AUTH, STORAGE, QUEUE
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store
	c.ImageProcessor = storage.NewImageProcessor(cfg.Worker.UploadMaxBytes)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	if err := c.seedAdmin(ctx); err != nil {
		return nil, err
	}

	logger.Info("Container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initCache connects Redis, falling back to the in-process cache when Redis
// is disabled. A failed Redis connection is logged and tolerated; every
// cache consumer treats errors as misses.
func (c *Container) initCache(ctx context.Context) cache.Cache {
	if c.Config.Redis.Disabled {
		logger.Warn("Redis disabled, using in-memory cache", nil)
		return cache.NewMemoryCache()
	}

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{
				"host":  c.Config.Redis.Host,
				"error": err.Error(),
			})
		} else {
			logger.Debug("Redis connected")
		}
	}
	return redisCache
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.DesignRepo = designRepo.NewPostgresRepository(pool)
	c.CommunityRepo = communityRepo.NewPostgresRepository(pool)
	c.SettingsRepo = settingsRepo.NewPostgresRepository(pool)
	c.AdminRepo = adminRepo.NewPostgresRepository(pool)
	c.UploadRepo = mediaRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	// ----------------------------------------
	// CATALOG + DESIGN
	// ----------------------------------------
	// The catalog service doubles as the design domain's CatalogReader.
	catalog := catalogService.NewService(c.CatalogRepo, c.Cache, cfg.Builder.CatalogCacheTTL)
	c.CatalogService = catalog

	designs := designService.NewService(c.DesignRepo, catalog, c.Cache, c.AsynqClient, designService.Options{
		ShareCodeAttempts: cfg.Builder.ShareCodeAttempts,
		TrendingWindow:    cfg.Worker.TrendingWindow,
		TrendingLimit:     cfg.Worker.TrendingLimit,
	})
	c.DesignService = designs

	c.SessionService = designService.NewSessionService(c.Cache, catalog, designs, designService.SessionOptions{
		TTL:     cfg.Builder.SessionTTL,
		LockTTL: cfg.Builder.ShareLockTTL,
	})

	// ----------------------------------------
	// COMMUNITY
	// ----------------------------------------
	c.CommunityService = communityService.NewService(c.CommunityRepo, designs, c.Cache, communityService.Options{})

	// ----------------------------------------
	// STORE ADMIN
	// ----------------------------------------
	c.SettingsService = settingsService.NewService(c.SettingsRepo, c.Cache, settingsCacheTTL)
	c.AdminService = adminService.NewService(c.AdminRepo, c.JWTManager, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ----------------------------------------
	// SHOP
	// ----------------------------------------
	c.ProductService = productService.NewService(c.ProductRepo, c.Cache, cfg.Builder.CatalogCacheTTL)
	c.OrderService = orderService.NewService(c.OrderRepo)

	// ----------------------------------------
	// MEDIA
	// ----------------------------------------
	c.UploadService = mediaService.NewService(c.UploadRepo, c.Storage, c.ImageProcessor, c.AsynqClient)
}

func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewHandler(c.CatalogService)
	c.DesignHandler = designHandler.NewDesignHandler(c.DesignService)
	c.BuilderHandler = designHandler.NewBuilderHandler(c.SessionService)
	c.CommunityHandler = communityHandler.NewCommunityHandler(c.CommunityService)
	c.SettingsHandler = settingsHandler.NewSettingsHandler(c.SettingsService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminService)
	c.UploadHandler = mediaHandler.NewUploadHandler(c.UploadService, c.Config.Worker.UploadMaxBytes)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
}

func (c *Container) seedAdmin(ctx context.Context) error {
	seed := c.Config.Admin
	if seed.SeedEmail == "" || seed.SeedPassword == "" {
		return nil
	}
	if err := c.AdminService.SeedAdmin(ctx, seed.SeedEmail, seed.SeedPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

// Cleanup releases connections. Call it on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	logger.Info("Container cleanup completed", nil)
}
