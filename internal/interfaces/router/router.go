package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	atlassvc "geobuild-atlas/internal/application/atlas"
	"geobuild-atlas/internal/application/catalog"
	healthsvc "geobuild-atlas/internal/application/health"
	"geobuild-atlas/internal/cache"
	"geobuild-atlas/internal/config"
	"geobuild-atlas/internal/infrastructure/database"
	"geobuild-atlas/internal/infrastructure/seed"
	atlashandler "geobuild-atlas/internal/interfaces/handlers/atlas"
	healthhandler "geobuild-atlas/internal/interfaces/handlers/health"
	"geobuild-atlas/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const memoryCacheCleanup = 10 * time.Minute

// LoadCatalog opens the configured database, creates and seeds the projects
// table on first run, and reads the working set back in dataset order.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := database.Open(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	projects, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}
	if _, err := database.Seed(ctx, db, projects); err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(ctx, &database.Source{DB: db})
	if err != nil {
		return nil, nil, err
	}
	return cat, db, nil
}

// NewCache returns a Redis-backed cache when rdb is set, otherwise an in-process one.
func NewCache(rdb *redis.Client, ttl time.Duration) (cache.Cache, string) {
	if rdb != nil {
		return cache.NewRedisCache(rdb), "redis"
	}
	return cache.NewMemoryCache(ttl, memoryCacheCleanup), "memory"
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	ctx := context.Background()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opt)
	}

	cat, db, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	store, cacheMode := NewCache(rdb, cfg.FilterCacheTTL)
	log.Info().Str("cache", cacheMode).Int("projects", cat.Len()).Msg("Atlas ready")

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(rdb))

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &database.Source{DB: db},
		HealthAdminKey: cfg.HealthAdminKey,
		Dataset: func() healthsvc.DatasetInfo {
			return healthsvc.DatasetInfo{Projects: cat.Len(), CacheMode: cacheMode}
		},
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	svc := &atlassvc.Service{
		Catalog:      cat,
		Cache:        store,
		CacheTTL:     cfg.FilterCacheTTL,
		MarkerRadius: cfg.MarkerRadius,
	}
	session := middleware.Session(middleware.SessionConfig{
		Store:             store,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	})
	ah := &atlashandler.Handlers{Service: svc}
	ah.Register(app.Group("/api/v1/atlas", session))

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
