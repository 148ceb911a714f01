package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"geobuild-atlas/internal/geo"
	"geobuild-atlas/internal/pkg/validation"

	"github.com/spf13/viper"
)

// ErrInvalidMarkerRadius is returned when ATLAS_MARKER_RADIUS would put markers
// on or inside the globe.
var ErrInvalidMarkerRadius = errors.New("ATLAS_MARKER_RADIUS must be a number greater than the globe radius")

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string // postgres:// URL, or a SQLite path/DSN
	RedisURL            string // optional; enables Redis cache, sessions and health stats
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	LogLevel            string
	MarkerRadius        float64
	FilterCacheTTL      time.Duration
	SeedFile            string // YAML dataset used instead of the embedded one
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ATLAS_MARKER_RADIUS", 2.1)
	viper.SetDefault("ATLAS_FILTER_CACHE_TTL", "5m")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		dbURL = defaultDatabaseURL(env)
	}

	markerRadius := viper.GetFloat64("ATLAS_MARKER_RADIUS")
	if !validation.IsValidRadius(markerRadius) || markerRadius <= geo.GlobeRadius {
		return nil, fmt.Errorf("%w (%g): got %q", ErrInvalidMarkerRadius, geo.GlobeRadius, viper.GetString("ATLAS_MARKER_RADIUS"))
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		MarkerRadius:        markerRadius,
		FilterCacheTTL:      viper.GetDuration("ATLAS_FILTER_CACHE_TTL"),
		SeedFile:            viper.GetString("ATLAS_SEED_FILE"),
	}, nil
}

func defaultDatabaseURL(env string) string {
	if env == "test" {
		return "file::memory:?cache=shared"
	}
	return "atlas.db"
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
