package bootstrap

import (
	"geobuild-atlas/internal/config"
	"geobuild-atlas/internal/interfaces/router"
	"geobuild-atlas/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosts (the api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.Env)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
