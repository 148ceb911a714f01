package health

import (
	"context"

	healthsvc "geobuild-atlas/internal/application/health"
	"geobuild-atlas/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints. Rdb and DB may be nil.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	HealthAdminKey string
	// Dataset reports the loaded working set; nil reports an empty one.
	Dataset func() healthsvc.DatasetInfo
}

func (h *Handlers) collect(ctx context.Context) healthsvc.CollectResult {
	var ds healthsvc.DatasetInfo
	if h.Dataset != nil {
		ds = h.Dataset()
	}
	return healthsvc.CollectHealth(ctx, h.Rdb, h.DB, ds)
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Rdb == nil {
		return response.Error(c, "Redis is not configured", fiber.StatusServiceUnavailable, nil)
	}
	if err := healthsvc.ResetStats(context.Background(), h.Rdb); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := h.collect(context.Background())
	return c.JSON(fiber.Map{
		"service":      healthsvc.ServiceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dataset":      result.Dataset,
		"dependencies": result.Dependencies,
	})
}

// Errors returns the last 50 error log entries.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries, err := healthsvc.RecentErrors(context.Background(), h.Rdb)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	return c.JSON(entries)
}

// Dashboard returns the HTML status page.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	html, err := healthsvc.RenderDashboardHTML(h.collect(context.Background()))
	if err != nil {
		return err
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(html)
}
