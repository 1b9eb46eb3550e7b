package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the config feature.
// The rendered beets configuration is not served, since it holds interpolated secrets.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	handler := NewHandler(configManager)

	group := app.Group("/config")
	group.Get("/", handler.GetConfig)
	group.Get("/database/download", handler.DownloadDatabase)
}
