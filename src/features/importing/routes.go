package importing

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the importing feature.
func RegisterRoutes(app *fiber.App, dispatcher *Dispatcher, submitter Submitter, root string) {
	handler := NewHandler(dispatcher, submitter, root)

	app.Get("/import/processed", handler.GetProcessed)
	app.Delete("/import/processed", handler.ForgetProcessed)
	app.Get("/import/history", handler.GetHistory)
	app.Post("/import/directory", handler.ImportDirectory)
}
