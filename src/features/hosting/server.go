package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
	"github.com/contre95/beetwatch/src/features/metrics"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP status server for the watcher.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates the status server. Manual imports are handed to submitter.
func NewServer(cfg *config.Manager, dispatcher *importing.Dispatcher, submitter importing.Submitter) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("Internal Server Error", "error", err)
			}
			return c.Status(code).SendString(err.Error())
		},
		AppName:               "Beetwatch",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(RequestLogger("/health", "/metrics"))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	metrics.RegisterRoutes(app)
	config.RegisterRoutes(app, cfg)
	importing.RegisterRoutes(app, dispatcher, submitter, cfg.Get().UnsortedPath)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
