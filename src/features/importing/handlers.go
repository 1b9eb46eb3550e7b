package importing

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the importing feature.
type Handler struct {
	dispatcher *Dispatcher
	submitter  Submitter
	root       string
}

// NewHandler creates a new handler for the importing feature.
// Manual imports are handed to submitter so shutdown waits for them.
func NewHandler(dispatcher *Dispatcher, submitter Submitter, root string) *Handler {
	return &Handler{dispatcher: dispatcher, submitter: submitter, root: root}
}

// GetProcessed lists the directories currently considered dispatched.
func (h *Handler) GetProcessed(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"directories": h.dispatcher.Processed(),
	})
}

// ForgetProcessed removes a directory from the processed list.
func (h *Handler) ForgetProcessed(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing path query parameter",
		})
	}
	h.dispatcher.Forget(path)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHistory returns the latest dispatch outcomes.
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	outcomes, err := h.dispatcher.Recent(c.Context(), limit)
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		slog.Error("Failed to read dispatch history", "error", err)
		return err
	}
	return c.JSON(outcomes)
}

// ImportDirectory dispatches a directory under the unsorted path without waiting for a watch event.
func (h *Handler) ImportDirectory(c *fiber.Ctx) error {
	type ImportPathRequest struct {
		DirectoryPath string `json:"directoryPath"`
	}
	var req ImportPathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot parse request body",
		})
	}
	path := filepath.Clean(req.DirectoryPath)
	if !isWithin(h.root, path) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "directory must be inside " + h.root,
		})
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "not a directory: " + path,
		})
	}

	if !h.submitter.Submit(Action{Kind: ActionImportDirectory, Path: path}) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "watcher is shutting down",
		})
	}
	slog.Info("ImportDirectory: directory import started", "path", path)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
		"path":   path,
	})
}

// isWithin reports whether path is root or lies below it.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
