package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ticketrack/ticketrack/pkg/util"
)

// SPAHandler serves the single-page application shell for every path the
// client-side router owns, i.e. everything outside /api.
type SPAHandler struct {
	staticDir string
}

// NewSPAHandler returns a handler rooted at the build output directory.
func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{staticDir: staticDir}
}

// Fallback answers unmatched routes. API paths get a JSON 404; everything
// else gets index.html so client-side routing can take over.
func (h *SPAHandler) Fallback(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api") {
		return apperrors.NewNotFound("route", nil)
	}

	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return apperrors.NewNotFound("route", nil)
	}
	return c.SendFile(index)
}
