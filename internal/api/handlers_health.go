// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/session"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version         string
	sessions        *session.Manager
	exportAvailable bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessions *session.Manager, exportAvailable bool) HealthHandler {
	return &HealthHandlerImpl{
		version:         version,
		sessions:        sessions,
		exportAvailable: exportAvailable,
	}
}

// HandleHealth returns server health status, including how many dashboard
// sessions are live and whether PDF export is configured.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"version":         h.version,
		"activeSessions":  h.sessions.Count(),
		"exportAvailable": h.exportAvailable,
	})
}
