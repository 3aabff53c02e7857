// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/session"
	"github.com/media-dashboard/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store           storage.Store
	Sessions        *session.Manager
	RecentLimit     int
	MaxUploadBytes  int64
	Version         string
	ExportAvailable bool
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Upload    UploadHandler
	Dashboard DashboardHandler
	Socket    SocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Sessions, deps.ExportAvailable),
		Upload:    NewUploadHandler(deps.Store, deps.RecentLimit, deps.MaxUploadBytes),
		Dashboard: NewDashboardHandler(deps.Store, deps.Sessions),
		Socket:    NewSocketHandler(deps.Sessions),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/health", handlers.Health.HandleHealth)

	fileGroup := e.Group("/api/files")
	fileGroup.POST("/upload", handlers.Upload.HandleUploadFile)
	fileGroup.GET("/recent", handlers.Upload.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Upload.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Upload.HandleDeleteFile)

	dashGroup := e.Group("/api/dashboard")
	dashGroup.POST("/select", handlers.Dashboard.HandleSelectFile)
	dashGroup.POST("/process", handlers.Dashboard.HandleProcess)
	dashGroup.GET("/state", handlers.Dashboard.HandleGetState)
	dashGroup.GET("/dataset", handlers.Dashboard.HandleGetDataset)
	dashGroup.GET("/dataset/msgpack", handlers.Dashboard.HandleGetDatasetMsgpack)
	dashGroup.POST("/export", handlers.Dashboard.HandleExport)

	e.GET("/api/ws/dashboard", handlers.Socket.HandleDashboardSocket)
}
