// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// UploadHandler handles CSV upload operations
type UploadHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// DashboardHandler handles dashboard lifecycle operations
type DashboardHandler interface {
	HandleSelectFile(c echo.Context) error
	HandleProcess(c echo.Context) error
	HandleGetState(c echo.Context) error
	HandleGetDataset(c echo.Context) error
	HandleGetDatasetMsgpack(c echo.Context) error
	HandleExport(c echo.Context) error
}

// SocketHandler pushes dashboard state transitions over a websocket
type SocketHandler interface {
	HandleDashboardSocket(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
