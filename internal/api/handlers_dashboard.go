// handlers_dashboard.go - Dashboard lifecycle handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/dashboard"
	"github.com/media-dashboard/backend/internal/session"
	"github.com/media-dashboard/backend/internal/storage"
	"github.com/vmihailenco/msgpack/v5"
)

// SessionHeader carries the dashboard session id. Requests without one (or
// with a stale id) get a fresh session; the response always echoes the id
// back so the client can stick to it.
const SessionHeader = "X-Session-ID"

// DashboardHandlerImpl implements the DashboardHandler interface
type DashboardHandlerImpl struct {
	store    storage.Store
	sessions *session.Manager
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(store storage.Store, sessions *session.Manager) DashboardHandler {
	return &DashboardHandlerImpl{store: store, sessions: sessions}
}

type selectFileRequest struct {
	FileID string `json:"fileId"`
}

// HandleSelectFile marks an uploaded file as the dashboard's current
// selection. Validation outcome is reported through the dashboard state, the
// same way the page reports it.
func (h *DashboardHandlerImpl) HandleSelectFile(c echo.Context) error {
	var req selectFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	sess := resolveSession(c, h.sessions)
	state := sess.Controller.SelectFile(info)
	return c.JSON(http.StatusOK, state)
}

// HandleProcess kicks off dataset processing for the selected file. The
// response carries the transitional state; completion is observed via
// GET state or the websocket.
func (h *DashboardHandlerImpl) HandleProcess(c echo.Context) error {
	sess := resolveSession(c, h.sessions)
	state := sess.Controller.RequestProcess()
	return c.JSON(http.StatusAccepted, state)
}

// HandleGetState returns the current dashboard state
func (h *DashboardHandlerImpl) HandleGetState(c echo.Context) error {
	sess := resolveSession(c, h.sessions)
	return c.JSON(http.StatusOK, sess.Controller.State())
}

// HandleGetDataset returns the processed dataset as JSON
func (h *DashboardHandlerImpl) HandleGetDataset(c echo.Context) error {
	sess := resolveSession(c, h.sessions)
	dataset, ok := sess.Controller.Dataset()
	if !ok {
		return NewNotFoundError("dataset", sess.ID)
	}
	return c.JSON(http.StatusOK, dataset)
}

// HandleGetDatasetMsgpack returns the processed dataset in MessagePack
// format for clients that want the compact encoding.
func (h *DashboardHandlerImpl) HandleGetDatasetMsgpack(c echo.Context) error {
	sess := resolveSession(c, h.sessions)
	dataset, ok := sess.Controller.Dataset()
	if !ok {
		return NewNotFoundError("dataset", sess.ID)
	}

	data, err := msgpack.Marshal(dataset)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleExport renders the current dataset into a PDF attachment
func (h *DashboardHandlerImpl) HandleExport(c echo.Context) error {
	sess := resolveSession(c, h.sessions)

	doc, filename, err := sess.Controller.RequestExport(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrNotReady):
			return NewConflictError("dashboard has no processed dataset to export")
		case errors.Is(err, dashboard.ErrExporterUnavailable):
			return NewServiceUnavailableError("pdf export is not available")
		default:
			return NewProcessingError("failed to export dashboard", err)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// resolveSession finds the caller's session or creates one. The session id
// is always echoed on the response.
func resolveSession(c echo.Context, sessions *session.Manager) *session.State {
	id := c.Request().Header.Get(SessionHeader)
	if id == "" {
		id = c.QueryParam("session")
	}

	var sess *session.State
	if id != "" {
		sess, _ = sessions.Get(id)
	}
	if sess == nil {
		sess = sessions.Create()
	}

	c.Response().Header().Set(SessionHeader, sess.ID)
	return sess
}
