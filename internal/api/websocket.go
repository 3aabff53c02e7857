// websocket.go - Dashboard state push over websocket
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// Server -> client message types
const (
	MsgTypeState = "state"
	MsgTypeError = "error"
)

// WSStateMessage wraps a dashboard state snapshot for the wire
type WSStateMessage struct {
	Type      string                `json:"type"`
	SessionID string                `json:"sessionId"`
	State     models.DashboardState `json:"state"`
	Timestamp int64                 `json:"timestamp"`
}

// SocketHandlerImpl implements the SocketHandler interface
type SocketHandlerImpl struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
}

// NewSocketHandler creates a websocket handler for dashboard state pushes
func NewSocketHandler(sessions *session.Manager) SocketHandler {
	return &SocketHandlerImpl{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Same trust model as the REST API; CORS is enforced there.
				return true
			},
		},
	}
}

// HandleDashboardSocket upgrades the connection and streams every state
// transition of the caller's session until the client disconnects.
func (h *SocketHandlerImpl) HandleDashboardSocket(c echo.Context) error {
	sess := resolveSession(c, h.sessions)

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return NewBadRequestError("websocket upgrade failed", err)
	}
	defer ws.Close()

	listenerID, states := sess.Controller.Subscribe()
	defer sess.Controller.Unsubscribe(listenerID)

	// Initial snapshot so the client renders without waiting for a change.
	if err := h.writeState(ws, sess.ID, sess.Controller.State()); err != nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-states:
			if !ok {
				return nil
			}
			if err := h.writeState(ws, sess.ID, state); err != nil {
				fmt.Printf("[WS %s] write failed: %v\n", sess.ID[:8], err)
				return nil
			}
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteWait)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}

func (h *SocketHandlerImpl) writeState(ws *websocket.Conn, sessionID string, state models.DashboardState) error {
	ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return ws.WriteJSON(WSStateMessage{
		Type:      MsgTypeState,
		SessionID: sessionID,
		State:     state,
		Timestamp: time.Now().UnixMilli(),
	})
}
