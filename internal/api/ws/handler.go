package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webos/internal/providers/terminal"
	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/shared/utils"
	"github.com/GriffinCanCode/webos/internal/shell"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = utils.MaxCommandLength + 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

// Handler manages WebSocket terminal connections
type Handler struct {
	terminals *terminal.Manager
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(terminals *terminal.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{terminals: terminals, metrics: metrics, logger: logger}
}

// HandleConnection upgrades the request and runs a terminal session until the socket closes
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	info, err := h.terminals.CreateSession(c.Query("cwd"))
	if err != nil {
		h.send(conn, types.WSMessage{Type: "error", Message: err.Error()})
		return
	}
	defer func() {
		_ = h.terminals.Kill(info.ID)
	}()

	h.send(conn, types.WSMessage{
		Type:    "prompt",
		Session: info.ID,
		Prompt:  info.Prompt,
		Cwd:     info.WorkingDir,
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("WebSocket read error", zap.String("session", info.ID), zap.Error(err))
			}
			return
		}
		h.record("in", msg.Type)

		switch msg.Type {
		case "command":
			line := msg.Message
			if line == "" {
				line = msg.Content
			}
			h.handleCommand(conn, info.ID, line)
		case "ping":
			h.send(conn, types.WSMessage{Type: "pong"})
		default:
			h.send(conn, types.WSMessage{Type: "error", Message: "unknown message type"})
		}
	}
}

func (h *Handler) handleCommand(conn *websocket.Conn, sessionID, line string) {
	if err := utils.ValidateCommand(line); err != nil {
		h.send(conn, types.WSMessage{Type: "error", Message: err.Error()})
		return
	}

	out, err := h.terminals.Execute(sessionID, line)
	if err != nil {
		h.send(conn, types.WSMessage{Type: "error", Message: err.Error()})
		return
	}

	reply := types.WSMessage{
		Type:    "output",
		Content: out.Output,
		Prompt:  out.Prompt,
		Cwd:     out.Cwd,
	}
	if out.Output == shell.ClearScreen {
		reply.Type = "clear"
		reply.Content = ""
	}
	h.send(conn, reply)
}

func (h *Handler) send(conn *websocket.Conn, msg types.WSMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return
	}
	h.record("out", msg.Type)
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics == nil {
		return
	}
	switch msgType {
	case "command", "ping", "prompt", "output", "clear", "pong", "error":
	default:
		msgType = "other"
	}
	h.metrics.RecordWSMessage(direction, msgType)
}
