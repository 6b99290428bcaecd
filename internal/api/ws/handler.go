package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/events"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/shared/utils"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	outBuffer  = 16
)

// Message is a client command. AppID is required by window commands.
type Message struct {
	Type  string `json:"type"`
	AppID string `json:"app_id,omitempty"`
}

// Handler streams desktop events to WebSocket clients and applies the
// window commands they send
type Handler struct {
	manager  *window.Manager
	bus      *events.Bus
	tracer   *tracing.Tracer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *window.Manager, bus *events.Bus, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager: manager,
		bus:     bus,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS middleware owns origin policy
			},
		},
	}
}

// WithTracer wraps every command in a span
func (h *Handler) WithTracer(tracer *tracing.Tracer) *Handler {
	h.tracer = tracer
	return h
}

// WithMetrics adds connection and message counters
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// connection is one client. Only writeLoop writes to conn.
type connection struct {
	id         string
	conn       *websocket.Conn
	sub        *events.Subscription
	out        chan map[string]interface{}
	done       chan struct{}
	writerDone chan struct{}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cn := &connection{
		id:         uuid.New().String(),
		conn:       conn,
		sub:        h.bus.Subscribe(events.DefaultBuffer),
		out:        make(chan map[string]interface{}, outBuffer),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	logger := h.logger.With(zap.String("connection_id", cn.id))

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	logger.Info("WebSocket connected", zap.String("remote", c.ClientIP()))

	go h.writeLoop(cn, logger)

	h.reply(cn, map[string]interface{}{
		"type":          "system",
		"message":       "Connected to desktop",
		"connection_id": cn.id,
	})

	h.readLoop(c.Request.Context(), cn, logger)

	close(cn.done)
	cn.sub.Close()
	<-cn.writerDone
	logger.Info("WebSocket disconnected", zap.Int("events_dropped", cn.sub.Dropped()))
}

func (h *Handler) readLoop(ctx context.Context, cn *connection, logger *zap.Logger) {
	cn.conn.SetReadLimit(utils.MaxFrameSize)
	_ = cn.conn.SetReadDeadline(time.Now().Add(pongWait))
	cn.conn.SetPongHandler(func(string) error {
		return cn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendError(cn, "", "malformed message")
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)
		h.dispatch(ctx, cn, msg)
	}
}

func (h *Handler) dispatch(ctx context.Context, cn *connection, msg Message) {
	run := func(ctx context.Context) error {
		h.handle(ctx, cn, msg)
		return nil
	}
	if h.tracer == nil {
		_ = run(ctx)
		return
	}
	_ = h.tracer.Trace(ctx, "ws."+msg.Type, run)
}

func (h *Handler) handle(ctx context.Context, cn *connection, msg Message) {
	switch msg.Type {
	case "ping":
		h.reply(cn, map[string]interface{}{"type": "pong"})
		return
	case "zindex":
		h.reply(cn, map[string]interface{}{"type": "zindex", "z_index": h.manager.NextZIndex()})
		return
	case "snapshot":
		h.reply(cn, map[string]interface{}{
			"type":    "snapshot",
			"windows": h.manager.Snapshot(),
			"taskbar": h.manager.Taskbar(),
		})
		return
	case "close_active":
		appID, success := h.manager.CloseActive()
		h.reply(cn, map[string]interface{}{
			"type":    "ack",
			"command": msg.Type,
			"app_id":  appID,
			"success": success,
		})
		return
	}

	if err := utils.ValidateID(msg.AppID, "app_id", true); err != nil {
		h.sendError(cn, msg.Type, err.Error())
		return
	}

	var success bool
	switch msg.Type {
	case "open":
		launch, err := h.manager.OpenApp(ctx, msg.AppID)
		if err != nil {
			h.sendError(cn, msg.Type, err.Error())
			return
		}
		h.reply(cn, map[string]interface{}{
			"type":       "ack",
			"command":    msg.Type,
			"app_id":     msg.AppID,
			"success":    true,
			"reopened":   launch.Reopened,
			"generation": launch.Generation,
		})
		return
	case "close":
		success = h.manager.CloseApp(msg.AppID)
	case "minimize":
		success = h.manager.MinimizeApp(msg.AppID)
	case "maximize":
		success = h.manager.MaximizeApp(msg.AppID)
	case "focus":
		success = h.manager.BringToFront(msg.AppID)
	case "taskbar":
		success = h.manager.TaskbarClick(msg.AppID)
	default:
		h.sendError(cn, msg.Type, "unknown message type")
		return
	}

	h.reply(cn, map[string]interface{}{
		"type":    "ack",
		"command": msg.Type,
		"app_id":  msg.AppID,
		"success": success,
	})
}

func (h *Handler) writeLoop(cn *connection, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cn.conn.Close()
		close(cn.writerDone)
	}()

	for {
		select {
		case <-cn.done:
			_ = cn.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case frame := <-cn.out:
			if err := h.write(cn, frame); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}

		case env, ok := <-cn.sub.C():
			if !ok {
				return
			}
			if err := h.write(cn, map[string]interface{}{"type": "event", "event": env}); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := cn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(cn *connection, frame map[string]interface{}) error {
	frame["timestamp"] = time.Now().Unix()
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}
	_ = cn.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cn.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if t, ok := frame["type"].(string); ok {
		h.metrics.RecordWSMessage("out", t)
	}
	return nil
}

// reply queues a frame for the writer. Frames are dropped once the
// writer has exited.
func (h *Handler) reply(cn *connection, frame map[string]interface{}) {
	select {
	case cn.out <- frame:
	case <-cn.writerDone:
	}
}

func (h *Handler) sendError(cn *connection, command, msg string) {
	frame := map[string]interface{}{
		"type":    "error",
		"message": msg,
	}
	if command != "" {
		frame["command"] = command
	}
	h.reply(cn, frame)
}
