package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/events"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/tracing"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame map[string]interface{}

type streamFixture struct {
	manager *window.Manager
	bus     *events.Bus
	metrics *monitoring.Metrics
	url     string
}

func newStream(t *testing.T) *streamFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.Default()
	cfg := window.DefaultConfig()
	metrics := monitoring.NewMetrics()
	bus := events.NewBus(events.DefaultHistory)
	manager := window.NewManager(cfg, surface.NewDesktop(cfg.Viewport, cat.IDs(), 1), nil, cat).
		WithClock(clockwork.NewFakeClock()).
		WithObserver(bus)

	tracer := tracing.New("desktop-test", nil)
	t.Cleanup(tracer.Close)

	router := gin.New()
	router.GET("/stream", NewHandler(manager, bus, nil).WithTracer(tracer).WithMetrics(metrics).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &streamFixture{
		manager: manager,
		bus:     bus,
		metrics: metrics,
		url:     "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream",
	}
}

func (f *streamFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := readUntil(t, conn, func(fr frame) bool { return fr["type"] == "system" })
	require.NotEmpty(t, welcome["connection_id"])
	return conn
}

// readUntil reads frames until match accepts one
func readUntil(t *testing.T, conn *websocket.Conn, match func(frame) bool) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var fr frame
		require.NoError(t, conn.ReadJSON(&fr))
		if match(fr) {
			return fr
		}
	}
}

func isAck(command string) func(frame) bool {
	return func(fr frame) bool { return fr["type"] == "ack" && fr["command"] == command }
}

func TestPingPong(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	fr := readUntil(t, conn, func(fr frame) bool { return fr["type"] == "pong" })
	assert.NotNil(t, fr["timestamp"])
}

func TestOpenCommandStreamsEvents(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteJSON(Message{Type: "open", AppID: "notepad"}))

	ack := readUntil(t, conn, isAck("open"))
	assert.Equal(t, "notepad", ack["app_id"])
	assert.Equal(t, true, ack["success"])
	assert.Equal(t, false, ack["reopened"])

	opened := readUntil(t, conn, func(fr frame) bool {
		ev, ok := fr["event"].(map[string]interface{})
		return ok && ev["kind"] == string(window.EventOpened)
	})
	ev := opened["event"].(map[string]interface{})
	assert.Equal(t, "notepad", ev["app_id"])
	assert.Equal(t, float64(21), ev["z_index"])

	assert.True(t, f.manager.IsOpen("notepad"))
}

func TestWindowCommands(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)

	for _, cmd := range []string{"open", "maximize", "minimize", "taskbar", "focus", "close"} {
		require.NoError(t, conn.WriteJSON(Message{Type: cmd, AppID: "calculator"}))
		ack := readUntil(t, conn, isAck(cmd))
		assert.Equal(t, true, ack["success"], cmd)
	}
	assert.False(t, f.manager.IsOpen("calculator"))

	require.NoError(t, conn.WriteJSON(Message{Type: "close", AppID: "calculator"}))
	ack := readUntil(t, conn, isAck("close"))
	assert.Equal(t, false, ack["success"])
}

func TestCloseActive(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)
	for _, id := range []string{"notepad", "paint"} {
		_, err := f.manager.OpenApp(t.Context(), id)
		require.NoError(t, err)
	}

	for _, want := range []string{"paint", "notepad"} {
		require.NoError(t, conn.WriteJSON(Message{Type: "close_active"}))
		ack := readUntil(t, conn, isAck("close_active"))
		assert.Equal(t, want, ack["app_id"])
		assert.Equal(t, true, ack["success"])
		assert.False(t, f.manager.IsOpen(want))
	}

	require.NoError(t, conn.WriteJSON(Message{Type: "close_active"}))
	ack := readUntil(t, conn, isAck("close_active"))
	assert.Equal(t, false, ack["success"])
}

func TestQueries(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)
	_, err := f.manager.OpenApp(t.Context(), "paint")
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Message{Type: "zindex"}))
	fr := readUntil(t, conn, func(fr frame) bool { return fr["type"] == "zindex" })
	assert.Equal(t, float64(22), fr["z_index"])

	require.NoError(t, conn.WriteJSON(Message{Type: "snapshot"}))
	fr = readUntil(t, conn, func(fr frame) bool { return fr["type"] == "snapshot" })
	require.Len(t, fr["windows"], 1)
	require.Len(t, fr["taskbar"], 1)
}

func TestErrors(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	fr := readUntil(t, conn, func(fr frame) bool { return fr["type"] == "error" })
	assert.Equal(t, "malformed message", fr["message"])

	require.NoError(t, conn.WriteJSON(Message{Type: "open"}))
	fr = readUntil(t, conn, func(fr frame) bool { return fr["type"] == "error" })
	assert.Equal(t, "app_id is required", fr["message"])

	require.NoError(t, conn.WriteJSON(Message{Type: "open", AppID: "solitaire"}))
	fr = readUntil(t, conn, func(fr frame) bool { return fr["type"] == "error" })
	assert.Equal(t, "window element not found for app: solitaire", fr["message"])

	require.NoError(t, conn.WriteJSON(Message{Type: "launch", AppID: "paint"}))
	fr = readUntil(t, conn, func(fr frame) bool { return fr["type"] == "error" })
	assert.Equal(t, "unknown message type", fr["message"])
}

func TestDisconnectReleasesSubscription(t *testing.T) {
	f := newStream(t)
	conn := f.dial(t)
	assert.Equal(t, 1, f.bus.Subscribers())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return f.bus.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
