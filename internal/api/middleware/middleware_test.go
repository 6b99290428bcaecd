package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func get(router *gin.Engine, remote string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	router := setupTestRouter(CORS(DefaultCORSConfig()))

	tests := []struct {
		name           string
		method         string
		origin         string
		wantStatus     int
		wantCORSHeader bool
	}{
		{name: "simple GET with origin", method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantCORSHeader: true},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", wantStatus: http.StatusNoContent, wantCORSHeader: true},
		{name: "no origin header", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORSHeader {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSRestrictedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://desktop.example.com"}
	router := setupTestRouter(CORS(cfg))

	w := get(router, "", map[string]string{"Origin": "https://desktop.example.com"})
	assert.Equal(t, "https://desktop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(router, "", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2}))

	for i := 0; i < 2; i++ {
		w := get(router, "192.168.1.1:1234", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
	}

	w := get(router, "192.168.1.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitDifferentClients(t *testing.T) {
	router := setupTestRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))

	assert.Equal(t, http.StatusOK, get(router, "192.168.1.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, get(router, "192.168.1.2:1234", nil).Code, "different IP has its own bucket")
	assert.Equal(t, http.StatusTooManyRequests, get(router, "192.168.1.1:1234", nil).Code)
}

func TestClientLimiterRefillsWithClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, clock)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	clock.Advance(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestClientLimiterSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute}, clock)

	limiter.Allow("10.0.0.1")
	clock.Advance(30 * time.Second)
	limiter.Allow("10.0.0.2")
	require.Equal(t, 2, limiter.Clients())

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Clients())
	assert.Equal(t, 0, NewClientLimiter(RateLimitConfig{}, clock).Sweep())
}

func TestGlobalRateLimit(t *testing.T) {
	router := setupTestRouter(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2}))

	assert.Equal(t, http.StatusOK, get(router, "192.168.1.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, get(router, "192.168.1.2:1234", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "192.168.1.3:1234", nil).Code)
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter(RequestID())

	w := get(router, "", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.True(t, strings.HasPrefix(generated, "req_"))

	w = get(router, "", map[string]string{RequestIDHeader: generated})
	assert.Equal(t, generated, w.Header().Get(RequestIDHeader), "valid client ids are kept")

	w = get(router, "", map[string]string{RequestIDHeader: "bogus"})
	assert.NotEqual(t, "bogus", w.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := setupTestRouter(RequestID(), Logger(zap.New(core)))
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	get(router, "", nil)
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/fail", entries[1].ContextMap()["path"])
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
}

func TestDefaultConfigs(t *testing.T) {
	cors := DefaultCORSConfig()
	assert.Contains(t, cors.AllowOrigins, "*")
	assert.Contains(t, cors.AllowMethods, http.MethodPost)
	assert.Contains(t, cors.ExposeHeaders, RequestIDHeader)
	assert.Equal(t, 12*time.Hour, cors.MaxAge)

	rl := DefaultRateLimitConfig()
	assert.Equal(t, 100, rl.RequestsPerSecond)
	assert.Equal(t, 200, rl.Burst)
}

func BenchmarkRateLimit(b *testing.B) {
	router := setupTestRouter(RateLimit(DefaultRateLimitConfig()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		get(router, "192.168.1.1:1234", nil)
	}
}
