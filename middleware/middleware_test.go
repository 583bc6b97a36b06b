package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-service/internal/config"
	"docqa-service/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	router := gin.New()
	router.Use(RateLimitMiddleware(rdb, 1, 60))
	router.POST("/ask", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// countingRedis counts Incr calls per key; every other command is unused.
type countingRedis struct {
	redis.Cmdable
	counts map[string]int64
}

func (r *countingRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	r.counts[key]++
	return redis.NewIntResult(r.counts[key], nil)
}

func (r *countingRedis) Expire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func TestRateLimitMiddleware_RejectsOverLimit(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(&countingRedis{counts: map[string]int64{}}, 2, 60))
	router.POST("/ask", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.JSONEq(t, `{"error": "Too many requests. Please try again later."}`, w.Body.String())
}

func TestRequestSizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestSizeLimit(16))
	router.POST("/ask", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"q":"short"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Request body exceeds maximum size"`)
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	metrics, err := telemetry.InitMetrics()
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestLogger(), MetricsMiddleware(metrics), EnrichTrace())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	}
}

func TestCORSMiddlewareWithOrigins(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddlewareWithOrigins([]string{"http://localhost:3000", " "}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSMiddlewareWithOrigins_ConfigAcceptedLists(t *testing.T) {
	lists := [][]string{
		nil,
		{"*"},
		{"*", "https://docs.example.com"},
		{" https://docs.example.com ", ""},
	}
	for _, origins := range lists {
		cfg := &config.Config{
			GeminiAPIKey:  "k",
			ChunkSize:     100,
			ChunkOverlap:  10,
			RetrievalK:    5,
			QuotaLimit:    5,
			HistoryLimit:  5,
			PromptVariant: config.PromptVariantBasic,
			StoreDriver:   config.StoreDriverMemory,
			CORSOrigins:   origins,
		}
		require.NoError(t, cfg.Validate())
		assert.NotPanics(t, func() { CORSMiddlewareWithOrigins(origins) })
	}
}
