package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func serve(r *gin.Engine, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============== Correlation ID ==============

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generated when absent", ""},
		{"propagated when present", "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx, fromGin string
			r := newRouter(CorrelationID())
			r.GET("/x", func(c *gin.Context) {
				fromCtx = logger.CorrelationIDFromContext(c.Request.Context())
				fromGin = GetCorrelationID(c)
				c.Status(http.StatusOK)
			})

			headers := map[string]string{}
			if tt.incoming != "" {
				headers[CorrelationIDHeader] = tt.incoming
			}
			w := serve(r, http.MethodGet, "/x", "", headers)

			require.NotEmpty(t, fromCtx)
			assert.Equal(t, fromCtx, fromGin)
			assert.Equal(t, fromCtx, w.Header().Get(CorrelationIDHeader))
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, fromCtx)
			}
		})
	}
}

// ============== Security headers ==============

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", "", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

// ============== Recovery ==============

func TestRecovery(t *testing.T) {
	r := newRouter(CorrelationID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/boom", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

// ============== Logger and metrics ==============

func TestRequestLoggerAndMetrics_PassThrough(t *testing.T) {
	r := newRouter(RequestLogger("/healthz"), Metrics("test"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/bad", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/missing", "", nil).Code)
}

// ============== Validation ==============

type blockRequest struct {
	Address string `json:"address" binding:"required"`
	Country string `json:"country" binding:"required,len=2"`
}

func TestValidateAndBind(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"address":"1 Main St","country":"US"}`, http.StatusOK},
		{"missing field", `{"country":"US"}`, http.StatusBadRequest},
		{"bad country length", `{"address":"1 Main St","country":"USA"}`, http.StatusBadRequest},
		{"malformed json", `{"address":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter()
			r.POST("/x", func(c *gin.Context) {
				var req blockRequest
				if !ValidateAndBind(c, &req) {
					return
				}
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodPost, "/x", tt.body, map[string]string{"Content-Type": "application/json"})

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	r := newRouter(MaxBodySize(16))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", "small", nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, http.MethodPost, "/x", strings.Repeat("a", 64), nil).Code)
}
