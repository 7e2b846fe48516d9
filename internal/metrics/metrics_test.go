package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/units/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/units/7", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/units/:id",status="204"} 2`)
	assert.Contains(t, body, `test_http_requests_inflight{route="/api/units/:id"} 0`)
}

func TestMiddlewareRecordsPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	recovered := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				recovered++
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}, m.Middleware())
	r.GET("/api/persons/:id", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/persons/3", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, recovered)

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/persons/:id",status="500"} 1`)
	assert.Contains(t, body, `test_http_requests_inflight{route="/api/persons/:id"} 0`)
}

func TestLoginAttempt(t *testing.T) {
	m := New("test")
	m.LoginAttempt(LoginSuccess)
	m.LoginAttempt(LoginSuccess)
	m.LoginAttempt(LoginInvalidCredentials)

	body := scrape(t, m)
	assert.Contains(t, body, `test_login_attempts_total{outcome="success"} 2`)
	assert.Contains(t, body, `test_login_attempts_total{outcome="invalid_credentials"} 1`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.LoginAttempt(LoginSuccess) })
}
