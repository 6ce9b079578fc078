package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOriginHost(t *testing.T) {
	c := qt.New(t)

	c.Assert(originHost("https://Shop.Example.com/"), qt.Equals, "shop.example.com")
	c.Assert(originHost("https://shop.example.com:443"), qt.Equals, "shop.example.com")
	c.Assert(originHost("http://localhost:5173"), qt.Equals, "localhost:5173")
	c.Assert(originHost("not a url"), qt.Equals, "")
	c.Assert(originHost(""), qt.Equals, "")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"localhost:5173"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "allowed", method: http.MethodGet, origin: "http://localhost:5173", wantStatus: http.StatusOK, wantOrigin: "http://localhost:5173"},
		{name: "foreign", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:5173", wantStatus: http.StatusNoContent, wantOrigin: "http://localhost:5173"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			req := httptest.NewRequest(tt.method, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			c.Assert(w.Code, qt.Equals, tt.wantStatus)
			c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, tt.wantOrigin)
		})
	}
}

func adminRouter(m *JWTMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/admin", m.Handle(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminSubjectKey))
	})
	r.GET("/events", m.HandleQuery(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminSubjectKey))
	})
	return r
}

func TestJWTMiddleware(t *testing.T) {
	c := qt.New(t)

	token, err := utils.GenerateJWT(testSecret, "ops", time.Hour)
	c.Assert(err, qt.IsNil)
	r := adminRouter(NewJWTMiddleware(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Equals, "ops")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?token="+token, nil))
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Equals, "ops")
}

func TestJWTMiddlewareRejects(t *testing.T) {
	c := qt.New(t)

	other, err := utils.GenerateJWT("other-secret", "ops", time.Hour)
	c.Assert(err, qt.IsNil)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "wrong secret", header: "Bearer " + other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			r := adminRouter(NewJWTMiddleware(testSecret))
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
		})
	}
}

func TestJWTMiddlewareRateLimitsFailures(t *testing.T) {
	c := qt.New(t)

	r := adminRouter(NewJWTMiddleware(testSecret))
	codes := make([]int, 0, defaultInvalidAttempts+1)
	for i := 0; i <= defaultInvalidAttempts; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?token=garbage", nil))
		codes = append(codes, w.Code)
	}
	c.Assert(codes[defaultInvalidAttempts-1], qt.Equals, http.StatusUnauthorized)
	c.Assert(codes[defaultInvalidAttempts], qt.Equals, http.StatusTooManyRequests)
}

func TestInvalidAuthRateLimiterWindow(t *testing.T) {
	c := qt.New(t)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	c.Assert(rl.Allow("1.2.3.4"), qt.IsTrue)
	c.Assert(rl.Allow("1.2.3.4"), qt.IsTrue)
	c.Assert(rl.Allow("1.2.3.4"), qt.IsFalse)
	c.Assert(rl.Allow("5.6.7.8"), qt.IsTrue)

	now = now.Add(2 * time.Minute)
	c.Assert(rl.Allow("1.2.3.4"), qt.IsTrue)
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	c := qt.New(t)

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	c.Assert(w.Body.Len(), qt.Equals, 8)
	c.Assert(w.Header().Get("X-Request-Id"), qt.Equals, w.Body.String())
}
