package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/table-reservation/utils"
)

var testSecret = []byte("middleware-secret")

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

func perform(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, role string) http.Header {
	t.Helper()
	token, err := utils.GenerateStaffToken(testSecret, "maria", role, time.Hour)
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestStaffAuthAndRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/sheet", StaffAuth(testSecret), RequireRole(RoleHost, RoleManager), ok)
	r.POST("/tables", StaffAuth(testSecret), RequireRole(RoleManager), ok)

	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/sheet", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/sheet", http.Header{"Authorization": []string{"Token abc"}}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/sheet", http.Header{"Authorization": []string{"Bearer abc"}}).Code)

	assert.Equal(t, http.StatusOK, perform(r, "GET", "/sheet", bearer(t, RoleHost)).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, "POST", "/tables", bearer(t, RoleHost)).Code)
	assert.Equal(t, http.StatusOK, perform(r, "POST", "/tables", bearer(t, RoleManager)).Code)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextStaffSubject))
	})

	token, err := utils.GenerateStaffToken(testSecret, "maria", RoleHost, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/ws", nil).Code)
	w := perform(r, "GET", "/ws?token="+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maria", w.Body.String())
}

func TestRateLimiterIsPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 2)
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", ok)

	first := http.Header{"X-Forwarded-For": []string{"10.0.0.1"}}
	assert.Equal(t, http.StatusOK, perform(r, "GET", "/", first).Code)
	assert.Equal(t, http.StatusOK, perform(r, "GET", "/", first).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, "GET", "/", first).Code)

	second := http.Header{"X-Forwarded-For": []string{"10.0.0.2"}}
	assert.Equal(t, http.StatusOK, perform(r, "GET", "/", second).Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddlewares("https://reservas.example.com"), SecurityHeaders())
	r.GET("/", ok)

	w := perform(r, "OPTIONS", "/", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://reservas.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
