package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/table-reservation/config"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/testutil"
	"github.com/yeremiapane/table-reservation/utils"
)

const testSecret = "router-secret"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupTestRouter(t *testing.T) (*gin.Engine, *hub.Hub, *testutil.Clock) {
	t.Helper()
	utils.InitLogger()
	utils.InfoLogger.SetOutput(io.Discard)
	utils.ErrorLogger.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db, quietLogger()))

	store := database.NewStore(db)
	_, err = database.SeedTables(context.Background(), store, database.DefaultTables, quietLogger())
	require.NoError(t, err)

	clock := testutil.NewClock(time.Time{})
	h := hub.NewHub(quietLogger())
	r := SetupRouter(Dependencies{
		DB: db,
		Scheduler: scheduling.NewScheduler(store, store, scheduling.Config{
			DefaultDurationMinutes: 90,
			Now:                    clock.Now,
			Logger:                 quietLogger(),
		}),
		Hub: h,
		Config: &config.Config{
			StaffTokenSecret:  testSecret,
			RateLimitRPS:      100,
			RateLimitBurst:    100,
			CORSAllowedOrigin: "*",
		},
	})
	return r, h, clock
}

func staffToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateStaffToken([]byte(testSecret), "maria", role, time.Hour)
	require.NoError(t, err)
	return token
}

func request(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	assert.Equal(t, http.StatusOK, request(r, "GET", "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, "GET", "/tables", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, "GET", "/reservations", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, request(r, "GET", "/nowhere", "", nil).Code)

	w := request(r, "GET", "/tables", "", nil)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRoutesRequireStaffToken(t *testing.T) {
	r, _, _ := setupTestRouter(t)
	table := map[string]interface{}{"number": 9, "capacity": 4, "location": "Varanda"}

	assert.Equal(t, http.StatusUnauthorized, request(r, "POST", "/admin/tables", "", table).Code)
	assert.Equal(t, http.StatusForbidden, request(r, "POST", "/admin/tables", staffToken(t, middlewares.RoleHost), table).Code)
	assert.Equal(t, http.StatusCreated, request(r, "POST", "/admin/tables", staffToken(t, middlewares.RoleManager), table).Code)

	assert.Equal(t, http.StatusUnauthorized, request(r, "GET", "/admin/reservations/sheet", "", nil).Code)
	w := request(r, "GET", "/admin/reservations/sheet?day=2026-03-14", staffToken(t, middlewares.RoleHost), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestBoardReceivesReservationEvents(t *testing.T) {
	r, h, clock := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + staffToken(t, middlewares.RoleHost)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	w := request(r, "POST", "/reservations", "", map[string]interface{}{
		"client_name":  "Ana Souza",
		"contact":      "ana@example.com",
		"table_number": 2,
		"party_size":   2,
		"start_time":   clock.Now().Add(2 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	type event struct {
		Event string `json:"event"`
		Data  struct {
			ID          string `json:"id"`
			TableNumber int    `json:"table_number"`
			Status      string `json:"status"`
		} `json:"data"`
	}
	next := func() event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg event
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	}

	msg := next()
	assert.Equal(t, hub.EventReservationCreated, msg.Event)
	assert.Equal(t, 2, msg.Data.TableNumber)
	assert.Equal(t, "reservado", msg.Data.Status)
	id := msg.Data.ID
	require.NotEmpty(t, id)

	w = request(r, "PATCH", "/reservations/"+id, "", map[string]interface{}{"status": "cancelado"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	msg = next()
	assert.Equal(t, hub.EventReservationCancelled, msg.Event)
	assert.Equal(t, "cancelado", msg.Data.Status)

	// Editing notes on a cancelled reservation is an update, not another cancel.
	w = request(r, "PATCH", "/reservations/"+id, "", map[string]interface{}{"notes": "ligou depois"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	msg = next()
	assert.Equal(t, hub.EventReservationUpdated, msg.Event)
	assert.Equal(t, id, msg.Data.ID)
	assert.Equal(t, "cancelado", msg.Data.Status)
}
