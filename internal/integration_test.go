package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatidle-backend/config"
	"seatidle-backend/internal/api"
	"seatidle-backend/internal/db"
	"seatidle-backend/internal/localtime"
	"seatidle-backend/internal/mw"
	"seatidle-backend/internal/store"
)

const testAdminPassword = "admin123"

// newTestServer wires the full stack against an in-memory SQLite database,
// the same way cmd/seatidled does at startup.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Site: config.SiteConfig{
			Timezone:        "Asia/Colombo",
			DefaultCapacity: 50,
			SeedStaff: []config.SeedStaff{
				{UID: "CARD-001", Name: "Mr. Perera"},
				{UID: "CARD-002", Name: "Ms. Silva"},
			},
		},
	}

	clock := localtime.New(cfg.Site.Timezone)
	gormDB, err := db.Init(cfg, clock)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	appStore := store.New(gormDB, clock)
	sessions := mw.NewAdminSessions(testAdminPassword, time.Hour)
	handler := api.NewHandler(appStore, sessions, nil, nil)

	return api.NewRouter(handler, api.RouterOptions{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Nanosecond, // effectively disable response caching
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func adminLogin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w, resp := doJSON(t, router, http.MethodPost, "/api/admin/login", gin.H{"password": testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// TestOccupancyFlow walks the public surface through a day's worth of
// device traffic and checks the dashboard after each step.
func TestOccupancyFlow(t *testing.T) {
	router := newTestServer(t)

	// Fresh site: everything free.
	w, resp := doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 50, resp["seats"])
	assert.EqualValues(t, 0, resp["occupancy"])
	assert.Equal(t, true, resp["system_status"])

	// Three students walk in (absolute occupancy report).
	w, _ = doJSON(t, router, http.MethodPost, "/api/update_data",
		gin.H{"occupancy": 3, "event": "ENTRY", "user": "STUDENT"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 47, resp["seats"])
	assert.EqualValues(t, 3, resp["occupancy"])

	// A staff badge scan via the ingestion path: presence changes, seats don't.
	w, _ = doJSON(t, router, http.MethodPost, "/api/update_data",
		gin.H{"occupancy": 3, "event": "ENTRY", "user": "STAFF", "uid": "CARD-001"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 47, resp["seats"])
	assert.EqualValues(t, 1, resp["staff"])

	// The break-beam sensor path.
	w, _ = doJSON(t, router, http.MethodPost, "/api/sensor", gin.H{"action": "enter"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	assert.EqualValues(t, 46, resp["seats"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/sensor", gin.H{"action": "exit"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	assert.EqualValues(t, 47, resp["seats"])

	// Malformed device payloads are rejected.
	w, resp = doJSON(t, router, http.MethodPost, "/api/update_data", gin.H{"occupancy": -2}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/sensor", gin.H{"action": "sideways"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The log endpoint shows the raw events, newest first.
	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.NotEmpty(t, logs)
	assert.Equal(t, "ENTRY", logs[len(logs)-1]["event_type"])
}

// TestBadgeScanFlow covers the RFID reader endpoint.
func TestBadgeScanFlow(t *testing.T) {
	router := newTestServer(t)

	// Lowercase uid from the reader still hits the seeded card.
	w, resp := doJSON(t, router, http.MethodPost, "/api/scan", gin.H{"uid": "card-001"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated Mr. Perera", resp["status"])

	req := httptest.NewRequest(http.MethodGet, "/api/staff", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var staff []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staff))
	require.Len(t, staff, 1)
	assert.Equal(t, "CARD-001", staff[0]["uid"])

	// An unknown card is enrolled as present.
	w, resp = doJSON(t, router, http.MethodPost, "/api/scan", gin.H{"uid": "CARD-999"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UNKNOWN_CARD_ADDED", resp["status"])

	// Scanning it again toggles it back out.
	w, resp = doJSON(t, router, http.MethodPost, "/api/scan", gin.H{"uid": "CARD-999"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated Unknown User", resp["status"])
}

// TestReservationFlow books, verifies and re-verifies an OTP end to end.
func TestReservationFlow(t *testing.T) {
	router := newTestServer(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/reservations",
		gin.H{"name": "Nimal", "date": "2026-09-01", "time_slot": "09:00-11:00"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	otp, _ := resp["otp"].(string)
	require.Regexp(t, `^\d{4}$`, otp)

	// The access point redeems the code once.
	w, resp = doJSON(t, router, http.MethodPost, "/api/verify_otp", gin.H{"otp": otp}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ACCESS_GRANTED", resp["result"])

	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	assert.EqualValues(t, 49, resp["seats"])

	// A second attempt with the same code is denied, opaquely.
	w, resp = doJSON(t, router, http.MethodPost, "/api/verify_otp", gin.H{"otp": otp}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCESS_DENIED", resp["result"])

	// So is cancelling it.
	w, _ = doJSON(t, router, http.MethodDelete, "/api/reservations/"+otp, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// An unused booking cancels cleanly.
	w, resp = doJSON(t, router, http.MethodPost, "/api/reservations",
		gin.H{"name": "Kamala", "date": "2026-09-01", "time_slot": "13:00-15:00"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	otp2, _ := resp["otp"].(string)

	w, _ = doJSON(t, router, http.MethodDelete, "/api/reservations/"+otp2, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, router, http.MethodDelete, "/api/reservations/"+otp2, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestAdminFlow exercises the token-gated admin surface.
func TestAdminFlow(t *testing.T) {
	router := newTestServer(t)

	// No token, wrong password, bad token: all locked out.
	w, _ := doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, "deadbeef")
	assert.Equal(t, http.StatusForbidden, w.Code)

	token := adminLogin(t, router)

	w, resp := doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 50, resp["seats"])
	assert.EqualValues(t, 50, resp["total_capacity"])

	// Put three people inside, then shrink the room; they must survive.
	w, _ = doJSON(t, router, http.MethodPost, "/api/update_data",
		gin.H{"occupancy": 3, "event": "ENTRY", "user": "STUDENT"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/capacity", gin.H{"total_capacity": 30}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, token)
	assert.EqualValues(t, 30, resp["total_capacity"])
	assert.EqualValues(t, 27, resp["seats"])

	// Manual seat reset clamps to the new capacity.
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/seats/reset", gin.H{"seats": 500}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, token)
	assert.EqualValues(t, 30, resp["seats"])

	// System toggle flips the dashboard flag but never blocks ingestion.
	w, resp = doJSON(t, router, http.MethodPost, "/api/admin/system/toggle", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["system_status"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/update_data",
		gin.H{"occupancy": 5, "event": "UPDATE", "user": "STUDENT"}, "")
	assert.Equal(t, http.StatusOK, w.Code, "ingestion continues while the system is disabled")

	// Announcements: post, edit, check the dashboard, delete.
	w, resp = doJSON(t, router, http.MethodPost, "/api/admin/announcements",
		gin.H{"message": "Exam week: extended hours"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	annID := int64(resp["id"].(float64))

	w, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/admin/announcements/%d", annID),
		gin.H{"message": "Exam week: open until midnight"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/api/dashboard", nil, "")
	assert.Equal(t, "Exam week: open until midnight", resp["announcement"])
	assert.NotEmpty(t, resp["announcement_time"])

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/announcements/%d", annID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Staff CRUD.
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/staff",
		gin.H{"uid": "card-010", "name": "New Hire"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, router, http.MethodPut, "/api/admin/staff/CARD-010", gin.H{"name": "Renamed Hire"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, router, http.MethodDelete, "/api/admin/staff/CARD-010", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, router, http.MethodPut, "/api/admin/staff/CARD-010", gin.H{"name": "Ghost"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Logout revokes the token.
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/logout", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/admin/overview", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
