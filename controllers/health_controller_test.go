package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/testutil"
)

func TestHealthCheck(t *testing.T) {
	previous := config.GetConfig()
	config.SetConfig(testutil.TestConfig())
	t.Cleanup(func() { config.SetConfig(previous) })

	r := newRouter(nil)
	r.GET("/health", HealthCheck)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "SunServe API is running successfully", body["message"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestDatabaseStatus(t *testing.T) {
	testutil.SetupTestDB(t)

	r := newRouter(nil)
	r.GET("/health/database", DatabaseStatus)

	w := doJSON(t, r, http.MethodGet, "/health/database", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Database connected", body["message"])
	assert.Subset(t, body["tables"], []any{"users", "installations", "equipment", "schedules"})
}

func TestDatabaseStatusWithoutConnection(t *testing.T) {
	previous := config.GetDB()
	config.SetDB(nil)
	t.Cleanup(func() { config.SetDB(previous) })

	r := newRouter(nil)
	r.GET("/health/database", DatabaseStatus)

	w := doJSON(t, r, http.MethodGet, "/health/database", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Database connection failed", decode(t, w)["error"])
}
