package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine with the error envelope installed that
// authenticates every request as user (anonymous when nil)
func newRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	if user != nil {
		r.Use(testutil.AuthenticateAs(user))
	}
	return r
}

// doJSON sends body (a string or any JSON-encodable value) to the router
func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode parses a response envelope
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return data
}

func listOf(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	data, ok := decode(t, w)["data"].([]any)
	require.True(t, ok, w.Body.String())
	return data
}

func addressBody() map[string]any {
	return map[string]any{"street": "12 Ray Rd", "city": "Tempe", "state": "AZ", "zipCode": "85281"}
}

func createInstallation(t *testing.T, db *gorm.DB, customerID uint) *models.Installation {
	t.Helper()
	installation := &models.Installation{
		CustomerID:     customerID,
		Address:        testutil.TestAddress(),
		SystemSize:     5,
		PanelType:      "monocrystalline",
		NumberOfPanels: 12,
		EstimatedCost:  15000,
	}
	require.NoError(t, db.Create(installation).Error)
	return installation
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := parseDate(raw)
	require.NoError(t, err)
	return d
}
