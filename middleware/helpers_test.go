package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns an engine with the error envelope installed
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	return r
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextCurrentUser, user)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.PasswordCost = bcrypt.MinCost
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.User {
	t.Helper()
	u := &models.User{
		Name:     "Test",
		Email:    email,
		Role:     role,
		Phone:    "5551234567",
		Address:  models.Address{Street: "1 Sun St", City: "Phoenix", State: "AZ", ZipCode: "85001"},
		IsActive: active,
	}
	u.SetPassword("secret123")
	require.NoError(t, db.Create(u).Error)
	return u
}
