// Package testutil provides database and authentication fixtures shared by
// the package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plaintext password of every fixture user
const TestPassword = "secret123"

// TestConfig returns a configuration suitable for tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:     "sqlite::memory:",
		Port:            "8080",
		GoEnv:           "test",
		JWTSecret:       "test-secret",
		JWTIssuer:       "sunserve-api",
		JWTAudience:     "sunserve-clients",
		JWTExpire:       time.Hour,
		ClientURL:       "http://localhost:3000",
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		LogLevel:        "error",
	}
}

// SetupTestDB opens a migrated in-memory SQLite database, installs it as
// the process-wide connection and restores the previous one on cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() {
		config.SetDB(previous)
		sqlDB.Close()
	})
	return db
}

// TestAddress returns a complete address
func TestAddress() models.Address {
	return models.Address{Street: "100 Solar Way", City: "Phoenix", State: "AZ", ZipCode: "85001"}
}

// CreateUser stores an active user with TestPassword
func CreateUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Phone:    "5551234567",
		Address:  TestAddress(),
		IsActive: true,
	}
	user.SetPassword(TestPassword)
	require.NoError(t, db.Create(user).Error)
	return user
}

// SetCurrentUser marks user as the authenticated caller of c
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(middleware.ContextUserID, user.ID)
	c.Set(middleware.ContextCurrentUser, user)
}

// AuthenticateAs returns middleware that authenticates every request as user
func AuthenticateAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCurrentUser(c, user)
		c.Next()
	}
}
