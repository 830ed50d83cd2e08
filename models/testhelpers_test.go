package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func testAddress() Address {
	return Address{Street: "1 Sun St", City: "Phoenix", State: "AZ", ZipCode: "85001"}
}

func newTestUser(email string) *User {
	u := &User{
		Name:     "Test User",
		Email:    email,
		Phone:    "5551234567",
		Address:  testAddress(),
		IsActive: true,
	}
	u.SetPassword("secret123")
	return u
}

func errorMessage(err error) string {
	return apperror.Normalize(err).Message
}
