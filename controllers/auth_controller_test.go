package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/services"
	"github.com/sunserve/sunserve-api/testutil"
)

func setupTokens(t *testing.T) (*services.TokenService, *services.MemoryTokenBlacklist) {
	t.Helper()
	tokens := services.NewTokenService(testutil.TestConfig())
	blacklist := services.NewMemoryTokenBlacklist()

	prevTokens, prevBlacklist := services.GetTokenService(), services.GetTokenBlacklist()
	services.SetTokenService(tokens)
	services.SetTokenBlacklist(blacklist)
	t.Cleanup(func() {
		services.SetTokenService(prevTokens)
		services.SetTokenBlacklist(prevBlacklist)
	})
	return tokens, blacklist
}

func registerBody(email, role string) map[string]any {
	body := map[string]any{
		"name":     "Rae Sun",
		"email":    email,
		"password": "hunter22",
		"phone":    "555-010-2030",
		"address":  addressBody(),
	}
	if role != "" {
		body["role"] = role
	}
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	setupTokens(t)

	r := newRouter(nil)
	r.POST("/register", Register)
	r.POST("/login", Login)

	w := doJSON(t, r, http.MethodPost, "/register", registerBody("Rae@Test.com", ""))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "rae@test.com", data["email"])
	assert.Equal(t, models.RoleCustomer, data["role"])
	assert.Equal(t, "5550102030", data["phone"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, w.Body.String(), "hunter22")

	w = doJSON(t, r, http.MethodPost, "/login", map[string]any{"email": "rae@test.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testutil.TestConfig().JWTSecret), nil
	})
	require.NoError(t, err)
	var user models.User
	require.NoError(t, db.Where("email = ?", "rae@test.com").Take(&user).Error)
	assert.Equal(t, itoa(user.ID), claims.Subject)
	assert.NotEmpty(t, claims.ID)

	for _, password := range []string{"hunter2", "HUNTER22", ""} {
		w = doJSON(t, r, http.MethodPost, "/login", map[string]any{"email": "rae@test.com", "password": password})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode(t, w)["error"])
	}

	w = doJSON(t, r, http.MethodPost, "/login", map[string]any{"email": "nobody@test.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])
}

func TestRegisterRoles(t *testing.T) {
	testutil.SetupTestDB(t)
	setupTokens(t)

	r := newRouter(nil)
	r.POST("/register", Register)

	tests := []struct {
		role   string
		status int
	}{
		{models.RoleTechnician, http.StatusCreated},
		{models.RoleAdmin, http.StatusForbidden},
		{models.RoleManager, http.StatusForbidden},
		{"wizard", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/register", registerBody(tt.role+"@test.com", tt.role))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRegisterDuplicateEmailAndWeakPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	setupTokens(t)
	testutil.CreateUser(t, db, "Cara", "cara@test.com", models.RoleCustomer)

	r := newRouter(nil)
	r.POST("/register", Register)

	w := doJSON(t, r, http.MethodPost, "/register", registerBody("CARA@test.com", ""))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists with this email", decode(t, w)["error"])

	body := registerBody("new@test.com", "")
	body["password"] = "abc"
	w = doJSON(t, r, http.MethodPost, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at least 6 characters", decode(t, w)["error"])
	assert.Equal(t, int64(1), countRows(t, db, &models.User{}))
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	setupTokens(t)
	user := testutil.CreateUser(t, db, "Cara", "cara@test.com", models.RoleCustomer)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	r := newRouter(nil)
	r.POST("/login", Login)

	w := doJSON(t, r, http.MethodPost, "/login", map[string]any{"email": "cara@test.com", "password": testutil.TestPassword})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Account is deactivated", decode(t, w)["error"])
}

func TestGetMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Cara", "cara@test.com", models.RoleCustomer)

	r := newRouter(user)
	r.GET("/me", GetMe)

	data := dataOf(t, doJSON(t, r, http.MethodGet, "/me", nil))
	assert.Equal(t, "cara@test.com", data["email"])
	assert.NotContains(t, data, "password")

	anonymous := newRouter(nil)
	anonymous.GET("/me", GetMe)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, anonymous, http.MethodGet, "/me", nil).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, blacklist := setupTokens(t)
	user := testutil.CreateUser(t, db, "Cara", "cara@test.com", models.RoleCustomer)

	r := newRouter(user)
	r.POST("/logout", func(c *gin.Context) {
		c.Set(middleware.ContextTokenID, "token-123")
		c.Set(middleware.ContextTokenExpiry, time.Now().Add(time.Hour))
		c.Next()
	}, Logout)

	w := doJSON(t, r, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])

	revoked, err := blacklist.IsRevoked(context.Background(), "token-123")
	require.NoError(t, err)
	assert.True(t, revoked)

	noToken := newRouter(user)
	noToken.POST("/logout", Logout)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, noToken, http.MethodPost, "/logout", nil).Code)
}
