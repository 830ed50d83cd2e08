package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

func testTokens() *services.TokenService {
	return services.NewTokenService(&config.Config{
		JWTSecret:   testSecret,
		JWTIssuer:   "sunserve-api",
		JWTAudience: "sunserve-clients",
		JWTExpire:   time.Hour,
	})
}

func authRouter(t *testing.T, db *gorm.DB, blacklist services.TokenBlacklist) *gin.Engine {
	t.Helper()
	r := newTestRouter()
	r.GET("/protected",
		EnsureValidToken(testTokens(), blacklist, zap.NewNop()),
		LoadCurrentUser(db),
		func(c *gin.Context) {
			user, err := GetCurrentUser(c)
			require.NoError(t, err)
			tokenID, _, ok := GetTokenID(c)
			c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role, "tokenId": tokenID, "hasToken": ok})
		},
	)
	return r
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func signCustom(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestEnsureValidTokenAcceptsIssuedToken(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "tech@example.com", models.RoleTechnician, true)

	issued, err := testTokens().Issue(user.ID)
	require.NoError(t, err)

	w := doJSON(authRouter(t, db, services.NewMemoryTokenBlacklist()), http.MethodGet, "/protected", "", bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"technician"`)
	assert.Contains(t, w.Body.String(), issued.ID)
}

func TestEnsureValidTokenRejections(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "cust@example.com", models.RoleCustomer, true)
	now := time.Now()
	sub := "1"

	valid := jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "sunserve-api",
		Audience:  jwt.ClaimStrings{"sunserve-clients"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		ID:        "jti",
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"other-clients"}
	badSubject := valid
	badSubject.Subject = "not-a-number"
	require.Equal(t, uint(1), user.ID)

	tests := []struct {
		name    string
		headers map[string]string
		message string
	}{
		{"no header", nil, "no token provided"},
		{"malformed header", map[string]string{"Authorization": "Token abc"}, "malformed authorization header"},
		{"garbage token", bearer("not.a.jwt"), "token is invalid or expired"},
		{"wrong secret", bearer(signCustom(t, valid, "other-secret")), "token is invalid or expired"},
		{"expired", bearer(signCustom(t, expired, testSecret)), "token is invalid or expired"},
		{"wrong issuer", bearer(signCustom(t, wrongIssuer, testSecret)), "token is invalid or expired"},
		{"wrong audience", bearer(signCustom(t, wrongAudience, testSecret)), "token is invalid or expired"},
		{"non numeric subject", bearer(signCustom(t, badSubject, testSecret)), "token is invalid or expired"},
	}

	r := authRouter(t, db, services.NewMemoryTokenBlacklist())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/protected", "", tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, "UNAUTHENTICATED", resp.Code)
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestEnsureValidTokenRejectsRevoked(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "cust@example.com", models.RoleCustomer, true)
	issued, err := testTokens().Issue(user.ID)
	require.NoError(t, err)

	blacklist := services.NewMemoryTokenBlacklist()
	r := authRouter(t, db, blacklist)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/protected", "", bearer(issued.Token)).Code)

	require.NoError(t, blacklist.Revoke(context.Background(), issued.ID, issued.ExpiresAt))
	w := doJSON(r, http.MethodGet, "/protected", "", bearer(issued.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "revoked")
}

func TestLoadCurrentUserUsesStoredRole(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "promote@example.com", models.RoleTechnician, true)
	issued, err := testTokens().Issue(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("role", models.RoleManager).Error)

	w := doJSON(authRouter(t, db, services.NewMemoryTokenBlacklist()), http.MethodGet, "/protected", "", bearer(issued.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}

func TestLoadCurrentUserRejectsMissingOrInactive(t *testing.T) {
	db := setupTestDB(t)
	inactive := createUser(t, db, "off@example.com", models.RoleCustomer, false)
	r := authRouter(t, db, services.NewMemoryTokenBlacklist())

	issued, err := testTokens().Issue(inactive.ID)
	require.NoError(t, err)
	w := doJSON(r, http.MethodGet, "/protected", "", bearer(issued.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "deactivated")

	ghost, err := testTokens().Issue(9999)
	require.NoError(t, err)
	w = doJSON(r, http.MethodGet, "/protected", "", bearer(ghost.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "no longer exists")
}

func TestGetCurrentUserWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetCurrentUser(c)
	assert.Error(t, err)

	_, _, ok := GetTokenID(c)
	assert.False(t, ok)
}
