package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status int
	}{
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"manager allowed", models.RoleManager, http.StatusOK},
		{"technician forbidden", models.RoleTechnician, http.StatusForbidden},
		{"customer forbidden", models.RoleCustomer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			r.GET("/staff", withUser(&models.User{ID: 1, Role: tt.role}), RequireRole(models.RoleAdmin, models.RoleManager), okHandler)

			w := doJSON(r, http.MethodGet, "/staff", "", nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				resp := decodeError(t, w)
				assert.Equal(t, "FORBIDDEN", resp.Code)
				assert.Equal(t, "User role "+tt.role+" is not authorized to access this route", resp.Error)
			}
		})
	}
}

func TestRequireRoleWithoutUser(t *testing.T) {
	r := newTestRouter()
	r.GET("/staff", RequireRole(models.RoleAdmin), okHandler)

	w := doJSON(r, http.MethodGet, "/staff", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeUsesPolicy(t *testing.T) {
	r := newTestRouter()
	r.POST("/installations", withUser(&models.User{ID: 2, Role: models.RoleManager}), Authorize(authz.Installations, authz.ActionCreate), okHandler)
	r.GET("/tickets", withUser(&models.User{ID: 2, Role: models.RoleCustomer}), Authorize(authz.Tickets, authz.ActionList), okHandler)
	r.GET("/open", Authorize(authz.Tickets, authz.ActionList), okHandler)

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodPost, "/installations", "{}", nil).Code, "only customers create installations")
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/tickets", "", nil).Code, "open action")
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/open", "", nil).Code, "open actions still need a caller")
}
