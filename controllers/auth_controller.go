package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/services"
)

var registerFields = []string{"name", "email", "password", "phone", "address", "role"}

// registerRequest is the self-service registration payload
type registerRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  models.Address `json:"address"`
	Role     string         `json:"role"`
}

// LoginRequest is the credential payload of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register. Only customers and technicians
// may sign themselves up; other roles are provisioned with cmd/seed.
func Register(c *gin.Context) {
	var req registerRequest
	if _, err := bindAllowed(c, registerFields, &req); err != nil {
		respondError(c, err)
		return
	}

	switch req.Role {
	case "":
		req.Role = models.RoleCustomer
	case models.RoleCustomer, models.RoleTechnician:
	case models.RoleAdmin, models.RoleManager:
		respondError(c, apperror.Forbidden("Cannot self-register with role %s", req.Role))
		return
	default:
		respondError(c, apperror.Validation("role must be one of: %s, %s", models.RoleCustomer, models.RoleTechnician))
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		respondError(c, fmt.Errorf("failed to check email: %w", err))
		return
	}
	if existing > 0 {
		respondError(c, apperror.Conflict("User already exists with this email"))
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    email,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     req.Role,
		IsActive: true,
	}
	user.SetPassword(req.Password)
	if err := db.Create(&user).Error; err != nil {
		if apperror.Normalize(err).Kind == apperror.KindConflict {
			err = apperror.Conflict("User already exists with this email")
		}
		respondError(c, err)
		return
	}

	respondWithToken(c, http.StatusCreated, "User registered successfully", &user)
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if _, err := bindAllowed(c, []string{"email", "password"}, &req); err != nil {
		respondError(c, err)
		return
	}

	var user models.User
	err := config.GetDB().WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		Take(&user).Error
	if err != nil && apperror.Normalize(err).Kind != apperror.KindNotFound {
		respondError(c, err)
		return
	}
	if err != nil || !user.CheckPassword(req.Password) {
		respondError(c, apperror.Unauthenticated("Invalid credentials"))
		return
	}
	if !user.IsActive {
		respondError(c, apperror.Unauthenticated("Account is deactivated"))
		return
	}

	respondWithToken(c, http.StatusOK, "Login successful", &user)
}

// GetMe handles GET /api/auth/me
func GetMe(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

// Logout handles POST /api/auth/logout by revoking the presented token
// until it would have expired anyway
func Logout(c *gin.Context) {
	tokenID, expiresAt, ok := middleware.GetTokenID(c)
	if !ok {
		respondError(c, apperror.Unauthenticated("Not authorized to access this route"))
		return
	}

	blacklist := services.GetTokenBlacklist()
	if blacklist == nil {
		respondError(c, errors.New("token blacklist is not initialised"))
		return
	}
	if err := blacklist.Revoke(c.Request.Context(), tokenID, expiresAt); err != nil {
		respondError(c, fmt.Errorf("failed to revoke token: %w", err))
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", gin.H{})
}

func respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	tokens := services.GetTokenService()
	if tokens == nil {
		respondError(c, errors.New("token service is not initialised"))
		return
	}
	issued, err := tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Token:   issued.Token,
		Data:    user,
	})
}
