package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
)

var (
	userUpdateFields = []string{"name", "phone", "address"}
	userList         = listOptions{
		defaultLimit: 50,
		maxLimit:     100,
		defaultSort:  "-createdAt",
		sortable: map[string]string{
			"createdAt": "created_at",
			"name":      "name",
			"email":     "email",
			"role":      "role",
		},
		filters: []filter{
			{param: "role", column: "role"},
			{param: "isActive", column: "is_active", kind: filterBool},
		},
	}
)

// GetUsers handles GET /api/users
func GetUsers(c *gin.Context) {
	query := config.GetDB().WithContext(c.Request.Context()).Model(&models.User{})

	var users []models.User
	count, p, err := userList.list(c, query, &users)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(users), users)
}

// GetUsersByRole handles GET /api/users/role/:role. Unknown roles match nobody.
func GetUsersByRole(c *gin.Context) {
	query := config.GetDB().WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("role = ?", c.Param("role"))

	var users []models.User
	count, p, err := userList.list(c, query, &users)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(users), users)
}

// GetUser handles GET /api/users/:id
func GetUser(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", user)
}

// UpdateUser handles PUT /api/users/:id; only name, phone and address change
func UpdateUser(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}

	if _, err := bindAllowed(c, userUpdateFields, user); err != nil {
		respondError(c, err)
		return
	}
	if err := config.GetDB().WithContext(c.Request.Context()).Save(user).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(user).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User deleted successfully", gin.H{})
}

func loadUser(c *gin.Context) (*models.User, bool) {
	id, err := parseID(c, "User")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var user models.User
	if err := findByID(c, &user, id, "User"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &user, true
}
