package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/authz"
)

// RequireRole rejects callers whose current role is not one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWith(c, err)
			return
		}
		if !allowed[user.Role] {
			abortWith(c, apperror.Forbidden("User role %s is not authorized to access this route", user.Role))
			return
		}
		c.Next()
	}
}

// Authorize applies the policy table entry for (resource, action)
func Authorize(resource, action string) gin.HandlerFunc {
	roles := authz.AllowedRoles(resource, action)
	if roles == nil {
		return func(c *gin.Context) {
			if _, err := GetCurrentUser(c); err != nil {
				abortWith(c, err)
				return
			}
			c.Next()
		}
	}
	return RequireRole(roles...)
}
