package middleware

import (
	"context"
	"errors"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware
const (
	ContextUserID      = "user_id"
	ContextTokenID     = "token_id"
	ContextTokenExpiry = "token_expiry"
	ContextClaims      = "validated_claims"
	ContextCurrentUser = "current_user"
)

// EnsureValidToken verifies the bearer token (HS256 signature, issuer,
// audience, expiry), rejects revoked token ids, and stores the subject
// user id and token id in the gin context.
func EnsureValidToken(tokens *services.TokenService, blacklist services.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return tokens.Secret(), nil
		},
		validator.HS256,
		tokens.Issuer(),
		[]string{tokens.Audience()},
		validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
		log.Fatal("Failed to set up the jwt validator", zap.Error(err))
	}

	return func(c *gin.Context) {
		token, err := jwtmiddleware.AuthHeaderTokenExtractor(c.Request)
		if err != nil {
			abortWith(c, apperror.Unauthenticated("Not authorized, malformed authorization header"))
			return
		}
		if token == "" {
			abortWith(c, apperror.Unauthenticated("Not authorized, no token provided"))
			return
		}

		validated, err := jwtValidator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("Rejected bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortWith(c, apperror.Unauthenticated("Not authorized, token is invalid or expired"))
			return
		}
		claims := validated.(*validator.ValidatedClaims)

		userID, err := services.SubjectID(claims.RegisteredClaims.Subject)
		if err != nil {
			abortWith(c, apperror.Unauthenticated("Not authorized, token is invalid or expired"))
			return
		}

		tokenID := claims.RegisteredClaims.ID
		revoked, err := blacklist.IsRevoked(c.Request.Context(), tokenID)
		if err != nil {
			abortWith(c, apperror.Unavailable("Token revocation list is unavailable"))
			return
		}
		if revoked {
			abortWith(c, apperror.Unauthenticated("Not authorized, token has been revoked"))
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextTokenID, tokenID)
		c.Set(ContextTokenExpiry, time.Unix(claims.RegisteredClaims.Expiry, 0))
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// LoadCurrentUser re-reads the token's user so the current role and active
// flag apply, and stores it in the gin context.
func LoadCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(ContextUserID)
		if !ok {
			abortWith(c, apperror.Unauthenticated("Not authorized to access this route"))
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID.(uint)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWith(c, apperror.Unauthenticated("User no longer exists"))
				return
			}
			abortWith(c, err)
			return
		}
		if !user.IsActive {
			abortWith(c, apperror.Unauthenticated("Account is deactivated"))
			return
		}

		c.Set(ContextCurrentUser, &user)
		c.Next()
	}
}

// GetCurrentUser returns the caller loaded by LoadCurrentUser
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, ok := c.Get(ContextCurrentUser)
	if !ok {
		return nil, apperror.Unauthenticated("Not authorized to access this route")
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, apperror.Internal(errors.New("current user has unexpected type"))
	}
	return user, nil
}

// GetCaller returns the authorization principal for the current request
func GetCaller(c *gin.Context) (authz.Caller, error) {
	user, err := GetCurrentUser(c)
	if err != nil {
		return authz.Caller{}, err
	}
	return authz.CallerOf(user), nil
}

// GetTokenID returns the id and expiry of the verified bearer token
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	id, ok := c.Get(ContextTokenID)
	if !ok {
		return "", time.Time{}, false
	}
	expiry, _ := c.Get(ContextTokenExpiry)
	expiresAt, _ := expiry.(time.Time)
	tokenID, _ := id.(string)
	return tokenID, expiresAt, tokenID != ""
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
