package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sunserve/sunserve-api/config"
)

// ErrInvalidToken is returned when a token cannot be parsed or verified
var ErrInvalidToken = errors.New("invalid token")

// IssuedToken is a signed access token and its identifying claims
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenService issues HS256 access tokens whose subject is the user id
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

var tokenServiceInstance *TokenService

// NewTokenService creates a token service from the JWT settings in cfg
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.JWTExpire,
		now:      time.Now,
	}
}

// InitTokenService installs the process-wide token service
func InitTokenService(cfg *config.Config) *TokenService {
	tokenServiceInstance = NewTokenService(cfg)
	return tokenServiceInstance
}

// GetTokenService returns the process-wide token service
func GetTokenService() *TokenService {
	return tokenServiceInstance
}

// SetTokenService replaces the process-wide token service (primarily for testing)
func SetTokenService(service *TokenService) {
	tokenServiceInstance = service
}

// Secret returns the signing key
func (s *TokenService) Secret() []byte {
	return s.secret
}

// Issuer returns the iss claim value
func (s *TokenService) Issuer() string {
	return s.issuer
}

// Audience returns the aud claim value
func (s *TokenService) Audience() string {
	return s.audience
}

// Issue signs a token for userID
func (s *TokenService) Issue(userID uint) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        id,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ID: id, ExpiresAt: expiresAt}, nil
}

// SubjectID converts a sub claim back into a user id
func SubjectID(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, subject)
	}
	return uint(id), nil
}
