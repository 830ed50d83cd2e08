// Command seed provisions an account directly in the database, typically
// the first admin, since public registration only grants customer and
// technician roles.
//
// It reads the normal application configuration plus SEED_NAME,
// SEED_EMAIL, SEED_PASSWORD, SEED_PHONE and SEED_ROLE (default admin).
// The address is taken from SEED_STREET, SEED_CITY, SEED_STATE and SEED_ZIP.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedUser is the account described by the SEED_* variables
type seedUser struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
	Address  models.Address
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	seed, err := seedFromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("Invalid seed input", zap.Error(err))
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.Migrate(config.GetDB()); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	user, created, err := ensureUser(config.GetDB(), seed)
	if err != nil {
		logger.Fatal("Failed to seed user", zap.Error(err))
	}
	if !created {
		logger.Info("User already exists, nothing to do", zap.String("email", user.Email), zap.Uint("id", user.ID))
		return
	}
	logger.Info("Seeded user", zap.String("email", user.Email), zap.String("role", user.Role), zap.Uint("id", user.ID))
}

// seedFromEnv reads the SEED_* variables through getenv
func seedFromEnv(getenv func(string) string) (seedUser, error) {
	seed := seedUser{
		Name:     getenv("SEED_NAME"),
		Email:    getenv("SEED_EMAIL"),
		Password: getenv("SEED_PASSWORD"),
		Phone:    getenv("SEED_PHONE"),
		Role:     getenv("SEED_ROLE"),
		Address: models.Address{
			Street:  getenv("SEED_STREET"),
			City:    getenv("SEED_CITY"),
			State:   getenv("SEED_STATE"),
			ZipCode: getenv("SEED_ZIP"),
		},
	}
	if seed.Role == "" {
		seed.Role = models.RoleAdmin
	}

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"SEED_NAME", seed.Name},
		{"SEED_EMAIL", seed.Email},
		{"SEED_PASSWORD", seed.Password},
		{"SEED_PHONE", seed.Phone},
	} {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return seed, fmt.Errorf("missing required variables: %s", strings.Join(missing, ", "))
	}
	if !models.IsValidRole(seed.Role) {
		return seed, fmt.Errorf("SEED_ROLE %q is not a valid role", seed.Role)
	}
	return seed, nil
}

// ensureUser creates the seed account unless its email is already taken
func ensureUser(db *gorm.DB, seed seedUser) (*models.User, bool, error) {
	var existing models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(seed.Email))).Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{
		Name:     seed.Name,
		Email:    seed.Email,
		Phone:    seed.Phone,
		Role:     seed.Role,
		Address:  seed.Address,
		IsActive: true,
	}
	user.SetPassword(seed.Password)
	if err := db.Create(user).Error; err != nil {
		return nil, false, err
	}
	return user, true, nil
}
