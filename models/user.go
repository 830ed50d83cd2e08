package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/sunserve/sunserve-api/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest plaintext password accepted
const MinPasswordLength = 6

// PasswordCost is the bcrypt cost used for new hashes (lowered in tests)
var PasswordCost = bcrypt.DefaultCost

// User represents an account: customer, technician, manager or admin
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialised
	Role      string    `gorm:"not null;index" json:"role" validate:"required,oneof=admin manager technician customer"`
	Phone     string    `gorm:"not null" json:"phone" validate:"required,phone10"`
	Address   Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`

	plainPassword string
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// SetPassword stages a plaintext password; it is hashed on the next save
func (u *User) SetPassword(plain string) {
	u.plainPassword = plain
}

// CheckPassword compares plain against the stored hash
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// BeforeSave normalises the record, hashes a staged password and validates
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = NormalizePhone(u.Phone)
	u.Address.trim()
	if u.Role == "" {
		u.Role = RoleCustomer
	}

	if u.plainPassword == "" && u.Password == "" {
		return apperror.Validation("password is required")
	}
	if u.plainPassword != "" && len(u.plainPassword) < MinPasswordLength {
		return apperror.Validation("password must be at least %d characters", MinPasswordLength)
	}

	if err := Validate(u); err != nil {
		return err
	}

	if u.plainPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.plainPassword), PasswordCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hash)
		u.plainPassword = ""
	}
	return nil
}
