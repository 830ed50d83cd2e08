package models

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	validate     = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the request payload
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("failed to register phone10 validation: " + err.Error())
	}

	return v
}

// Validate runs the struct-tag rules of a model
func Validate(model any) error {
	return validate.Struct(model)
}

// NormalizePhone strips the separators users commonly type: "555-123 4567" -> "5551234567"
func NormalizePhone(phone string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(phone)
}

// IsValidPhone reports whether phone holds exactly 10 digits once separators are removed
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}
