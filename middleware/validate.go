package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/models"
)

// ContextBody caches the decoded top-level keys of a JSON request body
const ContextBody = "body_fields"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BodyFields decodes the JSON object body once per request and restores
// the body so later handlers can read it again. An empty body yields an
// empty map.
func BodyFields(c *gin.Context) (map[string]json.RawMessage, error) {
	if cached, ok := c.Get(ContextBody); ok {
		return cached.(map[string]json.RawMessage), nil
	}

	fields := map[string]json.RawMessage{}
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, apperror.Validation("Failed to read request body")
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, apperror.Validation("Request body must be a JSON object")
			}
		}
	}

	c.Set(ContextBody, fields)
	return fields, nil
}

// isBlank reports whether a raw JSON value counts as missing:
// null, or a string that is empty after trimming. Zero and false are present.
func isBlank(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// stringField returns the body value of name when it is a non-blank string
func stringField(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := fields[name]
	if !ok || isBlank(raw) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, apperror.Validation("%s must be a string", name)
	}
	return s, true, nil
}

// RequireFields fails with one message listing every missing field
func RequireFields(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := BodyFields(c)
		if err != nil {
			abortWith(c, err)
			return
		}

		var missing []string
		for _, name := range names {
			raw, ok := fields[name]
			if !ok || isBlank(raw) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			abortWith(c, apperror.Validation("Missing required fields: %s", strings.Join(missing, ", ")))
			return
		}
		c.Next()
	}
}

// ValidateEmail checks the email field format when present
func ValidateEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := BodyFields(c)
		if err != nil {
			abortWith(c, err)
			return
		}
		email, present, err := stringField(fields, "email")
		if err != nil {
			abortWith(c, err)
			return
		}
		if present && !emailPattern.MatchString(email) {
			abortWith(c, apperror.Validation("Please provide a valid email address"))
			return
		}
		c.Next()
	}
}

// ValidatePhone checks the phone field holds 10 digits, ignoring hyphens and spaces, when present
func ValidatePhone() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := BodyFields(c)
		if err != nil {
			abortWith(c, err)
			return
		}
		phone, present, err := stringField(fields, "phone")
		if err != nil {
			abortWith(c, err)
			return
		}
		if present && !models.IsValidPhone(phone) {
			abortWith(c, apperror.Validation("Please provide a valid 10-digit phone number"))
			return
		}
		c.Next()
	}
}
