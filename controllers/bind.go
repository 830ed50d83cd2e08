package controllers

import (
	"encoding/json"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/middleware"
)

// dateFields are keys whose plain "YYYY-MM-DD" values are widened to
// midnight UTC so they decode into time.Time
var dateFields = map[string]bool{
	"date":            true,
	"requestedDate":   true,
	"scheduledDate":   true,
	"completedDate":   true,
	"actualStartTime": true,
	"actualEndTime":   true,
}

var plainDate = regexp.MustCompile(`^"\d{4}-\d{2}-\d{2}"$`)

// bindAllowed decodes the keys of the request body named in allowed onto
// dst and drops every other key. Nested objects merge into the current
// value of dst; JSON null clears pointer fields. It reports which allowed
// keys were present.
func bindAllowed(c *gin.Context, allowed []string, dst any) (map[string]bool, error) {
	fields, err := middleware.BodyFields(c)
	if err != nil {
		return nil, err
	}

	picked := make(map[string]json.RawMessage, len(allowed))
	present := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if dateFields[key] && plainDate.Match(raw) {
			raw = json.RawMessage(`"` + string(raw[1:len(raw)-1]) + `T00:00:00Z"`)
		}
		picked[key] = raw
		present[key] = true
	}
	if len(picked) == 0 {
		return present, nil
	}

	data, err := json.Marshal(picked)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, apperror.Normalize(err)
	}
	return present, nil
}

// rawString decodes a string body key, returning "" when absent or not a string
func rawString(c *gin.Context, key string) string {
	fields, err := middleware.BodyFields(c)
	if err != nil {
		return ""
	}
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
