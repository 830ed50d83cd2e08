package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
	"gorm.io/gorm"
)

// parseID reads the :id path parameter; anything that is not a positive
// integer cannot name a row and is reported as not found.
func parseID(c *gin.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound(resource)
	}
	return uint(id), nil
}

// findByID loads the row with id into dest, reporting a missing row as
// "<resource> not found"
func findByID(c *gin.Context, dest any, id uint, resource string) error {
	err := config.GetDB().WithContext(c.Request.Context()).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	return err
}

// listOptions describes the paging, sorting and filtering of one list endpoint
type listOptions struct {
	defaultLimit int
	maxLimit     int
	defaultSort  string
	sortable     map[string]string // camelCase query name -> column
	filters      []filter
}

type filterKind int

const (
	filterString filterKind = iota
	filterID
	filterBool
	filterDate
)

// filter maps a query parameter to an equality condition on column
type filter struct {
	param  string
	column string
	kind   filterKind
}

// page is the resolved paging window of a request
type page struct {
	number int
	limit  int
}

func (p page) offset() int {
	return (p.number - 1) * p.limit
}

// pagination resolves ?page and ?limit: page defaults to 1, limit to the
// endpoint default and is capped at its maximum
func (o listOptions) pagination(c *gin.Context) page {
	p := page{number: 1, limit: o.defaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.limit = n
	}
	if p.limit > o.maxLimit {
		p.limit = o.maxLimit
	}
	return p
}

// order turns ?sort into an ORDER BY clause. Fields are separated by commas
// or spaces; a leading "-" sorts descending.
func (o listOptions) order(c *gin.Context) (string, error) {
	raw := strings.TrimSpace(c.Query("sort"))
	if raw == "" {
		raw = o.defaultSort
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		direction := "ASC"
		name := part
		if strings.HasPrefix(part, "-") {
			direction = "DESC"
			name = part[1:]
		} else if strings.HasPrefix(part, "+") {
			name = part[1:]
		}

		column, ok := o.sortable[name]
		if !ok {
			return "", apperror.Validation("Invalid sort field: %s", name)
		}
		clauses = append(clauses, column+" "+direction)
	}
	return strings.Join(clauses, ", "), nil
}

// where applies the equality filters present in the query string
func (o listOptions) where(c *gin.Context, db *gorm.DB) (*gorm.DB, error) {
	for _, f := range o.filters {
		raw, ok := c.GetQuery(f.param)
		if !ok || raw == "" {
			continue
		}

		switch f.kind {
		case filterString:
			db = db.Where(f.column+" = ?", raw)
		case filterID:
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, apperror.Validation("%s must be a numeric id", f.param)
			}
			db = db.Where(f.column+" = ?", uint(id))
		case filterBool:
			db = db.Where(f.column+" = ?", raw == "true")
		case filterDate:
			day, err := parseDate(raw)
			if err != nil {
				return nil, apperror.Validation("%s must be a date (YYYY-MM-DD or RFC 3339)", f.param)
			}
			db = db.Where(f.column+" = ?", models.NormalizeDate(day))
		}
	}
	return db, nil
}

// list runs a paged, sorted, filtered query into dest and returns the total match count
func (o listOptions) list(c *gin.Context, db *gorm.DB, dest any) (int64, page, error) {
	p := o.pagination(c)

	orderBy, err := o.order(c)
	if err != nil {
		return 0, p, err
	}

	query, err := o.where(c, db)
	if err != nil {
		return 0, p, err
	}

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, p, fmt.Errorf("failed to count rows: %w", err)
	}
	if err := query.Order(orderBy).Offset(p.offset()).Limit(p.limit).Find(dest).Error; err != nil {
		return 0, p, fmt.Errorf("failed to list rows: %w", err)
	}
	return count, p, nil
}

const dateOnly = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
