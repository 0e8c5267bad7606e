// internal/services/query.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/utils"
)

// ListQuery carries the pagination parameters and the raw entity filters of
// a list request.
type ListQuery struct {
	utils.PaginationParams
	Filters map[string]string
}

func (q ListQuery) Filter(name string) string {
	return strings.TrimSpace(q.Filters[name])
}

// paginate counts the filtered query, then loads one page into dest with the
// given associations preloaded.
func paginate(db *gorm.DB, q ListQuery, sortable []string, dest interface{}, preloads ...string) (utils.PaginationResult, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return utils.PaginationResult{}, err
	}

	query := utils.ApplySort(db, q.PaginationParams, sortable)
	for _, p := range preloads {
		query = query.Preload(p)
	}
	if err := utils.ApplyPagination(query, q.PaginationParams).Find(dest).Error; err != nil {
		return utils.PaginationResult{}, err
	}

	return utils.CreatePaginationResult(dest, total, q.PaginationParams), nil
}

// whereUUID adds column = value when value parses. A malformed id filters
// everything out instead of being ignored.
func whereUUID(db *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return db
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return db.Where("1 = 0")
	}
	return db.Where(column+" = ?", id)
}

func whereEqual(db *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return db
	}
	return db.Where(column+" = ?", value)
}

func whereBool(db *gorm.DB, column, value string) *gorm.DB {
	switch strings.ToLower(value) {
	case "true", "1":
		return db.Where(column+" = ?", true)
	case "false", "0":
		return db.Where(column+" = ?", false)
	}
	return db
}

// whereDateRange filters column into [from, to]. Dates are YYYY-MM-DD or
// RFC 3339; a bare date as upper bound includes that whole day.
func whereDateRange(db *gorm.DB, column, from, to string) *gorm.DB {
	if t, ok := parseDate(from); ok {
		db = db.Where(column+" >= ?", t)
	}
	if t, ok := parseDate(to); ok {
		if len(strings.TrimSpace(to)) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1)
			db = db.Where(column+" < ?", t)
		} else {
			db = db.Where(column+" <= ?", t)
		}
	}
	return db
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// normalizeEmail trims and lower-cases an address in place so validation and
// storage see the same value login looks up.
func normalizeEmail(email *string) {
	if email != nil {
		*email = strings.ToLower(strings.TrimSpace(*email))
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// nullableUUID maps the zero UUID to SQL NULL so a client can clear an
// optional reference by sending it.
func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}
