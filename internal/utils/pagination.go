// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PaginationParams struct {
	Page   int
	Limit  int
	Sort   string
	Order  string
	Search string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type PaginationResult struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	order := strings.ToLower(c.DefaultQuery("order", "desc"))

	// Validate and set defaults
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Sort:   c.DefaultQuery("sort", "created_at"),
		Order:  order,
		Search: strings.TrimSpace(c.Query("search")),
	}
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.Limit)
}

// ApplySort orders by params.Sort when it is whitelisted, falling back to
// created_at. The id tiebreak keeps pages stable.
func ApplySort(db *gorm.DB, params PaginationParams, allowedSortFields []string) *gorm.DB {
	sortField := "created_at"
	for _, field := range allowedSortFields {
		if field == params.Sort {
			sortField = field
			break
		}
	}

	return db.Order(sortField + " " + params.Order).Order("id " + params.Order)
}

// ApplySearch adds a case-insensitive substring match over columns. LOWER ..
// LIKE is used instead of ILIKE so the same query runs on every driver.
func ApplySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return db
	}

	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func CreatePaginationResult(items interface{}, total int64, params PaginationParams) PaginationResult {
	pages := 0
	if params.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return PaginationResult{
		Items: items,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: pages,
		},
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Pagination.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Pagination.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Pagination.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.Pagination.Pages))
}
