package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, "desc", p.Order)

	p = paramsFor("page=3&limit=500&order=ASC&search=%20Casa%20")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPageLimit, p.Limit)
	assert.Equal(t, "asc", p.Order)
	assert.Equal(t, "Casa", p.Search)
	assert.Equal(t, 200, p.Offset())

	p = paramsFor("page=-2&limit=abc")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
}

func TestCreatePaginationResult(t *testing.T) {
	r := CreatePaginationResult([]int{1, 2}, 41, PaginationParams{Page: 2, Limit: 20})
	assert.Equal(t, Pagination{Page: 2, Limit: 20, Total: 41, Pages: 3}, r.Pagination)

	r = CreatePaginationResult([]int{}, 0, PaginationParams{Page: 1, Limit: 20})
	assert.Equal(t, 0, r.Pagination.Pages)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
