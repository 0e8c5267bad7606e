package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize(i18n.LangEnglish))

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"field errors", &services.FieldErrors{Fields: []utils.ValidationError{{Field: "name", Tag: "required"}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"validation", fmt.Errorf("%w: bad month", services.ErrValidation), http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"no branch", services.ErrNoBranch, http.StatusForbidden, "FORBIDDEN"},
		{"forbidden", fmt.Errorf("%w: leads:delete", services.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"not found", fmt.Errorf("branch: %w", services.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"dependents", services.ErrHasDependents, http.StatusConflict, "CONFLICT"},
		{"conflict", services.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/branches", nil)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body utils.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "connection reset")
		})
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/leads/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := parseID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListQueryKeepsNamedFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/leads?status=new&source=&other=x&page=2&limit=5", nil)

	q := listQuery(c, "status", "source")
	assert.Equal(t, map[string]string{"status": "new"}, q.Filters)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.Limit)
}
