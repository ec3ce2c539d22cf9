package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationOf(t *testing.T) {
	p := paginationOf(repositories.ListParams{Page: 2, Limit: 20}, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.Pages)

	p = paginationOf(repositories.ListParams{Page: 1, Limit: 20}, 0)
	assert.Equal(t, 0, p.Pages)
}

func TestListResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/players?page=2&limit=10", nil)

	listResponse(rec, req, []string{"a", "b"}, repositories.ListParams{Page: 2, Limit: 10}, 25)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success    bool     `json:"success"`
		Data       []string `json:"data"`
		Pagination *struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a", "b"}, body.Data)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 25, body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.Pages)
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newReq := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(),
			httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		rec, req := newReq(`{"name": "reserves"}`)
		var dst payload
		require.NoError(t, readJSON(rec, req, &dst))
		assert.Equal(t, "reserves", dst.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		rec, req := newReq("")
		var dst payload
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec, req := newReq(`{"name": `)
		var dst payload
		assert.Error(t, readJSON(rec, req, &dst))
	})

	t.Run("unknown field", func(t *testing.T) {
		rec, req := newReq(`{"name": "x", "surprise": true}`)
		var dst payload
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("wrong type", func(t *testing.T) {
		rec, req := newReq(`{"name": 7}`)
		var dst payload
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect JSON type")
	})

	t.Run("trailing value", func(t *testing.T) {
		rec, req := newReq(`{"name": "x"}{"name": "y"}`)
		var dst payload
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"player not found", services.ErrPlayerNotFound, http.StatusNotFound},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"duplicate red card", services.ErrDuplicateRedCard, http.StatusConflict},
		{"email conflict", services.ErrUserEmailConflict, http.StatusConflict},
		{"team with fixtures", services.ErrTeamInUse, http.StatusConflict},
		{"missing minute", services.ErrEventMinuteRequired, http.StatusBadRequest},
		{"bad card color", services.ErrInvalidCardColor, http.StatusBadRequest},
		{"bad donation state", services.ErrInvalidDonationState, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", services.ErrAccountDisabled, http.StatusForbidden},
		{"anything else", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var body struct {
				Success bool `json:"success"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/goals?match_id=3&for_club=true&season=+2025%2F2026+&bad=abc", nil)

	require.NotNil(t, queryInt(req, "match_id"))
	assert.Equal(t, 3, *queryInt(req, "match_id"))
	assert.Nil(t, queryInt(req, "bad"))
	assert.Nil(t, queryInt(req, "missing"))

	require.NotNil(t, queryBool(req, "for_club"))
	assert.True(t, *queryBool(req, "for_club"))
	assert.Nil(t, queryBool(req, "bad"))

	require.NotNil(t, queryString(req, "season"))
	assert.Equal(t, "2025/2026", *queryString(req, "season"))
	assert.Nil(t, queryString(req, "missing"))
}

func TestParseListParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/news?page=3&limit=5&search=+cup+final+", nil)
	params := parseListParams(req)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, "cup final", params.Search)

	// Unset and junk values fall back to the defaults.
	req = httptest.NewRequest(http.MethodGet, "/api/news?page=abc", nil)
	params = parseListParams(req)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
}
