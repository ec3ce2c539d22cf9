package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeListParams(t *testing.T) {
	p := NormalizeListParams(ListParams{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = NormalizeListParams(ListParams{Page: -3, Limit: 0})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	// Valid values pass through untouched, including large limits.
	p = NormalizeListParams(ListParams{Page: 4, Limit: 500, Search: "berg"})
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 500, p.Limit)
	assert.Equal(t, "berg", p.Search)
}

func TestListParamsOffset(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, ListParams{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 45, ListParams{Page: 10, Limit: 5}.Offset())
}

func TestListParamsTotalPages(t *testing.T) {
	p := ListParams{Page: 1, Limit: 20}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(20))
	assert.Equal(t, 2, p.TotalPages(21))
	assert.Equal(t, 5, p.TotalPages(100))
	assert.Equal(t, 0, p.TotalPages(-7))
}
