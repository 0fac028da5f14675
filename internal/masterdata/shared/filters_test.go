package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/vehicles?page=3&limit=500&search=+clio+&sort=plate&dir=DESC&status=available", nil)
	f := FiltersFromRequest(r)

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 200, f.Limit)
	assert.Equal(t, "clio", f.Search)
	assert.Equal(t, "DESC", f.Direction())
	assert.Equal(t, "available", f.Status)
	assert.Equal(t, 400, f.Offset())

	f = FiltersFromRequest(httptest.NewRequest("GET", "/vehicles", nil))
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, "ASC", f.Direction())
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestNewListResponseNeverNull(t *testing.T) {
	resp := NewListResponse[string](nil, ListFilters{Page: 1, Limit: 20}, 0)
	assert.NotNil(t, resp.Items)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
}
