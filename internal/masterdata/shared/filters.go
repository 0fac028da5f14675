package shared

import (
	"net/http"
	"strconv"
	"strings"

	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// SortDesc is the dir query value selecting descending order.
const SortDesc = "desc"

// ListFilters represents standard list page filters
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Status  string
}

// FiltersFromRequest reads page, limit, search, sort, dir and status from
// the query string.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, limit = rootshared.NormalizePage(page, limit)
	return ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(q.Get("search")),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
		Status:  q.Get("status"),
	}
}

// Offset returns the SQL offset of the filtered page.
func (f ListFilters) Offset() int {
	return rootshared.Offset(f.Page, f.Limit)
}

// Direction returns the SQL sort direction.
func (f ListFilters) Direction() string {
	if strings.EqualFold(f.SortDir, SortDesc) {
		return "DESC"
	}
	return "ASC"
}

// ListResponse is the JSON envelope of list endpoints.
type ListResponse[T any] struct {
	Items      []T                   `json:"items"`
	Pagination rootshared.Pagination `json:"pagination"`
}

// NewListResponse builds the envelope, never returning a null items array.
func NewListResponse[T any](items []T, f ListFilters, total int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Pagination: rootshared.NewPagination(f.Page, f.Limit, total)}
}

// ParseID parses a positive integer path parameter.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
