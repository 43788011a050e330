package domain

import "math"

const (
	// DefaultPageSize is used when a list request does not specify a limit.
	DefaultPageSize = 10
	// MaxPageSize is the largest limit a list request may ask for.
	MaxPageSize = 100
)

// PaginationParams holds offset-based pagination parameters for list queries.
// Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize returns p with a page of at least 1 and DefaultPageSize when no size is set.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize, saturating at math.MaxInt, which lies past any result set.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// PageMeta is the pagination metadata included in paginated list responses.
// swagger:model PageMeta
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta builds PageMeta from the pagination params and the filtered total.
// TotalPages is computed as ceiling(total / pageSize); if pageSize is 0, TotalPages is 0.
func NewPageMeta(p PaginationParams, total int) PageMeta {
	totalPages := 0
	if p.PageSize > 0 && total > 0 {
		totalPages = total / p.PageSize
		if total%p.PageSize != 0 {
			totalPages++
		}
	}
	return PageMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// Page is one page of an ordered result set.
type Page[T any] struct {
	Meta  PageMeta `json:"meta"`
	Items []T      `json:"items"`
}

// NewPage wraps items with meta. A nil slice is replaced by an empty one so the
// JSON body always carries an array.
func NewPage[T any](items []T, p PaginationParams, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Meta: NewPageMeta(p, total), Items: items}
}

// Paginate returns the slice of all that falls on page p.
func Paginate[T any](all []T, p PaginationParams) []T {
	start := p.Offset()
	if start >= len(all) {
		return nil
	}
	end := len(all)
	if p.PageSize < end-start {
		end = start + p.PageSize
	}
	return all[start:end]
}
