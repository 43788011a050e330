package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventfinder/internal/domain"
)

// DefaultPage is the page used when the query string has none.
const DefaultPage = 1

const dayLayout = "2006-01-02"

// ParsePagination reads page and limit from the request query string.
// Missing values fall back to defaults; present values must be integers >= 1,
// and limit may not exceed domain.MaxPageSize.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	page, err := positiveInt(q.Get("page"), "page", DefaultPage)
	if err != nil {
		return domain.PaginationParams{}, err
	}
	limit, err := positiveInt(q.Get("limit"), "limit", domain.DefaultPageSize)
	if err != nil {
		return domain.PaginationParams{}, err
	}
	if limit > domain.MaxPageSize {
		return domain.PaginationParams{}, fmt.Errorf("limit must not be greater than %d", domain.MaxPageSize)
	}
	return domain.PaginationParams{Page: page, PageSize: limit}, nil
}

func positiveInt(s, name string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be an integer not less than 1", name)
	}
	return v, nil
}

// ParseListEventsQuery reads the filters, sort and pagination of GET /events.
func ParseListEventsQuery(r *http.Request) (domain.ListEventsQuery, error) {
	q := r.URL.Query()
	var out domain.ListEventsQuery

	if s := q.Get("date"); s != "" {
		day, err := parseDay(s)
		if err != nil {
			return out, err
		}
		out.Day = &day
	}
	if s := q.Get("category"); s != "" {
		c, ok := domain.ParseCategory(s)
		if !ok {
			return out, fmt.Errorf("category must be one of %s", joinCategories())
		}
		out.Category = c
	}
	out.Search = strings.TrimSpace(q.Get("search"))
	out.OnlyMine = q.Get("onlyMy") == "true"

	switch s := q.Get("sortBy"); s {
	case "":
		out.Sort.Field = domain.SortByDate
	case string(domain.SortByDate), string(domain.SortByTitle):
		out.Sort.Field = domain.SortField(s)
	default:
		return out, fmt.Errorf("sortBy must be one of date, title")
	}
	switch s := strings.ToUpper(q.Get("order")); s {
	case "":
		out.Sort.Order = domain.OrderAsc
	case string(domain.OrderAsc), string(domain.OrderDesc):
		out.Sort.Order = domain.SortOrder(s)
	default:
		return out, fmt.Errorf("order must be one of ASC, DESC")
	}

	page, err := ParsePagination(r)
	if err != nil {
		return out, err
	}
	out.Pagination = page
	return out, nil
}

// parseDay accepts YYYY-MM-DD or an RFC 3339 timestamp and returns midnight UTC of that day.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func joinCategories() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ParseSimilarQuery reads by, page and limit of GET /events/{id}/similar.
// An absent by selects category similarity.
func ParseSimilarQuery(r *http.Request) (domain.SimilarQuery, error) {
	mode := domain.SimilarByCategory
	if s := r.URL.Query().Get("by"); s != "" {
		m, ok := domain.ParseSimilarityMode(s)
		if !ok {
			return domain.SimilarQuery{}, fmt.Errorf("by must be one of category, location, date")
		}
		mode = m
	}
	page, err := ParsePagination(r)
	if err != nil {
		return domain.SimilarQuery{}, err
	}
	return domain.SimilarQuery{Mode: mode, Pagination: page}, nil
}

// ParseID reads a positive integer path value.
func ParseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}
