package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventfinder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, ErrCodeBadRequest, MsgDuplicateEmail},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized, MsgInvalidCredentials},
		{"wrapped unauthorized", fmt.Errorf("%w: expired", domain.ErrUnauthorized), http.StatusUnauthorized, ErrCodeUnauthorized, MsgUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden, MsgForbiddenEvent},
		{"not found", domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, MsgEventNotFound},
		{"no coordinates", domain.ErrNoCoordinates, http.StatusNotFound, ErrCodeNotFound, MsgNoCoordinates},
		{"internal detail hidden", errors.New("pq: password authentication failed"), http.StatusInternalServerError, ErrCodeInternalError, MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteServiceError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), logger, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, ErrorResponse{StatusCode: tt.wantStatus, Error: tt.wantCode, Message: tt.wantMessage}, body)
		})
	}
}

func TestStrongPassword(t *testing.T) {
	type req struct {
		Password string `json:"password" validate:"strongpassword"`
	}
	tests := []struct {
		password string
		ok       bool
	}{
		{"Str0ng!pass", true},
		{"S1!aaaaa", true},
		{"S1!aaaa", false},
		{"str0ng!pass", false},
		{"STR0NG!PASS", false},
		{"Strong!pass", false},
		{"Str0ngpass", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			errs := ValidateStruct(req{Password: tt.password})
			assert.Equal(t, tt.ok, len(errs) == 0, errs)
		})
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]int64{"1": 1, "42": 42} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("id", in)
		got, err := ParseID(r, "id")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "0", "-3", "1.5", "abc"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("id", in)
		_, err := ParseID(r, "id")
		assert.Error(t, err, in)
	}
}

func TestParseListEventsQuery_RFC3339Date(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/events?date=2025-06-01T23:30:00-02:00", nil)
	q, err := ParseListEventsQuery(r)
	require.NoError(t, err)
	require.NotNil(t, q.Day)
	assert.Equal(t, "2025-06-02", q.Day.Format("2006-01-02"))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    domain.PaginationParams
		wantErr string
	}{
		{"defaults", "", domain.PaginationParams{Page: 1, PageSize: 10}, ""},
		{"explicit", "?page=3&limit=25", domain.PaginationParams{Page: 3, PageSize: 25}, ""},
		{"largest limit", "?limit=100", domain.PaginationParams{Page: 1, PageSize: 100}, ""},
		{"huge page is accepted", "?page=4611686018427387905&limit=2", domain.PaginationParams{Page: 4611686018427387905, PageSize: 2}, ""},
		{"limit above maximum", "?limit=101", domain.PaginationParams{}, "limit must not be greater than 100"},
		{"huge limit", "?limit=9223372036854775807", domain.PaginationParams{}, "limit must not be greater than 100"},
		{"page overflowing int", "?page=99999999999999999999", domain.PaginationParams{}, "page must be an integer not less than 1"},
		{"zero limit", "?limit=0", domain.PaginationParams{}, "limit must be an integer not less than 1"},
		{"negative page", "?page=-1", domain.PaginationParams{}, "page must be an integer not less than 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/events"+tt.query, nil)
			got, err := ParsePagination(r)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
