package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"eventfinder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Geocode(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      *domain.Coordinates
		wantErrIs error
		wantErr   bool
	}{
		{
			name:   "first result is used",
			status: http.StatusOK,
			body: `{"status":"OK","results":[
				{"geometry":{"location":{"lat":49.8397,"lng":24.0297}}},
				{"geometry":{"location":{"lat":1,"lng":2}}}]}`,
			want: &domain.Coordinates{Latitude: 49.8397, Longitude: 24.0297},
		},
		{
			name:      "zero results",
			status:    http.StatusOK,
			body:      `{"status":"ZERO_RESULTS","results":[]}`,
			wantErrIs: domain.ErrGeocodeNoResults,
			wantErr:   true,
		},
		{
			name:      "request denied",
			status:    http.StatusOK,
			body:      `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`,
			wantErrIs: domain.ErrGeocodeNoResults,
			wantErr:   true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"status":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
				assert.Equal(t, "Lviv, Narodna 14", r.URL.Query().Get("address"))
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-key", WithRateLimit(100))
			got, err := client.Geocode(context.Background(), "Lviv, Narodna 14")
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Geocode_EmptyAddress(t *testing.T) {
	client := NewClient("", "k")
	_, err := client.Geocode(context.Background(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestClient_Geocode_NoRetryOnTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", WithTimeout(20*time.Millisecond), WithRateLimit(100))
	_, err := client.Geocode(context.Background(), "somewhere")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
