// Package geocoding resolves free-text addresses to coordinates via the Google Geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventfinder/internal/domain"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Google Maps API host.
	DefaultBaseURL = "https://maps.googleapis.com"
	// DefaultTimeout for HTTP requests
	DefaultTimeout = 5 * time.Second
	// DefaultRateLimit caps outgoing requests per second.
	DefaultRateLimit = rate.Limit(10)

	statusOK = "OK"
)

// Client calls the geocoding API. It never retries; callers decide how to degrade.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

var _ domain.Geocoder = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a geocoding client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the coordinates of the first result for address.
// A non-OK API status (ZERO_RESULTS, REQUEST_DENIED, ...) yields domain.ErrGeocodeNoResults.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)
	requestURL := fmt.Sprintf("%s/maps/api/geocode/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		LookupsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		LookupsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		LookupsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if data.Status != statusOK || len(data.Results) == 0 {
		LookupsTotal.WithLabelValues(outcomeNoResults).Inc()
		return nil, fmt.Errorf("%w: status %s", domain.ErrGeocodeNoResults, data.Status)
	}

	LookupsTotal.WithLabelValues(outcomeOK).Inc()
	loc := data.Results[0].Geometry.Location
	return &domain.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
