package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultGeocodeBaseURL is the public Nominatim endpoint.
const DefaultGeocodeBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoResults is returned when the geocoder resolves a query to nothing.
var ErrNoResults = fmt.Errorf("geocode: no results")

// Geocoder resolves free-text location phrases to coordinates via a
// Nominatim-compatible search endpoint.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// GeocoderOption configures a Geocoder.
type GeocoderOption func(*Geocoder)

// WithGeocodeBaseURL overrides the search endpoint, mainly for tests.
func WithGeocodeBaseURL(u string) GeocoderOption {
	return func(g *Geocoder) { g.baseURL = u }
}

// WithGeocodeHTTPClient overrides the HTTP client.
func WithGeocodeHTTPClient(c *http.Client) GeocoderOption {
	return func(g *Geocoder) { g.httpClient = c }
}

// NewGeocoder creates a geocoder. Nominatim's usage policy requires an
// identifying User-Agent, so userAgent must be non-empty.
func NewGeocoder(userAgent string, opts ...GeocoderOption) (*Geocoder, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("geocoder: user agent is required")
	}
	g := &Geocoder{
		baseURL:    DefaultGeocodeBaseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves query to a coordinate pair. It returns ErrNoResults when
// the provider finds nothing for the query.
func (g *Geocoder) Geocode(ctx context.Context, query string) (Point, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return Point{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: parse latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: parse longitude %q: %w", results[0].Lon, err)
	}
	return Point{Lat: lat, Lng: lng}, nil
}
