package setup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/version"
)

// NominatimURL is the public OpenStreetMap geocoding service
const NominatimURL = "https://nominatim.openstreetmap.org"

const geocodeTimeout = 10 * time.Second

// ErrNoMatch means the geocoder found nothing for the query
var ErrNoMatch = errors.New("no matching place found")

// Place is a geocoded location.
type Place struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// PlaceFinder turns a free-form place name into coordinates.
type PlaceFinder interface {
	Search(ctx context.Context, query string) (*Place, error)
}

// nominatimResult is one entry of a Nominatim search response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocoder searches Nominatim.
type Geocoder struct {
	http *resty.Client
}

// NewGeocoder creates a Geocoder against baseURL, or NominatimURL when empty.
func NewGeocoder(baseURL string) *Geocoder {
	if baseURL == "" {
		baseURL = NominatimURL
	}
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(geocodeTimeout).
		SetHeader("User-Agent", version.UserAgent()).
		SetHeader("Accept", "application/json")
	return &Geocoder{http: r}
}

// Search returns the best match for query.
func (g *Geocoder) Search(ctx context.Context, query string) (*Place, error) {
	var results []nominatimResult
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("location search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("location service returned HTTP %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("location service returned bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("location service returned bad longitude %q: %w", results[0].Lon, err)
	}

	logging.Debug("Geocoded location",
		zap.String("query", query),
		zap.String("address", results[0].DisplayName),
		zap.Float64("latitude", lat),
		zap.Float64("longitude", lon),
	)
	return &Place{Address: results[0].DisplayName, Latitude: lat, Longitude: lon}, nil
}
