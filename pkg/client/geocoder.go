package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Geocoder resolves an event address to coordinates. Geocoding lives entirely
// outside the booking core; an event is stored without coordinates when the
// provider is unreachable.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type HTTPGeocoder struct {
	client *HttpClient
}

func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		client: NewHttpClient(baseURL),
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	path := "/search?format=json&limit=1&q=" + url.QueryEscape(address)

	resp, err := g.client.GET(ctx, path)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := resp.DecodeJSON(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding result for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in geocoding response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in geocoding response: %w", err)
	}

	return lat, lng, nil
}
