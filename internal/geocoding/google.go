package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/asclepius/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of the Google Maps client the provider uses.
// It exists so the client can be mocked in tests.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// postalCodeComponent is the typed address component carrying the postcode.
const postalCodeComponent = "postal_code"

// Common errors for the Google provider.
var (
	// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
	ErrEmptyResponse = errors.New("get empty response from Google Maps API")
	// ErrNoPostalCode is returned when no result carries a postal_code component.
	ErrNoPostalCode = errors.New("no postal_code component in Google Maps response")
)

// NewGoogleProvider initializes a new GoogleProvider with the given API client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and an address string as input, and returns the geographical
// coordinates of the provided address using the Google Maps Geocoding API.
// If the address cannot be geocoded or if the response is empty, it returns an appropriate error.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	coords := geocodeResponse[0].Geometry.Location

	return &models.GeoPoint{Latitude: coords.Lat, Longitude: coords.Lng}, nil
}

// ReverseGeocode resolves the postcode for a point by scanning each result's
// typed address components for a postal_code tag and returning its long-form text.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, point models.GeoPoint) (string, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps",
		"lat", point.Latitude, "lng", point.Longitude)

	req := maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: point.Latitude, Lng: point.Longitude}}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("failed to reverse geocode point: %w", err)
	}

	if len(results) == 0 {
		return "", ErrEmptyResponse
	}

	for _, result := range results {
		for _, component := range result.AddressComponents {
			for _, typ := range component.Types {
				if typ == postalCodeComponent {
					return component.LongName, nil
				}
			}
		}
	}

	return "", ErrNoPostalCode
}
