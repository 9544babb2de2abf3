package places

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/asclepius/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleSearcher finds nearby doctors through the Google Places API.
type GoogleSearcher struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of the Google Maps client the searcher uses.
// It exists so the client can be mocked in tests.
type GoogleAPIClient interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// NewGoogleSearcher initializes a new GoogleSearcher with the given API client and logger.
func NewGoogleSearcher(client GoogleAPIClient, log *slog.Logger) *GoogleSearcher {
	return &GoogleSearcher{client: client, log: log}
}

// NewGoogleSearcherFromKey creates a searcher with its own Google Maps client.
func NewGoogleSearcherFromKey(apiKey string, rateLimit int, log *slog.Logger) (*GoogleSearcher, error) {
	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
	}
	if rateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleSearcher(client, log), nil
}

// Nearby issues a nearby-search request with the doctor category filter and
// maps each place record to a candidate. An empty result set is not an error.
func (gs *GoogleSearcher) Nearby(
	ctx context.Context,
	point models.GeoPoint,
	radius uint,
) ([]models.DoctorCandidate, error) {
	gs.log.DebugContext(ctx, "Searching for nearby doctors",
		"lat", point.Latitude, "lng", point.Longitude, "radius", radius)

	req := maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: point.Latitude, Lng: point.Longitude},
		Radius:   radius,
		Type:     maps.PlaceTypeDoctor,
	}

	response, err := gs.client.NearbySearch(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby places: %w", err)
	}

	candidates := make([]models.DoctorCandidate, 0, len(response.Results))
	for _, place := range response.Results {
		candidates = append(candidates, models.DoctorCandidate{
			Name:     place.Name,
			Vicinity: place.Vicinity,
			Location: models.GeoPoint{
				Latitude:  place.Geometry.Location.Lat,
				Longitude: place.Geometry.Location.Lng,
			},
		})
	}

	gs.log.DebugContext(ctx, "Nearby search finished", "results", len(candidates))

	return candidates, nil
}
