package geocoding

import (
	"context"

	"github.com/UnknownOlympus/asclepius/internal/models"
)

// Provider is the geocoding capability used by the location resolver.
// Geocode turns a postcode or address into a point; ReverseGeocode turns a
// point back into the postcode text shown in the form field.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.GeoPoint, error)
	ReverseGeocode(ctx context.Context, point models.GeoPoint) (string, error)
}
