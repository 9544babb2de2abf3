package places

import (
	"context"

	"github.com/UnknownOlympus/asclepius/internal/models"
)

// Searcher is the places-search capability: given a point and a radius it
// returns the doctor candidates in the area. Implementations are opaque and
// swappable.
type Searcher interface {
	Nearby(ctx context.Context, point models.GeoPoint, radius uint) ([]models.DoctorCandidate, error)
}
