// Package search turns a resolved location into a rendered set of selectable
// doctor candidates.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/places"
)

// resultZoom is the zoom level applied when centring on a resolved location.
const resultZoom = 14

// ErrSearchFailed marks a failed nearby search so the UI layer can present an
// explicit failure state.
var ErrSearchFailed = errors.New("nearby doctor search failed")

// MapView is the display capability the orchestrator drives: recentre, then
// one marker per candidate. Reset disposes the previous marker set.
type MapView interface {
	Reset(center models.GeoPoint, zoom int)
	AddMarker(candidate models.DoctorCandidate)
}

// Orchestrator issues nearby-doctor searches and renders the results. A new
// search supersedes the previous result set entirely.
type Orchestrator struct {
	places  places.Searcher  // places is the nearby-search capability
	metrics *metrics.Metrics // metrics tracks search outcomes
	log     *slog.Logger     // log is the logger for logging operations
	radius  uint             // radius is the search radius in metres
}

// New creates an orchestrator searching within the given radius.
func New(searcher places.Searcher, appMetrics *metrics.Metrics, log *slog.Logger, radius uint) *Orchestrator {
	return &Orchestrator{places: searcher, metrics: appMetrics, log: log, radius: radius}
}

// Search centres the view on the point, replaces the marker set with one
// marker per nearby doctor, and returns the candidates. Provider failures are
// returned to the caller instead of being swallowed, so the UI layer can show
// an explicit no-result state.
func (o *Orchestrator) Search(
	ctx context.Context,
	view MapView,
	point models.GeoPoint,
) ([]models.DoctorCandidate, error) {
	view.Reset(point, resultZoom)

	candidates, err := o.places.Nearby(ctx, point, o.radius)
	if err != nil {
		o.metrics.SearchesTotal.WithLabelValues("failure").Inc()
		o.log.ErrorContext(ctx, "Nearby doctor search failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	for _, candidate := range candidates {
		view.AddMarker(candidate)
	}

	o.metrics.SearchesTotal.WithLabelValues("success").Inc()
	o.log.InfoContext(ctx, "Nearby doctor search finished", "results", len(candidates))

	return candidates, nil
}
