// Package service ties the widget flow together: session lifecycle, location
// resolution, the dependent doctor search, selection and booking.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/asclepius/internal/booking"
	"github.com/UnknownOlympus/asclepius/internal/geocoding"
	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/resolver"
	"github.com/UnknownOlympus/asclepius/internal/search"
	"github.com/UnknownOlympus/asclepius/internal/session"
)

// The map opens on Glasgow city centre before any resolution, as the page did.
const defaultZoom = 12

var defaultCenter = models.GeoPoint{Latitude: 55.8597, Longitude: -4.2550}

// ErrUnknownMarker is returned when a selection names a marker that is not in
// the current result set.
var ErrUnknownMarker = errors.New("unknown marker")

// Appointment orchestrates the booking widget flow for every session.
type Appointment struct {
	log            *slog.Logger         // Logger for logging service activities
	sessions       *session.Manager     // Session store
	geo            geocoding.Provider   // Geocoding provider for the resolvers
	providerName   string               // Provider name for metrics labeling
	orchestrator   *search.Orchestrator // Nearby doctor search orchestration
	flow           *booking.Flow        // Selection and submission flow
	metrics        *metrics.Metrics     // Metrics for tracking service performance
	promptAttempts int                  // Bound on the postcode prompt loop
}

// NewAppointment creates the appointment service.
func NewAppointment(
	log *slog.Logger,
	sessions *session.Manager,
	geo geocoding.Provider,
	providerName string,
	orchestrator *search.Orchestrator,
	flow *booking.Flow,
	appMetrics *metrics.Metrics,
	promptAttempts int,
) *Appointment {
	return &Appointment{
		log:            log,
		sessions:       sessions,
		geo:            geo,
		providerName:   providerName,
		orchestrator:   orchestrator,
		flow:           flow,
		metrics:        appMetrics,
		promptAttempts: promptAttempts,
	}
}

// Session returns a live session by id.
func (a *Appointment) Session(id string) (*session.Session, bool) {
	return a.sessions.Get(id)
}

// StartSession opens a new session and runs the initial resolution cycle plus
// the dependent search. The session is returned even when resolution fails, so
// the client can continue through the postcode path.
func (a *Appointment) StartSession(
	ctx context.Context,
	device resolver.Device,
	prompt resolver.Prompter,
) (*session.Session, *models.Resolution, error) {
	sess := a.sessions.Create(defaultCenter, defaultZoom)
	sess.Resolver = resolver.New(a.geo, a.providerName, a.metrics, a.log, a.promptAttempts)

	a.log.InfoContext(ctx, "Session started", "session", sess.ID)

	resolution, err := a.runCycle(ctx, sess, func() (*models.Resolution, error) {
		return sess.Resolver.Resolve(ctx, device, prompt, sess)
	})

	return sess, resolution, err
}

// UpdateLocation restarts the resolution cycle from user-edited postcode text
// (the update location action) and reruns the search.
func (a *Appointment) UpdateLocation(
	ctx context.Context,
	sess *session.Session,
	raw string,
	prompt resolver.Prompter,
) (*models.Resolution, error) {
	return a.runCycle(ctx, sess, func() (*models.Resolution, error) {
		return sess.Resolver.ResolveManual(ctx, raw, prompt, sess)
	})
}

// runCycle executes one resolution cycle and, once it settles, the dependent
// nearby search. Results belonging to a superseded cycle are discarded.
func (a *Appointment) runCycle(
	ctx context.Context,
	sess *session.Session,
	resolve func() (*models.Resolution, error),
) (*models.Resolution, error) {
	resolution, err := resolve()
	if err != nil {
		return nil, err
	}

	candidates, err := a.orchestrator.Search(ctx, sess.View(), resolution.Point)
	if err != nil {
		return resolution, err
	}

	if sess.Resolver.Generation() != resolution.Generation {
		a.log.DebugContext(ctx, "Discarding search results from superseded cycle",
			"session", sess.ID, "generation", resolution.Generation)
		return resolution, nil
	}

	sess.SetCandidates(candidates)

	return resolution, nil
}

// SelectMarker records a marker click, overwriting any previous selection.
func (a *Appointment) SelectMarker(sess *session.Session, markerID int) (*models.DoctorCandidate, error) {
	marker, ok := sess.View().Marker(markerID)
	if !ok {
		return nil, ErrUnknownMarker
	}

	sess.Select(marker.Candidate)

	return &marker.Candidate, nil
}

// Book submits the booking form against the session's current selection.
func (a *Appointment) Book(
	ctx context.Context,
	sess *session.Session,
	form models.BookingForm,
) (*booking.Result, error) {
	return a.flow.Submit(ctx, sess.Selected(), form)
}
