// Package resolver decides the single canonical location for a session from
// ambiguous inputs: geolocation permission state, device coordinates, or a
// user-supplied postcode. Every cycle converges to exactly one point before
// the dependent search runs.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/geocoding"
	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/validate"
)

// Prompt texts shown to the user. The first prompt of a cycle uses the
// generic message, retries use the invalid-postcode message.
const (
	MsgNoPermission    = "You have not given location permissions, please enter your postcode."
	MsgInvalidPostcode = "That postcode was invalid, use a valid postcode and try again"

	// DefaultSuggestion is the sample postcode offered in the prompt
	// (Glasgow city centre).
	DefaultSuggestion = "G2 1AL"
)

// Device is the browser-side geolocation capability: the permission state and,
// when allowed, the current position.
type Device interface {
	Permission(ctx context.Context) (models.PermissionState, error)
	Position(ctx context.Context) (*models.GeoPoint, error)
}

// Prompter is the interactive postcode-entry capability. Implementations that
// cannot prompt (the stateless HTTP layer) return ErrPromptUnavailable and the
// prompt state is handed back to the caller as a PromptError.
type Prompter interface {
	PromptPostcode(ctx context.Context, message, suggestion string) (string, error)
}

// Field is the visible postcode form field. The resolver keeps it consistent
// with whichever point a cycle settles on.
type Field interface {
	SetPostcode(text string)
}

// Common errors for the resolver.
var (
	// ErrPromptUnavailable is returned by prompters that cannot collect input.
	ErrPromptUnavailable = errors.New("postcode prompt is not available")
	// ErrPromptAttemptsExceeded is returned when every bounded prompt attempt produced an invalid postcode.
	ErrPromptAttemptsExceeded = errors.New("no valid postcode entered within the allowed attempts")
)

// PromptError reports that a cycle cannot settle without postcode input. It
// carries the message and suggestion the prompt should show.
type PromptError struct {
	Message    string
	Suggestion string
}

func (e *PromptError) Error() string {
	return "postcode input required: " + e.Message
}

// Resolver runs resolution cycles for one session. Each cycle is stamped with
// a generation so completions belonging to superseded cycles are discarded
// instead of mutating newer state.
type Resolver struct {
	geo          geocoding.Provider // geo is the geocoding capability
	providerName string             // providerName labels geocoding metrics
	metrics      *metrics.Metrics   // metrics tracks geocoding performance
	log          *slog.Logger       // log is the logger for logging operations
	maxAttempts  int                // maxAttempts bounds the postcode prompt loop

	// mu serialises generation bumps against asynchronous field fills: a
	// fill must never pass the staleness check while a newer cycle is
	// starting.
	mu         sync.Mutex
	generation atomic.Uint64 // generation is the current cycle identifier
}

// New creates a resolver for one session.
func New(
	geo geocoding.Provider,
	providerName string,
	appMetrics *metrics.Metrics,
	log *slog.Logger,
	maxAttempts int,
) *Resolver {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Resolver{
		geo:          geo,
		providerName: providerName,
		metrics:      appMetrics,
		log:          log,
		maxAttempts:  maxAttempts,
	}
}

// Generation returns the identifier of the most recent cycle. Callers use it
// to drop results that arrive after a newer cycle has started.
func (r *Resolver) Generation() uint64 {
	return r.generation.Load()
}

// nextGeneration starts a new cycle. Taking the lock here means an in-flight
// fill either completes before the new cycle exists or sees the new generation
// and discards itself; it can never interleave between the two.
func (r *Resolver) nextGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.generation.Add(1)
}

// Resolve runs one full resolution cycle. With permission granted or
// promptable it attempts device geolocation; the postcode field is then
// populated asynchronously by reverse geocoding without blocking the caller.
// On geolocation failure or denied permission it falls back to the bounded
// postcode prompt.
func (r *Resolver) Resolve(
	ctx context.Context,
	device Device,
	prompt Prompter,
	field Field,
) (*models.Resolution, error) {
	gen := r.nextGeneration()

	state, err := device.Permission(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Permission query failed, treating as denied", "error", err)
		state = models.PermissionDenied
	}

	if state == models.PermissionGranted || state == models.PermissionPrompt {
		point, posErr := device.Position(ctx)
		if posErr == nil {
			r.log.DebugContext(ctx, "Resolved location from device",
				"generation", gen, "lat", point.Latitude, "lng", point.Longitude)

			// Fire-and-forget: the field is filled in when the reverse
			// geocode lands, the search does not wait for it.
			go r.fillPostcodeField(context.WithoutCancel(ctx), gen, *point, field)

			return &models.Resolution{Point: *point, Source: models.SourceDevice, Generation: gen}, nil
		}
		r.log.WarnContext(ctx, "Device geolocation failed, falling back to postcode prompt", "error", posErr)
	}

	return r.promptLoop(ctx, gen, MsgNoPermission, prompt, field)
}

// ResolveManual runs a cycle from user-edited postcode field text (the update
// location action). Invalid text drops straight into the prompt loop with the
// invalid-postcode message, matching the page behaviour.
func (r *Resolver) ResolveManual(
	ctx context.Context,
	raw string,
	prompt Prompter,
	field Field,
) (*models.Resolution, error) {
	gen := r.nextGeneration()

	if validate.Postcode(raw) {
		return r.resolveFromPostcode(ctx, gen, raw, field)
	}

	return r.promptLoop(ctx, gen, MsgInvalidPostcode, prompt, field)
}

// promptLoop requests postcode text until it validates or the attempt budget
// is spent. The original page re-prompted forever; the bound and the
// ErrPromptAttemptsExceeded exit are the cancel path it lacked.
func (r *Resolver) promptLoop(
	ctx context.Context,
	gen uint64,
	firstMessage string,
	prompt Prompter,
	field Field,
) (*models.Resolution, error) {
	message := firstMessage
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		raw, err := prompt.PromptPostcode(ctx, message, DefaultSuggestion)
		if errors.Is(err, ErrPromptUnavailable) {
			return nil, &PromptError{Message: message, Suggestion: DefaultSuggestion}
		}
		if err != nil {
			return nil, fmt.Errorf("postcode prompt failed: %w", err)
		}

		if !validate.Postcode(raw) {
			r.log.DebugContext(ctx, "Prompted postcode is invalid, re-prompting",
				"generation", gen, "attempt", attempt+1)
			message = MsgInvalidPostcode
			continue
		}

		return r.resolveFromPostcode(ctx, gen, raw, field)
	}

	return nil, ErrPromptAttemptsExceeded
}

// resolveFromPostcode echoes the entered text into the field exactly as typed,
// then forward-geocodes it.
func (r *Resolver) resolveFromPostcode(
	ctx context.Context,
	gen uint64,
	raw string,
	field Field,
) (*models.Resolution, error) {
	field.SetPostcode(raw)

	startTime := time.Now()
	point, err := r.geo.Geocode(ctx, raw)
	r.metrics.GeocodeSeconds.WithLabelValues(r.providerName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		r.metrics.GeocodeErrors.Inc()
		return nil, fmt.Errorf("failed to geocode postcode %q: %w", raw, err)
	}

	r.log.DebugContext(ctx, "Resolved location from postcode",
		"generation", gen, "postcode", raw, "lat", point.Latitude, "lng", point.Longitude)

	return &models.Resolution{
		Point:      *point,
		Source:     models.SourcePostcode,
		Postcode:   raw,
		Generation: gen,
	}, nil
}

// fillPostcodeField reverse-geocodes a device-derived point to populate the
// postcode field. No result leaves the field blank, that is not an error.
// Completions from superseded cycles are discarded.
func (r *Resolver) fillPostcodeField(
	ctx context.Context,
	gen uint64,
	point models.GeoPoint,
	field Field,
) {
	startTime := time.Now()
	postcode, err := r.geo.ReverseGeocode(ctx, point)
	r.metrics.GeocodeSeconds.WithLabelValues(r.providerName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		r.log.DebugContext(ctx, "Reverse geocoding yielded no postcode, leaving field blank",
			"generation", gen, "error", err)
		return
	}

	// Check-and-set under the lock: once the check passes, no newer cycle
	// can start until the field is written.
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation.Load() != gen {
		r.log.DebugContext(ctx, "Discarding stale reverse geocode result",
			"generation", gen, "current", r.generation.Load())
		return
	}

	field.SetPostcode(postcode)
}
