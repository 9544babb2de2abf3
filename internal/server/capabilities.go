package server

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/resolver"
)

// ErrPositionUnavailable is returned when the client reported no device coordinates.
var ErrPositionUnavailable = errors.New("device position unavailable")

// clientDevice adapts the client-reported permission state and coordinates to
// the resolver's device capability. The browser runs the real permission query
// and geolocation call; the backend only ever sees their outcome.
type clientDevice struct {
	permission models.PermissionState
	position   *models.GeoPoint
}

func (d clientDevice) Permission(_ context.Context) (models.PermissionState, error) {
	if d.permission == "" {
		return models.PermissionDenied, nil
	}

	return d.permission, nil
}

func (d clientDevice) Position(_ context.Context) (*models.GeoPoint, error) {
	if d.position == nil {
		return nil, ErrPositionUnavailable
	}

	return d.position, nil
}

// noPrompt is the prompter for the stateless HTTP flow: the server cannot
// block on user input, so the prompt state is handed back to the client as a
// resolver.PromptError and the client answers with a follow-up request.
type noPrompt struct{}

func (noPrompt) PromptPostcode(_ context.Context, _, _ string) (string, error) {
	return "", resolver.ErrPromptUnavailable
}
