// Package mapview holds the server-side state of the map display capability:
// the centre, zoom level and the current marker set. The browser renders from
// this state; the orchestrator only ever talks to it through an interface.
package mapview

import (
	"sync"

	"github.com/UnknownOlympus/asclepius/internal/models"
)

// Marker is one selectable map entry backed by a doctor candidate.
type Marker struct {
	ID        int                    `json:"id"`
	Candidate models.DoctorCandidate `json:"candidate"`
}

// View is the display state for one session. All mutating calls replace or
// extend state under a single lock, mirroring the run-to-completion model of
// the page main thread.
type View struct {
	mu      sync.Mutex
	center  models.GeoPoint
	zoom    int
	markers []Marker
	nextID  int
}

// New creates an empty view centred on the given point.
func New(center models.GeoPoint, zoom int) *View {
	return &View{center: center, zoom: zoom}
}

// Reset recentres the view and disposes every previous marker. Each search
// replaces the candidate set wholesale, so markers never accumulate across
// searches.
func (v *View) Reset(center models.GeoPoint, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.center = center
	v.zoom = zoom
	v.markers = nil
}

// AddMarker places a marker for the candidate.
func (v *View) AddMarker(candidate models.DoctorCandidate) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextID++
	v.markers = append(v.markers, Marker{ID: v.nextID, Candidate: candidate})
}

// Marker returns the marker with the given id, if present.
func (v *View) Marker(id int) (Marker, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, marker := range v.markers {
		if marker.ID == id {
			return marker, true
		}
	}

	return Marker{}, false
}

// Markers returns a copy of the current marker set.
func (v *View) Markers() []Marker {
	v.mu.Lock()
	defer v.mu.Unlock()

	markers := make([]Marker, len(v.markers))
	copy(markers, v.markers)

	return markers
}

// Center returns the current centre point and zoom level.
func (v *View) Center() (models.GeoPoint, int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.center, v.zoom
}
