// Package session holds the per-browser-session state of the booking widget.
// Nothing here survives the process: sessions live in memory and expire after
// a period of inactivity.
package session

import (
	"sync"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/mapview"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/resolver"
)

// Session is the server-side analog of one open widget page: the postcode
// field, the map view, the current candidate set and the single selection
// slot. A mutex serialises mutations the way the page main thread does.
type Session struct {
	ID string // ID is the opaque session identifier handed to the client.

	// Resolver runs this session's resolution cycles. Set once at creation.
	Resolver *resolver.Resolver

	mu             sync.Mutex
	view           *mapview.View
	postcode       string
	candidates     []models.DoctorCandidate
	selected       *models.DoctorCandidate
	doctorName     string
	doctorVicinity string
	lastSeen       time.Time
}

// View returns the session's map view.
func (s *Session) View() *mapview.View {
	return s.view
}

// SetPostcode sets the visible postcode field text. It implements
// resolver.Field.
func (s *Session) SetPostcode(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postcode = text
}

// Postcode returns the visible postcode field text.
func (s *Session) Postcode() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.postcode
}

// SetCandidates replaces the candidate set wholesale and clears any selection
// that pointed into the previous set.
func (s *Session) SetCandidates(candidates []models.DoctorCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = candidates
	s.selected = nil
	s.doctorName = ""
	s.doctorVicinity = ""
}

// Candidates returns the current candidate set.
func (s *Session) Candidates() []models.DoctorCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.candidates
}

// Select overwrites the selection slot with the clicked candidate and updates
// the doctor display fields synchronously. Selections never accumulate.
func (s *Session) Select(candidate models.DoctorCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := candidate
	s.selected = &selected
	s.doctorName = candidate.Name
	s.doctorVicinity = candidate.Vicinity
}

// Selected returns the currently selected doctor, or nil before any click.
func (s *Session) Selected() *models.DoctorCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// DoctorDisplay returns the two doctor display fields.
func (s *Session) DoctorDisplay() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doctorName, s.doctorVicinity
}

// touch records activity for the idle-expiry sweep.
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = now
}

// idleSince reports the last activity time.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen
}
