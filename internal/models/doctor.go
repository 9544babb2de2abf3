package models

// DoctorCandidate is a single doctor listing returned by a nearby search.
// Candidates are transient: the whole set is replaced on every new search.
type DoctorCandidate struct {
	Name     string   `json:"name"`     // Name is the display name of the practice or doctor.
	Vicinity string   `json:"vicinity"` // Vicinity is the short human-readable address.
	Location GeoPoint `json:"location"` // Location is where the marker is placed.
}
