package models

// PermissionState mirrors the browser geolocation permission states.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionPrompt  PermissionState = "prompt"
	PermissionDenied  PermissionState = "denied"
)

// LocationSource identifies which input produced a resolved location.
type LocationSource string

const (
	// SourceDevice means the point came from device geolocation.
	SourceDevice LocationSource = "device"
	// SourcePostcode means the point came from forward-geocoding a postcode.
	SourcePostcode LocationSource = "postcode"
)

// Resolution is the settled outcome of one resolution cycle: exactly one
// canonical point, the source that produced it, and the cycle generation used
// to discard stale asynchronous completions.
type Resolution struct {
	Point      GeoPoint       // Point is the canonical location driving search.
	Source     LocationSource // Source is how the point was obtained.
	Postcode   string         // Postcode is the entered text for postcode-derived points, empty for device-derived ones.
	Generation uint64         // Generation is the resolution cycle identifier.
}
