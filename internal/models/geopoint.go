package models

// GeoPoint represents a geographical point defined by its latitude and longitude.
// A point is produced either by the device geolocation capability or by geocoding
// a postcode, and is immutable once constructed.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
}
