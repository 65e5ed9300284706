package domain

// Location is a device coordinate in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// DefaultLocation is used whenever the device location is absent (New Delhi).
var DefaultLocation = Location{Latitude: 28.6139, Longitude: 77.2090}

// Valid reports whether the coordinate is inside WGS84 bounds.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}
