package models

// Station is a named stop on a route.
// Position in the route's station list is significant: departure, destination,
// then intermediate stops in the order they were added.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Optional coordinates, only used for the geometry preview
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether both lat and lng are set.
func (s Station) HasCoordinates() bool {
	return s.Lat != nil && s.Lng != nil
}
