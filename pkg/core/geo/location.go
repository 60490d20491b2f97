package geo

// Address is the reverse-geocoded context a client may attach to its
// coordinates.
type Address struct {
	City      string `json:"city,omitempty"`
	Region    string `json:"region,omitempty"`
	Subregion string `json:"subregion,omitempty"`
}

// UserLocation is the position a client reports for itself.
type UserLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   *Address `json:"address,omitempty"`
}

// Point returns the coordinate pair of the location.
func (u *UserLocation) Point() Point {
	return Point{Lat: u.Latitude, Lng: u.Longitude}
}
