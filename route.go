package routai

// Coordinate is a geographic point in signed decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Location is a named place on the route.
type Location struct {
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`
}

// Route describes a path between two locations. Polyline holds the encoded
// differential coordinate string; polyline.Decode turns it into the path.
// Distance is in meters, ElevationGain in meters of total climb.
type Route struct {
	Polyline      string   `json:"polyline"`
	Origin        Location `json:"origin"`
	Destination   Location `json:"destination"`
	Distance      int      `json:"distance"`
	ElevationGain int      `json:"elevation_gain"`
}

// Segment is one riding day of the overall route.
type Segment struct {
	Day                  int             `json:"day"`
	Route                Route           `json:"route"`
	AccommodationOptions []Accommodation `json:"accommodation_options"`
}

// Accommodation is a lodging option near a segment's end point, as returned
// by the backend. The client only displays it.
type Accommodation struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	MapLink string  `json:"map_link"`
	Rating  float64 `json:"rating"`
}

// DistanceKM returns the route distance in kilometers.
func (r Route) DistanceKM() float64 {
	return float64(r.Distance) / 1000
}
