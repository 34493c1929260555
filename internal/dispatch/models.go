// internal/dispatch/models.go
package dispatch

// Coordinate is a validated latitude/longitude pair. Construct through
// NewCoordinate; a zero Coordinate is valid (Null Island) but resolution
// inputs normally come from NewCoordinate or a collaborator.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates the ranges and returns the pair.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return Coordinate{}, ErrInvalidInput
	}
	return c, nil
}

// Valid reports whether latitude is in [-90, 90] and longitude in [-180, 180].
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// CandidateShape tags which of the two record shapes a candidate carries.
type CandidateShape string

const (
	// ShapeDirect carries raw latitude/longitude (registry path).
	ShapeDirect CandidateShape = "direct"
	// ShapeDerived carries address and distance but no raw coordinates
	// (spatial index path); coordinates are re-fetched by name.
	ShapeDerived CandidateShape = "derived"
)

// TechnicianCandidate is a technician record from either data source,
// pre-reconciliation. Exactly one shape's fields are populated; a candidate
// with an empty Shape is invalid and is rejected before use.
type TechnicianCandidate struct {
	Name   string         `json:"name"`
	Rating float64        `json:"rating"`
	Shape  CandidateShape `json:"shape"`

	// ShapeDirect fields.
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// ShapeDerived fields.
	Address  string  `json:"address,omitempty"`
	Distance float64 `json:"distance,omitempty"` // km from the queried point
}

// NewDirectCandidate builds a candidate with raw coordinates.
func NewDirectCandidate(name string, rating, lat, lon float64) TechnicianCandidate {
	return TechnicianCandidate{
		Name:      name,
		Rating:    rating,
		Shape:     ShapeDirect,
		Latitude:  lat,
		Longitude: lon,
	}
}

// NewDerivedCandidate builds a candidate with index-derived fields only.
func NewDerivedCandidate(name string, rating float64, address string, distanceKM float64) TechnicianCandidate {
	return TechnicianCandidate{
		Name:     name,
		Rating:   rating,
		Shape:    ShapeDerived,
		Address:  address,
		Distance: distanceKM,
	}
}

// Technician is the identity part of an assignment.
type Technician struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// TextValue mirrors the routing provider's text/value pairs, e.g.
// {"text": "8.2 km", "value": 8200}.
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Leg is one leg of a returned route.
type Leg struct {
	Distance     TextValue `json:"distance"`
	Duration     TextValue `json:"duration"`
	StartAddress string    `json:"start_address,omitempty"`
	EndAddress   string    `json:"end_address,omitempty"`
}

// Route is one route alternative from the routing provider.
type Route struct {
	Summary string `json:"summary,omitempty"`
	Legs    []Leg  `json:"legs"`
}

// RouteDetail is the full routing provider response.
type RouteDetail struct {
	Status string  `json:"status,omitempty"`
	Routes []Route `json:"routes"`
}

// RouteEstimate is a distance/duration pair for the customer-to-technician
// trip. Raw is nil on the degraded path; the text fields are always populated,
// with the fixed placeholders when degraded. Callers must treat placeholder
// values as approximate, never as measured data.
type RouteEstimate struct {
	DistanceText string       `json:"distanceText"`
	DurationText string       `json:"durationText"`
	Raw          *RouteDetail `json:"raw,omitempty"`
}

// Degraded reports whether the estimate is the fixed placeholder.
func (e RouteEstimate) Degraded() bool {
	return e.Raw == nil
}

// TechnicianAssignment is the terminal output of one resolution. It lives for
// a single request/render cycle and is never persisted by the core.
type TechnicianAssignment struct {
	Technician         Technician   `json:"technician"`
	TechnicianLocation Coordinate   `json:"technicianLocation"`
	DistanceText       string       `json:"distanceText"`
	DurationText       string       `json:"durationText"`
	Route              *RouteDetail `json:"route,omitempty"`
}
