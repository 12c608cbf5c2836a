package routing

import (
	"encoding/json"

	"github.com/darkexploiter/saferoute-server/internal/lib/geo"
)

// Waypoint is a down-sampled turn-by-turn instruction point kept for
// compact display. Full step data stays in the route's raw payload.
type Waypoint struct {
	Location    *geo.Point `json:"coordinates,omitempty"`
	Instruction string     `json:"instruction"`
}

// Route is one alternative returned by the routing provider, normalized
// for the scoring pipeline. Immutable once fetched; identity is the
// fetch-order name ("Route 1", "Route 2", ...) which must stay stable
// because scoring results refer to routes by name.
type Route struct {
	ID              string
	Name            string
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        string // encoded polyline
	Waypoints       []Waypoint
	Raw             json.RawMessage // full provider payload, for detail views
}
