package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkexploiter/saferoute-server/internal/lib/incident"
	"github.com/darkexploiter/saferoute-server/internal/lib/routing"
)

func route(name string, distance float64, instructions ...string) routing.Route {
	waypoints := make([]routing.Waypoint, len(instructions))
	for i, instr := range instructions {
		waypoints[i] = routing.Waypoint{Instruction: instr}
	}
	return routing.Route{Name: name, DistanceMeters: distance, Waypoints: waypoints}
}

func TestFallback_SingleRouteNoIncidents(t *testing.T) {
	// Singleton set has no distance normalization penalty; only the
	// highway/city adjustment applies.
	res := Fallback([]routing.Route{route("Route 1", 5000, "Continue straight")}, nil)
	assert.Equal(t, 10.0, res.RouteScores["Route 1"])
	assert.Equal(t, "Route 1", res.SafestRouteName)
}

func TestFallback_SingleRouteCityLeaning(t *testing.T) {
	res := Fallback([]routing.Route{route("Route 1", 5000, "Turn left onto Oak Street")}, nil)
	assert.Equal(t, 9.2, res.RouteScores["Route 1"])
}

func TestFallback_SingleRouteHighwayClampedAtTen(t *testing.T) {
	res := Fallback([]routing.Route{route("Route 1", 5000, "Merge onto the highway")}, nil)
	assert.Equal(t, 10.0, res.RouteScores["Route 1"])
}

func TestFallback_DistanceNormalizationLinear(t *testing.T) {
	routes := []routing.Route{
		route("Route 1", 1000, "Continue straight"),
		route("Route 2", 2000, "Continue straight"),
	}

	res := Fallback(routes, nil)
	assert.Equal(t, 10.0, res.RouteScores["Route 1"])
	assert.Equal(t, 8.0, res.RouteScores["Route 2"])
	assert.Equal(t, "Route 1", res.SafestRouteName)
}

func TestFallback_EqualDistancesNoPenalty(t *testing.T) {
	routes := []routing.Route{
		route("Route 1", 3000, "Continue straight"),
		route("Route 2", 3000, "Continue straight"),
	}

	res := Fallback(routes, nil)
	assert.Equal(t, 10.0, res.RouteScores["Route 1"])
	assert.Equal(t, 10.0, res.RouteScores["Route 2"])
	// Tie resolves to the route fetched first.
	assert.Equal(t, "Route 1", res.SafestRouteName)
}

func TestFallback_IncidentPenaltiesAreAreaWide(t *testing.T) {
	routes := []routing.Route{
		route("Route 1", 3000, "Continue straight"),
		route("Route 2", 3000, "Continue straight"),
	}
	now := time.Now()
	incidents := []incident.Incident{
		{Type: incident.Theft, Title: "bag snatching", OccurredAt: now},
		{Type: incident.Protest, Title: "road blockade", OccurredAt: now},
	}

	res := Fallback(routes, incidents)
	// -1.8 serious and -0.6 minor applied identically to both routes.
	assert.Equal(t, 7.6, res.RouteScores["Route 1"])
	assert.Equal(t, 7.6, res.RouteScores["Route 2"])
	assert.Contains(t, res.Reason, "2 safety incidents")
}

func TestFallback_HighwayBeatsShorterCityRoute(t *testing.T) {
	routes := []routing.Route{
		route("Route 1", 6000, "Turn onto MG Road", "Continue on Oak Lane"),
		route("Route 2", 6500, "Merge onto NH 48", "Continue on expressway"),
	}

	res := Fallback(routes, nil)
	// Route 1: 10 - 0 (shortest) - 0.8 (city) = 9.2
	// Route 2: 10 - 2.0 (longest) + 1.0 (highway) = 9.0
	assert.Equal(t, 9.2, res.RouteScores["Route 1"])
	assert.Equal(t, 9.0, res.RouteScores["Route 2"])
	assert.Equal(t, "Route 1", res.SafestRouteName)
}

func TestFallback_ScoresClampedToFloor(t *testing.T) {
	now := time.Now()
	routes := []routing.Route{
		route("Route 1", 1000, "Continue straight"),
		route("Route 2", 9000, "Turn onto Main Street"),
	}
	incidents := []incident.Incident{
		{Type: incident.Assault, OccurredAt: now},
		{Type: incident.TrafficAccident, OccurredAt: now},
	}

	res := Fallback(routes, incidents)
	// Route 2 raw: 10 - 2.0 - 1.8 - 0.6 - 0.8 = 4.8, clamped to 5.0.
	assert.Equal(t, 5.0, res.RouteScores["Route 2"])

	for name, score := range res.RouteScores {
		assert.GreaterOrEqual(t, score, 5.0, name)
		assert.LessOrEqual(t, score, 10.0, name)
	}
}

func TestFallback_Deterministic(t *testing.T) {
	routes := []routing.Route{
		route("Route 1", 4200, "Merge onto NH 8"),
		route("Route 2", 5100, "Turn left onto Park Street"),
	}
	incidents := []incident.Incident{{Type: incident.Theft, OccurredAt: time.Now()}}

	first := Fallback(routes, incidents)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Fallback(routes, incidents))
	}
}

func TestFallback_EmptyRiskLists(t *testing.T) {
	res := Fallback([]routing.Route{route("Route 1", 1000)}, nil)
	require.Contains(t, res.RouteRisks, "Route 1")
	assert.Empty(t, res.RouteRisks["Route 1"])
}
