package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/darkexploiter/saferoute-server/internal/lib/geo"
	"github.com/darkexploiter/saferoute-server/internal/lib/incident"
	"github.com/darkexploiter/saferoute-server/internal/lib/routing"
	"github.com/darkexploiter/saferoute-server/internal/lib/scoring"
)

// UnknownArea is the advisory place name used when reverse geocoding
// fails. Area resolution never blocks the pipeline.
const UnknownArea = "Unknown area"

// RouteSource fetches route alternatives from the routing provider.
type RouteSource interface {
	RouteAlternatives(ctx context.Context, start, end geo.Point) ([]routing.Route, error)
}

// Geocoder resolves a coordinate to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, p geo.Point) (string, error)
}

// SafetyAnalyst is the generative-analysis provider: incident search and
// AI route scoring. Configured reports whether a credential exists; an
// unconfigured analyst is a valid state, not an error.
type SafetyAnalyst interface {
	Configured() bool
	RecentIncidents(ctx context.Context, area string, now time.Time) ([]incident.Incident, error)
	ScoreRoutes(ctx context.Context, routes []routing.Route, area string, center geo.Point, incidents []incident.Incident) (*scoring.Result, error)
}

// DirectionsService runs the safe-route selection pipeline. It owns no
// state between requests; every entity lives for one request only.
type DirectionsService struct {
	routes   RouteSource
	geocoder Geocoder
	analyst  SafetyAnalyst
	now      func() time.Time
}

// NewDirectionsService creates a DirectionsService.
func NewDirectionsService(routes RouteSource, geocoder Geocoder, analyst SafetyAnalyst) *DirectionsService {
	return &DirectionsService{
		routes:   routes,
		geocoder: geocoder,
		analyst:  analyst,
		now:      time.Now,
	}
}

// ChosenRoute is the selected safest route with its full provider payload
// for turn-by-turn detail views.
type ChosenRoute struct {
	RouteName       string          `json:"routeName"`
	DistanceMeters  float64         `json:"distance"`
	DurationSeconds float64         `json:"duration"`
	Geometry        string          `json:"geometry"`
	Coordinates     []geo.Point     `json:"coordinates,omitempty"`
	FullRoute       json.RawMessage `json:"fullRoute"`
}

// RouteSummary is the per-alternative line in the response.
type RouteSummary struct {
	RouteName       string  `json:"routeName"`
	DistanceMeters  float64 `json:"distance"`
	DurationSeconds float64 `json:"duration"`
	SafetyScore     float64 `json:"safetyScore"`
}

// Analysis carries the scoring outcome for display.
type Analysis struct {
	Reason      string              `json:"reason"`
	RouteScores map[string]float64  `json:"routeScores"`
	RouteRisks  map[string][]string `json:"routeRisks"`
}

// SafeDirectionsResponse is the public result of the safe-route pipeline.
type SafeDirectionsResponse struct {
	Success        bool                `json:"success"`
	SafestRoute    ChosenRoute         `json:"safestRoute"`
	AllRoutes      []RouteSummary      `json:"allRoutes"`
	Analysis       Analysis            `json:"analysis"`
	IncidentsFound int                 `json:"incidentsFound"`
	Incidents      []incident.Incident `json:"incidents"`
}

// DirectionsResponse is the plain single-route result, no scoring.
type DirectionsResponse struct {
	Success         bool            `json:"success"`
	DistanceMeters  float64         `json:"distance"`
	DurationSeconds float64         `json:"duration"`
	Geometry        string          `json:"geometry"`
	Coordinates     []geo.Point     `json:"coordinates,omitempty"`
	FullRoute       json.RawMessage `json:"fullRoute"`
}

// SafeDirections fetches route alternatives, enriches them with area and
// incident context, scores them, and returns the safest route.
//
// Only the route fetch is fatal; geocoding, incident search and AI
// scoring each degrade to a defined default on failure. The fetch runs
// concurrently with the geocode/incident chain, which needs just the
// trip midpoint.
func (s *DirectionsService) SafeDirections(ctx context.Context, start, end geo.Point) (*SafeDirectionsResponse, error) {
	type fetchResult struct {
		routes []routing.Route
		err    error
	}
	fetchCh := make(chan fetchResult, 1)
	go func() {
		routes, err := s.routes.RouteAlternatives(ctx, start, end)
		fetchCh <- fetchResult{routes: routes, err: err}
	}()

	center := geo.Midpoint(start, end)
	area := s.resolveArea(ctx, center)
	incidents := s.recentIncidents(ctx, area)

	fetched := <-fetchCh
	if fetched.err != nil {
		return nil, fmt.Errorf("failed to fetch route alternatives: %w", fetched.err)
	}
	routes := fetched.routes

	result := s.scoreRoutes(ctx, routes, area, center, incidents)

	safest := routing.MatchByName(routes, result.SafestRouteName)

	coordinates, err := geo.DecodePolyline(safest.Geometry)
	if err != nil {
		slog.Warn("failed to decode chosen route geometry", "route", safest.Name, "error", err)
		coordinates = nil
	}

	summaries := make([]RouteSummary, 0, len(routes))
	for _, r := range routes {
		score, ok := result.RouteScores[r.Name]
		if !ok {
			score = scoring.DefaultScore
		}
		summaries = append(summaries, RouteSummary{
			RouteName:       r.Name,
			DistanceMeters:  r.DistanceMeters,
			DurationSeconds: r.DurationSeconds,
			SafetyScore:     score,
		})
	}

	reported := incidents
	if len(reported) > incident.MaxReported {
		reported = reported[:incident.MaxReported]
	}

	return &SafeDirectionsResponse{
		Success: true,
		SafestRoute: ChosenRoute{
			RouteName:       safest.Name,
			DistanceMeters:  safest.DistanceMeters,
			DurationSeconds: safest.DurationSeconds,
			Geometry:        safest.Geometry,
			Coordinates:     coordinates,
			FullRoute:       safest.Raw,
		},
		AllRoutes:      summaries,
		Analysis:       Analysis{Reason: result.Reason, RouteScores: result.RouteScores, RouteRisks: result.RouteRisks},
		IncidentsFound: len(incidents),
		Incidents:      reported,
	}, nil
}

// Directions returns the primary route without safety analysis.
func (s *DirectionsService) Directions(ctx context.Context, start, end geo.Point) (*DirectionsResponse, error) {
	routes, err := s.routes.RouteAlternatives(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	primary := routes[0]
	coordinates, err := geo.DecodePolyline(primary.Geometry)
	if err != nil {
		slog.Warn("failed to decode route geometry", "error", err)
		coordinates = nil
	}

	return &DirectionsResponse{
		Success:         true,
		DistanceMeters:  primary.DistanceMeters,
		DurationSeconds: primary.DurationSeconds,
		Geometry:        primary.Geometry,
		Coordinates:     coordinates,
		FullRoute:       primary.Raw,
	}, nil
}

// resolveArea reverse geocodes the trip midpoint. Advisory only: any
// failure yields the UnknownArea sentinel.
func (s *DirectionsService) resolveArea(ctx context.Context, center geo.Point) string {
	area, err := s.geocoder.ReverseGeocode(ctx, center)
	if err != nil {
		slog.Warn("reverse geocoding failed, using sentinel area", "error", err)
		return UnknownArea
	}
	return area
}

// recentIncidents gathers incidents for the area, enforcing the recency
// window and cap locally. Best-effort enrichment: failures and a missing
// analyst credential both yield an empty list.
func (s *DirectionsService) recentIncidents(ctx context.Context, area string) []incident.Incident {
	if !s.analyst.Configured() {
		return nil
	}

	incidents, err := s.analyst.RecentIncidents(ctx, area, s.now())
	if err != nil {
		slog.Warn("incident search failed, continuing without incidents", "area", area, "error", err)
		return nil
	}
	return incident.FilterRecent(incidents, s.now())
}

// scoreRoutes tries the AI scorer and falls back to the deterministic
// heuristic when it is unconfigured, unavailable, or returns an unusable
// payload. Never fails.
func (s *DirectionsService) scoreRoutes(ctx context.Context, routes []routing.Route, area string, center geo.Point, incidents []incident.Incident) *scoring.Result {
	if s.analyst.Configured() {
		result, err := s.analyst.ScoreRoutes(ctx, routes, area, center, incidents)
		if err == nil {
			return result
		}
		slog.Warn("AI scoring failed, using fallback scorer", "error", err)
	}
	return scoring.Fallback(routes, incidents)
}
