package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/darkexploiter/saferoute-server/internal/lib/geo"
	"github.com/darkexploiter/saferoute-server/internal/lib/routing"
)

// ErrNoRouteFound indicates the provider had no answer for the requested
// pair: an error status, a non-Ok response code, or an empty route list.
// Transient provider failures surface the same way; requests are never
// retried.
var ErrNoRouteFound = errors.New("no route found")

// HTTPDoer abstracts HTTP execution for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Mapbox Directions and Geocoding APIs.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  HTTPDoer
}

// NewClient creates a new Mapbox API client
func NewClient(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     "https://api.mapbox.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(accessToken, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  doer,
	}
}

// RouteAlternatives requests driving route alternatives with step-level
// detail and normalizes each into a routing.Route. Route identity is
// assigned in provider order (route-0 / "Route 1", ...) and later stages
// rely on that ordering staying stable.
func (c *Client) RouteAlternatives(ctx context.Context, start, end geo.Point) ([]routing.Route, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("geometries", "polyline")
	params.Set("overview", "full")
	params.Set("steps", "true")
	params.Set("alternatives", "true")

	requestURL := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f?%s",
		c.baseURL,
		start.Longitude, start.Latitude,
		end.Longitude, end.Latitude,
		params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create directions request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRouteFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: directions API error %d: %s", ErrNoRouteFound, resp.StatusCode, string(body))
	}

	var response directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode directions response: %v", ErrNoRouteFound, err)
	}

	if response.Code != "Ok" || len(response.Routes) == 0 {
		return nil, fmt.Errorf("%w: provider returned code %q with %d routes", ErrNoRouteFound, response.Code, len(response.Routes))
	}

	routes := make([]routing.Route, 0, len(response.Routes))
	for i, raw := range response.Routes {
		var mr mapboxRoute
		if err := json.Unmarshal(raw, &mr); err != nil {
			return nil, fmt.Errorf("%w: malformed route %d: %v", ErrNoRouteFound, i, err)
		}

		routes = append(routes, routing.Route{
			ID:              fmt.Sprintf("route-%d", i),
			Name:            fmt.Sprintf("Route %d", i+1),
			DistanceMeters:  mr.Distance,
			DurationSeconds: mr.Duration,
			Geometry:        mr.Geometry,
			Waypoints:       downsampleSteps(mr),
			Raw:             raw,
		})
	}

	return routes, nil
}

// downsampleSteps keeps every third turn-by-turn step as a display
// waypoint. A route with no steps at all gets a single synthetic
// "Direct route" waypoint so the display list is never empty.
func downsampleSteps(mr mapboxRoute) []routing.Waypoint {
	var steps []mapboxStep
	if len(mr.Legs) > 0 {
		steps = mr.Legs[0].Steps
	}

	var waypoints []routing.Waypoint
	for i, step := range steps {
		if i%3 != 0 {
			continue
		}

		instruction := step.Maneuver.Instruction
		if instruction == "" {
			instruction = fmt.Sprintf("Turn at step %d", len(waypoints)+1)
		}

		var location *geo.Point
		if len(step.Maneuver.Location) == 2 {
			location = &geo.Point{
				Longitude: step.Maneuver.Location[0],
				Latitude:  step.Maneuver.Location[1],
			}
		}

		waypoints = append(waypoints, routing.Waypoint{
			Location:    location,
			Instruction: instruction,
		})
	}

	if len(waypoints) == 0 {
		waypoints = append(waypoints, routing.Waypoint{Instruction: "Direct route"})
	}

	return waypoints
}

// ReverseGeocode resolves the nearest named place for a coordinate.
// Callers treat any failure as advisory and substitute a sentinel.
func (c *Client) ReverseGeocode(ctx context.Context, p geo.Point) (string, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("types", "place")
	params.Set("limit", "1")

	requestURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%f,%f.json?%s",
		c.baseURL, p.Longitude, p.Latitude, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geocoding API error %d: %s", resp.StatusCode, string(body))
	}

	var response geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(response.Features) == 0 || response.Features[0].Text == "" {
		return "", errors.New("no place found for coordinate")
	}

	return response.Features[0].Text, nil
}

// directionsResponse keeps routes raw so the full provider payload can be
// passed through for detail views.
type directionsResponse struct {
	Code   string            `json:"code"`
	Routes []json.RawMessage `json:"routes"`
}

type mapboxRoute struct {
	Distance float64     `json:"distance"`
	Duration float64     `json:"duration"`
	Geometry string      `json:"geometry"`
	Legs     []mapboxLeg `json:"legs"`
}

type mapboxLeg struct {
	Steps []mapboxStep `json:"steps"`
}

type mapboxStep struct {
	Maneuver mapboxManeuver `json:"maneuver"`
}

type mapboxManeuver struct {
	Location    []float64 `json:"location"`
	Instruction string    `json:"instruction"`
}

type geocodingResponse struct {
	Features []geocodingFeature `json:"features"`
}

type geocodingFeature struct {
	Text string `json:"text"`
}
