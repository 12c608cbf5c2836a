package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-polyline"
)

// NewPoint builds a validated Point from a lng/lat pair.
func NewPoint(lng, lat float64) (Point, error) {
	if !isFinite(lng) || !isFinite(lat) {
		return Point{}, fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidCoordinate)
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: longitude must be [-180, 180], latitude must be [-90, 90]", ErrCoordinateOutOfRange)
	}
	if math.Abs(lng) < 0.1 && math.Abs(lat) < 0.1 {
		return Point{}, ErrSentinelCoordinate
	}
	return Point{Longitude: lng, Latitude: lat}, nil
}

// ParsePoint parses a "lng,lat" delimited string into a validated Point.
// Extra components after the first two are ignored.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return Point{}, fmt.Errorf("%w: expected \"lng,lat\", got %q", ErrInvalidCoordinate, s)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q is not a number", ErrInvalidCoordinate, parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q is not a number", ErrInvalidCoordinate, parts[1])
	}

	return NewPoint(lng, lat)
}

// Midpoint returns the arithmetic midpoint of two points. Adequate for
// city-scale trips; no great-circle interpolation needed.
func Midpoint(a, b Point) Point {
	return Point{
		Longitude: (a.Longitude + b.Longitude) / 2,
		Latitude:  (a.Latitude + b.Latitude) / 2,
	}
}

// Distance calculates the great-circle distance between two points in
// meters using the Haversine formula.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	const earthRadius = 6371000

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dlat := (b.Latitude - a.Latitude) * math.Pi / 180
	dlng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// DecodePolyline decodes an encoded polyline string into a point sequence.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, fmt.Errorf("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		// go-polyline decodes lat-first
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
	}
	return points, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
