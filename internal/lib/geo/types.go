package geo

import "errors"

// Point represents a geographic coordinate as longitude/latitude,
// matching the provider convention of lng-first pairs.
type Point struct {
	Longitude float64 `json:"lng"`
	Latitude  float64 `json:"lat"`
}

// Validation errors returned by ParsePoint and NewPoint. The API layer
// maps these onto 4xx responses.
var (
	// ErrInvalidCoordinate indicates input that could not be parsed into
	// two finite numbers.
	ErrInvalidCoordinate = errors.New("invalid coordinate format")

	// ErrCoordinateOutOfRange indicates longitude outside [-180, 180] or
	// latitude outside [-90, 90].
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")

	// ErrSentinelCoordinate indicates a point within 0.1 degrees of (0, 0).
	// Device geolocation reports (0, 0) when unset, so near-zero pairs are
	// rejected. A real location just off the Gulf of Guinea is rejected
	// too; distinguishing the two is out of scope.
	ErrSentinelCoordinate = errors.New("coordinate too close to (0,0)")
)
