package incident

import "time"

// Type classifies a safety incident. Values match what the analysis
// provider is asked to emit; unknown strings pass through untyped.
type Type string

const (
	Theft           Type = "Theft"
	Assault         Type = "Assault"
	TrafficAccident Type = "Traffic Accident"
	Protest         Type = "Protest"
)

// Serious reports whether the incident type carries the larger scoring
// penalty (crimes against people rather than traffic disruptions).
func (t Type) Serious() bool {
	return t == Theft || t == Assault
}

// Incident is a safety-relevant event reported for an area. Incidents are
// produced per request and never persisted.
type Incident struct {
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"time"`
}
