package incident

import "time"

const (
	// RecencyWindow is how far back incidents are considered relevant.
	RecencyWindow = 90 * 24 * time.Hour

	// MaxPerRequest caps how many incidents feed into scoring.
	MaxPerRequest = 20

	// MaxReported caps how many incidents appear in the response.
	MaxReported = 10
)

// FilterRecent drops incidents whose OccurredAt falls outside the recency
// window ending at now, and truncates the result to MaxPerRequest. The
// analysis provider is instructed to honor the window itself, but models
// ignore instructions often enough that the filter is applied again here.
func FilterRecent(incidents []Incident, now time.Time) []Incident {
	cutoff := now.Add(-RecencyWindow)

	recent := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.OccurredAt.Before(cutoff) || inc.OccurredAt.After(now) {
			continue
		}
		recent = append(recent, inc)
		if len(recent) == MaxPerRequest {
			break
		}
	}
	return recent
}
