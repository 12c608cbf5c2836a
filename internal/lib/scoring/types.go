package scoring

// Result is the uniform scoring outcome, produced either by the
// generative analyst or by the deterministic fallback. Scores are in
// [0, 10]; higher is safer. Routes are referenced by display name.
type Result struct {
	SafestRouteName string              `json:"safestRouteName"`
	Reason          string              `json:"reason"`
	RouteScores     map[string]float64  `json:"routeScores"`
	RouteRisks      map[string][]string `json:"routeRisks"`
}

// DefaultScore is reported for a route the scorer left out of its score
// mapping. A defensive placeholder, not a safety claim.
const DefaultScore = 8.0
