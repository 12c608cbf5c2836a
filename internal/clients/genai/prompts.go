package genai

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// System prompt for the incident search request. The model doubles as a
// search/summarization agent; the recency window is stated explicitly and
// enforced again after parsing.
const incidentSystemPrompt = `You are a safety incident reporter. You search for and summarize recent safety incidents in a named area.

Instructions:
- Only report incidents that occurred within the stated date window.
- Classify every incident as one of: "Theft", "Assault", "Traffic Accident", "Protest".
- Theft covers robbery and burglary; Assault covers violence and attacks;
  Traffic Accident covers road accidents; Protest covers demonstrations.
- title is a brief headline.
- description is a 2-3 sentence summary, max 150 characters.
- time is the approximate date of the incident in ISO format, inside the window.
- If nothing relevant is found, return an empty incidents array.`

// incidentReportSchema defines the JSON schema for structured incident output
var incidentReportSchema = openai.ChatCompletionResponseFormatJSONSchema{
	Name:   "incident_report",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"incidents": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"type": {
							"type": "string",
							"enum": ["Theft", "Assault", "Traffic Accident", "Protest"],
							"description": "Incident classification"
						},
						"title": {
							"type": "string",
							"description": "Brief headline"
						},
						"description": {
							"type": "string",
							"maxLength": 150,
							"description": "2-3 sentence summary"
						},
						"time": {
							"type": "string",
							"description": "Approximate date in ISO format, within the stated window"
						}
					},
					"required": ["type", "title", "description", "time"],
					"additionalProperties": false
				}
			}
		},
		"required": ["incidents"],
		"additionalProperties": false
	}`),
}

// System prompt for route safety scoring. The rubric matches the
// deterministic fallback so both paths weigh routes the same way.
const scoringSystemPrompt = `You are a route safety analyst. You receive driving route alternatives for one trip plus recent safety incidents near the area, and you score each route.

Scoring rubric:
- Start each route at 10 and keep scores within 0-10.
- Subtract 3 per Theft or Assault incident near a route.
- Subtract 1 per Traffic Accident or Protest incident near a route.
- Prefer highway routes over city routes, and city over residential.
- Shorter routes are safer.

Respond with the name of the safest route, a short two-sentence reason, a score for every route by name, and a list of short risk phrases for every route by name (empty list when no risks).`

// routeAnalysisSchema defines the JSON schema for structured scoring output
var routeAnalysisSchema = openai.ChatCompletionResponseFormatJSONSchema{
	Name:   "route_analysis",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"safestRouteName": {
				"type": "string",
				"description": "Name of the safest route, e.g. \"Route 2\""
			},
			"reason": {
				"type": "string",
				"description": "Short explanation in 2 sentences"
			},
			"routeScores": {
				"type": "object",
				"description": "Safety score per route name, 0-10",
				"patternProperties": { "^.+$": { "type": "number" } },
				"additionalProperties": false
			},
			"routeRisks": {
				"type": "object",
				"description": "Short risk phrases per route name",
				"patternProperties": { "^.+$": { "type": "array", "items": { "type": "string" } } },
				"additionalProperties": false
			}
		},
		"required": ["safestRouteName", "reason", "routeScores", "routeRisks"],
		"additionalProperties": false
	}`),
}
