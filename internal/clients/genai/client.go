package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/darkexploiter/saferoute-server/internal/lib/geo"
	"github.com/darkexploiter/saferoute-server/internal/lib/incident"
	"github.com/darkexploiter/saferoute-server/internal/lib/routing"
	"github.com/darkexploiter/saferoute-server/internal/lib/scoring"
)

var (
	// ErrUnavailable indicates no credential is configured or every model
	// variant failed. Callers fall back to deterministic scoring.
	ErrUnavailable = errors.New("analysis service unavailable")

	// ErrBadResponse indicates the provider answered but the payload did
	// not parse into the expected shape. Recoverable, same as ErrUnavailable.
	ErrBadResponse = errors.New("unusable analysis response")
)

// chatCompleter abstracts the OpenAI client for testing
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to the generative-analysis provider with structured output.
// Models are tried in configured order; the first variant whose completion
// call succeeds wins. A client without a credential is valid and reports
// Configured() == false.
type Client struct {
	api    chatCompleter
	models []string
}

// NewClient creates a generative-analysis client. An empty API key yields
// an unconfigured client; callers must check Configured.
func NewClient(apiKey string, models []string) *Client {
	if apiKey == "" {
		return &Client{models: models}
	}
	return &Client{
		api:    openai.NewClient(apiKey),
		models: models,
	}
}

// newClientWithCompleter creates a client with a custom completion backend for testing
func newClientWithCompleter(api chatCompleter, models []string) *Client {
	return &Client{api: api, models: models}
}

// Configured reports whether a provider credential is available.
func (c *Client) Configured() bool {
	return c.api != nil
}

// RecentIncidents asks the analysis provider for safety incidents in the
// named area within the recency window ending at now. Entries with
// unparseable timestamps are dropped; window enforcement and capping are
// the caller's job.
func (c *Client) RecentIncidents(ctx context.Context, area string, now time.Time) ([]incident.Incident, error) {
	today := now.Format("2006-01-02")
	windowStart := now.Add(-incident.RecencyWindow).Format("2006-01-02")

	userPrompt := fmt.Sprintf(`Search for recent safety incidents in %s.

IMPORTANT: Today's date is %s. Only report incidents that occurred in the past 90 days (between %s and %s).

Look for incidents involving:
- Theft/Robbery
- Assault/Violence/Attacks
- Traffic Accidents/Road accidents
- Protests/Demonstrations`,
		area, today, windowStart, today)

	content, err := c.completeStructured(ctx, incidentSystemPrompt, userPrompt, &incidentReportSchema)
	if err != nil {
		return nil, err
	}

	var report struct {
		Incidents []struct {
			Type        string `json:"type"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Time        string `json:"time"`
		} `json:"incidents"`
	}
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	incidents := make([]incident.Incident, 0, len(report.Incidents))
	for _, raw := range report.Incidents {
		occurredAt, ok := parseIncidentTime(raw.Time)
		if !ok {
			slog.Warn("dropping incident with unparseable time", "time", raw.Time, "title", raw.Title)
			continue
		}
		incidents = append(incidents, incident.Incident{
			Type:        incident.Type(raw.Type),
			Title:       raw.Title,
			Description: raw.Description,
			OccurredAt:  occurredAt,
		})
	}
	return incidents, nil
}

// ScoreRoutes asks the analysis provider to score each route for safety
// given the area and its recent incidents.
func (c *Client) ScoreRoutes(ctx context.Context, routes []routing.Route, area string, center geo.Point, incidents []incident.Incident) (*scoring.Result, error) {
	var routeLines []string
	for _, r := range routes {
		var path []string
		for _, w := range r.Waypoints {
			path = append(path, w.Instruction)
		}
		routeLines = append(routeLines, fmt.Sprintf("%s: %.1fkm, %dmin -> %s",
			r.Name,
			r.DistanceMeters/1000,
			int(r.DurationSeconds/60+0.5),
			strings.Join(path, " -> ")))
	}

	incidentText := "None reported"
	if len(incidents) > 0 {
		var lines []string
		for _, inc := range incidents {
			lines = append(lines, fmt.Sprintf("%s: %s", inc.Type, inc.Title))
		}
		incidentText = strings.Join(lines, "\n")
	}

	userPrompt := fmt.Sprintf(`Analyze %d routes for safety.

Location: %s (%.4f, %.4f)
Recent Incidents:
%s

Routes:
%s`,
		len(routes), area, center.Latitude, center.Longitude, incidentText, strings.Join(routeLines, "\n"))

	content, err := c.completeStructured(ctx, scoringSystemPrompt, userPrompt, &routeAnalysisSchema)
	if err != nil {
		return nil, err
	}

	var result scoring.Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if result.SafestRouteName == "" || len(result.RouteScores) == 0 {
		return nil, fmt.Errorf("%w: missing safest route or score mapping", ErrBadResponse)
	}
	if result.RouteRisks == nil {
		result.RouteRisks = map[string][]string{}
	}

	return &result, nil
}

// completeStructured runs a chat completion with a strict JSON schema,
// trying each configured model variant in order.
func (c *Client) completeStructured(ctx context.Context, systemPrompt, userPrompt string, schema *openai.ChatCompletionResponseFormatJSONSchema) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	var lastErr error
	for _, model := range c.models {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type:       openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: schema,
			},
			Temperature: 0.3,
			MaxTokens:   1500,
		})
		if err != nil {
			slog.Warn("model variant failed", "model", model, "error", err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("no choices in response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: all model variants failed: %v", ErrUnavailable, lastErr)
}

// parseIncidentTime accepts full RFC 3339 timestamps or bare dates, which
// is what models actually return for "ISO format".
func parseIncidentTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
