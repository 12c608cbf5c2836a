package incident

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterRecent_DropsStaleEntries(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	incidents := []Incident{
		{Type: Theft, Title: "recent", OccurredAt: now.Add(-24 * time.Hour)},
		{Type: Assault, Title: "stale", OccurredAt: now.Add(-120 * 24 * time.Hour)},
		{Type: Protest, Title: "edge", OccurredAt: now.Add(-89 * 24 * time.Hour)},
	}

	got := FilterRecent(incidents, now)
	assert.Len(t, got, 2)
	assert.Equal(t, "recent", got[0].Title)
	assert.Equal(t, "edge", got[1].Title)
}

func TestFilterRecent_DropsFutureEntries(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	incidents := []Incident{
		{Type: TrafficAccident, Title: "tomorrow", OccurredAt: now.Add(24 * time.Hour)},
	}

	assert.Empty(t, FilterRecent(incidents, now))
}

func TestFilterRecent_CapsAtMaxPerRequest(t *testing.T) {
	now := time.Now()

	incidents := make([]Incident, 0, 35)
	for i := 0; i < 35; i++ {
		incidents = append(incidents, Incident{
			Type:       Theft,
			Title:      fmt.Sprintf("incident %d", i),
			OccurredAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	got := FilterRecent(incidents, now)
	assert.Len(t, got, MaxPerRequest)
	// Provider order is preserved; truncation keeps the head of the list.
	assert.Equal(t, "incident 0", got[0].Title)
}

func TestTypeSerious(t *testing.T) {
	assert.True(t, Theft.Serious())
	assert.True(t, Assault.Serious())
	assert.False(t, TrafficAccident.Serious())
	assert.False(t, Protest.Serious())
	assert.False(t, Type("Vandalism").Serious())
}
