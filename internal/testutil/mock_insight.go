// mock_insight.go - Mock insight provider for testing
package testutil

import (
	"context"
	"sync"
	"time"
)

// MockInsightProvider implements insight.Provider with scripted behavior.
type MockInsightProvider struct {
	mu sync.Mutex

	// Bullets returned for every call unless overridden per title.
	Bullets []string
	// PerTitle overrides the response for specific chart titles.
	PerTitle map[string][]string
	// Errors maps chart titles to errors.
	Errors map[string]error
	// Delays maps chart titles to artificial latency, for exercising
	// completion-order independence.
	Delays map[string]time.Duration

	calls []string
}

// NewMockInsightProvider returns a provider that answers every call with
// the given bullets.
func NewMockInsightProvider(bullets ...string) *MockInsightProvider {
	return &MockInsightProvider{Bullets: bullets}
}

func (m *MockInsightProvider) GenerateInsights(ctx context.Context, title, summary string) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, title)
	delay := m.Delays[title]
	err := m.Errors[title]
	bullets, hasOverride := m.PerTitle[title]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if hasOverride {
		return append([]string(nil), bullets...), nil
	}
	return append([]string(nil), m.Bullets...), nil
}

// Calls returns the chart titles requested so far.
func (m *MockInsightProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
