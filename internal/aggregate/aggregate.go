// Package aggregate computes chart data from a normalized mention table.
//
// Each dashboard panel has one Aggregator. Aggregators are pure: the same
// table always yields the same ChartSpec and summary, which keeps
// reprocessing idempotent and insight prompts reproducible.
package aggregate

import (
	"github.com/media-dashboard/backend/internal/models"
)

// Aggregator produces one chart panel's data from the mention table.
type Aggregator interface {
	// Key is the stable panel identifier used by the render layer.
	Key() string
	// Title is the panel's display title.
	Title() string
	// Aggregate computes the chart specification.
	Aggregate(t *models.MentionTable) models.ChartSpec
	// Summary describes the underlying data in natural language for the
	// insight provider.
	Summary(t *models.MentionTable) string
}

// Default returns the dashboard's aggregators in display order. The order is
// fixed by declaration here; the processor must preserve it regardless of how
// insight calls complete.
func Default() []Aggregator {
	return []Aggregator{
		&SentimentAggregator{},
		&EngagementTrendAggregator{},
		&PlatformAggregator{},
		&MediaTypeAggregator{},
		&LocationAggregator{TopN: 5},
	}
}
