package aggregate

import (
	"fmt"
	"strings"

	"github.com/media-dashboard/backend/internal/models"
)

// MediaTypeAggregator counts mentions per media type.
type MediaTypeAggregator struct{}

func (a *MediaTypeAggregator) Key() string   { return "media-type" }
func (a *MediaTypeAggregator) Title() string { return "Media Type Mix" }

func (a *MediaTypeAggregator) counts(t *models.MentionTable) map[string]float64 {
	counts := make(map[string]float64)
	for _, r := range t.Records {
		mt := r.MediaType
		if mt == "" {
			mt = "Unknown"
		}
		counts[mt]++
	}
	return counts
}

func (a *MediaTypeAggregator) Aggregate(t *models.MentionTable) models.ChartSpec {
	labels, values := rankedTotals(a.counts(t))
	layout := models.DefaultChartLayout()
	layout.ShowLegend = true
	return models.ChartSpec{
		Type:   models.ChartTypeDonut,
		Title:  a.Title(),
		Labels: labels,
		Series: []models.Series{{Values: values}},
		Layout: layout,
	}
}

func (a *MediaTypeAggregator) Summary(t *models.MentionTable) string {
	labels, values := rankedTotals(a.counts(t))
	if len(labels) == 0 {
		return "No media type data available."
	}
	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = fmt.Sprintf("%s %.0f", labels[i], values[i])
	}
	return fmt.Sprintf("Mention counts per media type: %s.", strings.Join(parts, ", "))
}
