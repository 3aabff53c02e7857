package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/media-dashboard/backend/internal/models"
)

// PlatformAggregator totals engagements per platform.
type PlatformAggregator struct{}

func (a *PlatformAggregator) Key() string   { return "platform" }
func (a *PlatformAggregator) Title() string { return "Platform Engagements" }

// rankedTotals returns label/value pairs sorted by value descending, ties
// broken alphabetically so output is deterministic.
func rankedTotals(totals map[string]float64) ([]string, []float64) {
	labels := make([]string, 0, len(totals))
	for k := range totals {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if totals[labels[i]] != totals[labels[j]] {
			return totals[labels[i]] > totals[labels[j]]
		}
		return labels[i] < labels[j]
	})
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = totals[l]
	}
	return labels, values
}

func (a *PlatformAggregator) totals(t *models.MentionTable) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range t.Records {
		platform := r.Platform
		if platform == "" {
			platform = "Unknown"
		}
		totals[platform] += float64(r.Engagements)
	}
	return totals
}

func (a *PlatformAggregator) Aggregate(t *models.MentionTable) models.ChartSpec {
	labels, values := rankedTotals(a.totals(t))
	layout := models.DefaultChartLayout()
	layout.XAxisTitle = "Platform"
	layout.YAxisTitle = "Engagements"
	return models.ChartSpec{
		Type:   models.ChartTypeBar,
		Title:  a.Title(),
		Labels: labels,
		Series: []models.Series{{Name: "Engagements", Values: values}},
		Layout: layout,
	}
}

func (a *PlatformAggregator) Summary(t *models.MentionTable) string {
	labels, values := rankedTotals(a.totals(t))
	if len(labels) == 0 {
		return "No platform data available."
	}
	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = fmt.Sprintf("%s %.0f", labels[i], values[i])
	}
	return fmt.Sprintf("Total engagements per platform: %s.", strings.Join(parts, ", "))
}
