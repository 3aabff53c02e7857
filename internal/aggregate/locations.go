package aggregate

import (
	"fmt"
	"strings"

	"github.com/media-dashboard/backend/internal/models"
)

// LocationAggregator ranks locations by total engagements and keeps the
// top N.
type LocationAggregator struct {
	TopN int
}

func (a *LocationAggregator) Key() string { return "locations" }

func (a *LocationAggregator) Title() string {
	return fmt.Sprintf("Top %d Locations", a.limit())
}

func (a *LocationAggregator) limit() int {
	if a.TopN <= 0 {
		return 5
	}
	return a.TopN
}

func (a *LocationAggregator) top(t *models.MentionTable) ([]string, []float64) {
	totals := make(map[string]float64)
	for _, r := range t.Records {
		loc := r.Location
		if loc == "" {
			loc = "Unknown"
		}
		totals[loc] += float64(r.Engagements)
	}
	labels, values := rankedTotals(totals)
	if len(labels) > a.limit() {
		labels = labels[:a.limit()]
		values = values[:a.limit()]
	}
	return labels, values
}

func (a *LocationAggregator) Aggregate(t *models.MentionTable) models.ChartSpec {
	labels, values := a.top(t)
	layout := models.DefaultChartLayout()
	layout.XAxisTitle = "Location"
	layout.YAxisTitle = "Engagements"
	return models.ChartSpec{
		Type:   models.ChartTypeBar,
		Title:  a.Title(),
		Labels: labels,
		Series: []models.Series{{Name: "Engagements", Values: values}},
		Layout: layout,
	}
}

func (a *LocationAggregator) Summary(t *models.MentionTable) string {
	labels, values := a.top(t)
	if len(labels) == 0 {
		return "No location data available."
	}
	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = fmt.Sprintf("%s %.0f", labels[i], values[i])
	}
	return fmt.Sprintf("Top locations by engagements: %s.", strings.Join(parts, ", "))
}
