package aggregate

import (
	"fmt"
	"sort"

	"github.com/media-dashboard/backend/internal/models"
)

const trendDateLayout = "2006-01-02"

// EngagementTrendAggregator sums engagements per calendar day.
type EngagementTrendAggregator struct{}

func (a *EngagementTrendAggregator) Key() string   { return "engagement-trend" }
func (a *EngagementTrendAggregator) Title() string { return "Engagement Trend over Time" }

func (a *EngagementTrendAggregator) byDay(t *models.MentionTable) ([]string, []float64) {
	totals := make(map[string]float64)
	for _, r := range t.Records {
		day := r.Date.Format(trendDateLayout)
		totals[day] += float64(r.Engagements)
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	values := make([]float64, len(days))
	for i, day := range days {
		values[i] = totals[day]
	}
	return days, values
}

func (a *EngagementTrendAggregator) Aggregate(t *models.MentionTable) models.ChartSpec {
	days, values := a.byDay(t)
	layout := models.DefaultChartLayout()
	layout.XAxisTitle = "Date"
	layout.YAxisTitle = "Engagements"
	return models.ChartSpec{
		Type:   models.ChartTypeLine,
		Title:  a.Title(),
		Labels: days,
		Series: []models.Series{{Name: "Engagements", Values: values}},
		Layout: layout,
	}
}

func (a *EngagementTrendAggregator) Summary(t *models.MentionTable) string {
	days, values := a.byDay(t)
	if len(days) == 0 {
		return "No engagement data available."
	}
	var total, peak float64
	peakDay := days[0]
	for i, v := range values {
		total += v
		if v > peak {
			peak = v
			peakDay = days[i]
		}
	}
	return fmt.Sprintf(
		"Daily engagement totals from %s to %s across %d days, %.0f engagements in total, peaking at %.0f on %s.",
		days[0], days[len(days)-1], len(days), total, peak, peakDay)
}
