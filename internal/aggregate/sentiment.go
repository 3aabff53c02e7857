package aggregate

import (
	"fmt"

	"github.com/media-dashboard/backend/internal/models"
)

// SentimentAggregator counts mentions per sentiment polarity.
type SentimentAggregator struct{}

func (a *SentimentAggregator) Key() string   { return "sentiment" }
func (a *SentimentAggregator) Title() string { return "Sentiment Breakdown" }

func (a *SentimentAggregator) counts(t *models.MentionTable) (pos, neu, neg int64) {
	for _, r := range t.Records {
		switch r.Sentiment {
		case models.SentimentPositive:
			pos++
		case models.SentimentNegative:
			neg++
		default:
			neu++
		}
	}
	return
}

func (a *SentimentAggregator) Aggregate(t *models.MentionTable) models.ChartSpec {
	pos, neu, neg := a.counts(t)
	return models.ChartSpec{
		Type:   models.ChartTypePie,
		Title:  a.Title(),
		Labels: []string{"Positive", "Neutral", "Negative"},
		Series: []models.Series{
			{Values: []float64{float64(pos), float64(neu), float64(neg)}},
		},
		Layout: models.DefaultChartLayout(),
	}
}

func (a *SentimentAggregator) Summary(t *models.MentionTable) string {
	pos, neu, neg := a.counts(t)
	return fmt.Sprintf(
		"Out of %d media mentions, %d are positive, %d neutral and %d negative.",
		t.Len(), pos, neu, neg)
}
