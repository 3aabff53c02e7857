package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/media-dashboard/backend/internal/models"
)

func testTable() *models.MentionTable {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	return &models.MentionTable{Records: []models.MentionRecord{
		{Date: day(1), Platform: "Twitter", Sentiment: models.SentimentPositive, Location: "New York", Engagements: 100, MediaType: "Video"},
		{Date: day(1), Platform: "Instagram", Sentiment: models.SentimentNeutral, Location: "London", Engagements: 50, MediaType: "Image"},
		{Date: day(2), Platform: "Twitter", Sentiment: models.SentimentNegative, Location: "Paris", Engagements: 200, MediaType: "Article"},
		{Date: day(3), Platform: "Facebook", Sentiment: models.SentimentPositive, Location: "New York", Engagements: 75, MediaType: "Video"},
		{Date: day(3), Platform: "Twitter", Sentiment: models.SentimentPositive, Location: "Berlin", Engagements: 25, MediaType: "Image"},
		{Date: day(3), Platform: "Instagram", Sentiment: models.SentimentNeutral, Location: "Tokyo", Engagements: 10, MediaType: "Video"},
	}}
}

func TestDefault_OrderIsFixed(t *testing.T) {
	wantKeys := []string{"sentiment", "engagement-trend", "platform", "media-type", "locations"}
	aggs := Default()
	if len(aggs) != len(wantKeys) {
		t.Fatalf("expected %d aggregators, got %d", len(wantKeys), len(aggs))
	}
	for i, a := range aggs {
		if a.Key() != wantKeys[i] {
			t.Errorf("aggregator %d: expected key %s, got %s", i, wantKeys[i], a.Key())
		}
	}
}

func TestSentimentAggregator(t *testing.T) {
	a := &SentimentAggregator{}
	spec := a.Aggregate(testTable())

	if spec.Type != models.ChartTypePie {
		t.Errorf("expected pie chart, got %s", spec.Type)
	}
	if !reflect.DeepEqual(spec.Labels, []string{"Positive", "Neutral", "Negative"}) {
		t.Errorf("unexpected labels: %v", spec.Labels)
	}
	want := []float64{3, 2, 1}
	if !reflect.DeepEqual(spec.Series[0].Values, want) {
		t.Errorf("expected values %v, got %v", want, spec.Series[0].Values)
	}
	if !spec.Layout.Responsive || spec.Layout.DisplayModeBar {
		t.Errorf("unexpected layout: %+v", spec.Layout)
	}
}

func TestEngagementTrendAggregator(t *testing.T) {
	a := &EngagementTrendAggregator{}
	spec := a.Aggregate(testTable())

	if spec.Type != models.ChartTypeLine {
		t.Errorf("expected line chart, got %s", spec.Type)
	}
	wantDays := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	if !reflect.DeepEqual(spec.Labels, wantDays) {
		t.Errorf("expected days %v, got %v", wantDays, spec.Labels)
	}
	wantValues := []float64{150, 200, 110}
	if !reflect.DeepEqual(spec.Series[0].Values, wantValues) {
		t.Errorf("expected values %v, got %v", wantValues, spec.Series[0].Values)
	}
}

func TestPlatformAggregator(t *testing.T) {
	a := &PlatformAggregator{}
	spec := a.Aggregate(testTable())

	wantLabels := []string{"Twitter", "Facebook", "Instagram"}
	if !reflect.DeepEqual(spec.Labels, wantLabels) {
		t.Errorf("expected labels %v, got %v", wantLabels, spec.Labels)
	}
	wantValues := []float64{325, 75, 60}
	if !reflect.DeepEqual(spec.Series[0].Values, wantValues) {
		t.Errorf("expected values %v, got %v", wantValues, spec.Series[0].Values)
	}
}

func TestMediaTypeAggregator(t *testing.T) {
	a := &MediaTypeAggregator{}
	spec := a.Aggregate(testTable())

	if spec.Type != models.ChartTypeDonut {
		t.Errorf("expected donut chart, got %s", spec.Type)
	}
	wantLabels := []string{"Video", "Image", "Article"}
	if !reflect.DeepEqual(spec.Labels, wantLabels) {
		t.Errorf("expected labels %v, got %v", wantLabels, spec.Labels)
	}
	wantValues := []float64{3, 2, 1}
	if !reflect.DeepEqual(spec.Series[0].Values, wantValues) {
		t.Errorf("expected values %v, got %v", wantValues, spec.Series[0].Values)
	}
}

func TestLocationAggregator_TopN(t *testing.T) {
	a := &LocationAggregator{TopN: 3}
	spec := a.Aggregate(testTable())

	if len(spec.Labels) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(spec.Labels))
	}
	wantLabels := []string{"Paris", "New York", "London"}
	if !reflect.DeepEqual(spec.Labels, wantLabels) {
		t.Errorf("expected labels %v, got %v", wantLabels, spec.Labels)
	}
	if a.Title() != "Top 3 Locations" {
		t.Errorf("unexpected title: %s", a.Title())
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	table := testTable()
	for _, a := range Default() {
		first := a.Aggregate(table)
		second := a.Aggregate(table)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("aggregator %s is not deterministic", a.Key())
		}
		if a.Summary(table) != a.Summary(table) {
			t.Errorf("aggregator %s summary is not deterministic", a.Key())
		}
	}
}

func TestAggregate_EmptyTable(t *testing.T) {
	empty := &models.MentionTable{}
	for _, a := range Default() {
		spec := a.Aggregate(empty)
		if spec.Title == "" {
			t.Errorf("aggregator %s produced an untitled chart", a.Key())
		}
		if a.Summary(empty) == "" {
			t.Errorf("aggregator %s produced an empty summary", a.Key())
		}
	}
}
