package models

import (
	"strings"
	"time"
)

// Sentiment is the polarity label attached to a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// MentionRecord is one parsed row of a media mention CSV.
// Columns: Date, Platform, Sentiment, Location, Engagements, Media Type.
type MentionRecord struct {
	Date        time.Time `json:"date"`
	Platform    string    `json:"platform"`
	Sentiment   Sentiment `json:"sentiment"`
	Location    string    `json:"location"`
	Engagements int64     `json:"engagements"`
	MediaType   string    `json:"mediaType"`
}

// MentionTable is the normalized in-memory table the aggregators consume.
type MentionTable struct {
	Records []MentionRecord `json:"records"`
}

// Len returns the number of parsed rows.
func (t *MentionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// ParseError describes a CSV row that could not be parsed.
type ParseError struct {
	Line    int    `json:"line"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason"`
}

// IsCSVType reports whether a file name/MIME pair denotes CSV content.
func IsCSVType(name, mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "text/csv", "application/csv", "application/vnd.ms-excel":
		return strings.HasSuffix(strings.ToLower(name), ".csv") || mt == "text/csv" || mt == "application/csv"
	}
	if mt == "" || mt == "application/octet-stream" || mt == "text/plain" {
		return strings.HasSuffix(strings.ToLower(name), ".csv")
	}
	return false
}

// NormalizeSentiment maps free-form sentiment text to a canonical label.
// Unknown values fall back to neutral so one odd row cannot skew a chart
// into a phantom category.
func NormalizeSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos":
		return SentimentPositive
	case "negative", "neg":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
