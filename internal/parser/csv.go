// Package parser turns uploaded mention CSV files into normalized tables.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/media-dashboard/backend/internal/models"
)

// Column order of a mention CSV. A header row is detected and skipped; files
// without a header are accepted as long as the first row parses.
var expectedColumns = []string{"Date", "Platform", "Sentiment", "Location", "Engagements", "Media Type"}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseMentions reads a mention CSV into a MentionTable. Rows that cannot be
// parsed are collected as ParseErrors rather than failing the whole file; the
// returned error is reserved for I/O level failures.
func ParseMentions(r io.Reader) (*models.MentionTable, []*models.ParseError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records := make([]models.MentionRecord, 0, 256)
	errs := make([]*models.ParseError, 0)

	lineNum := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			errs = append(errs, &models.ParseError{Line: lineNum, Reason: fmt.Sprintf("malformed CSV row: %v", err)})
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		if lineNum == 1 && isHeaderRow(row) {
			continue
		}
		if len(row) < len(expectedColumns) {
			errs = append(errs, &models.ParseError{
				Line:    lineNum,
				Content: strings.Join(row, ","),
				Reason:  fmt.Sprintf("expected %d columns, got %d", len(expectedColumns), len(row)),
			})
			continue
		}

		rec, perr := parseRow(row)
		if perr != nil {
			perr.Line = lineNum
			errs = append(errs, perr)
			continue
		}
		records = append(records, rec)
	}

	return &models.MentionTable{Records: records}, errs, nil
}

func parseRow(row []string) (models.MentionRecord, *models.ParseError) {
	dateStr := strings.TrimSpace(row[0])
	date, ok := parseDate(dateStr)
	if !ok {
		return models.MentionRecord{}, &models.ParseError{
			Content: strings.Join(row, ","),
			Reason:  fmt.Sprintf("invalid date %q", dateStr),
		}
	}

	engStr := strings.TrimSpace(row[4])
	eng, err := parseEngagements(engStr)
	if err != nil {
		return models.MentionRecord{}, &models.ParseError{
			Content: strings.Join(row, ","),
			Reason:  fmt.Sprintf("invalid engagements %q", engStr),
		}
	}

	return models.MentionRecord{
		Date:        date,
		Platform:    strings.TrimSpace(row[1]),
		Sentiment:   models.NormalizeSentiment(row[2]),
		Location:    strings.TrimSpace(row[3]),
		Engagements: eng,
		MediaType:   strings.TrimSpace(row[5]),
	}, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseEngagements accepts plain integers plus the thousand-separator and
// decimal forms spreadsheet exports tend to produce.
func parseEngagements(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isHeaderRow reports whether the first row looks like the column header
// rather than data. Matching is loose: a "Date" first cell is enough, since
// a data row would hold a parseable date there.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	if first == "date" {
		return true
	}
	_, isDate := parseDate(strings.TrimSpace(row[0]))
	return !isDate
}
