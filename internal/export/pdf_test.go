package export

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/render"
)

func testDataset() *models.DashboardDataset {
	layout := models.DefaultChartLayout()
	return &models.DashboardDataset{
		FileID: "file-1",
		Panels: []models.Panel{
			{
				Key:   "sentiment",
				Title: "Sentiment Breakdown",
				Chart: models.ChartSpec{
					Type:   models.ChartTypePie,
					Title:  "Sentiment Breakdown",
					Labels: []string{"Positive", "Neutral", "Negative"},
					Series: []models.Series{{Name: "Mentions", Values: []float64{3, 2, 1}}},
					Layout: layout,
				},
				Insights: []string{"Positive sentiment dominates.", "Negative share is small."},
			},
			{
				Key:   "platform",
				Title: "Platform Engagements",
				Chart: models.ChartSpec{
					Type:   models.ChartTypeBar,
					Title:  "Platform Engagements",
					Labels: []string{"Twitter", "Facebook"},
					Series: []models.Series{{Name: "Engagements", Values: []float64{325, 75}}},
					Layout: layout,
				},
				Insights: []string{"Twitter drives most engagement."},
			},
		},
		RecordCount: 6,
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		pageHeight int
		wantPages  int
		lastHeight int
	}{
		{"single short page", 500, 1000, 1, 500},
		{"remainder page", 1500, 1000, 2, 500},
		{"exact multiple yields no trailing blank", 2000, 1000, 2, 1000},
		{"exact single page", 1000, 1000, 1, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := image.NewRGBA(image.Rect(0, 0, 800, tt.height))
			pages := Paginate(capture, tt.pageHeight)

			if len(pages) != tt.wantPages {
				t.Fatalf("expected %d pages, got %d", tt.wantPages, len(pages))
			}
			last := pages[len(pages)-1].Bounds()
			if last.Dy() != tt.lastHeight {
				t.Errorf("expected last page height %d, got %d", tt.lastHeight, last.Dy())
			}
			total := 0
			for _, page := range pages {
				if page.Bounds().Dx() != 800 {
					t.Errorf("page width changed: %d", page.Bounds().Dx())
				}
				total += page.Bounds().Dy()
			}
			if total != tt.height {
				t.Errorf("pages cover %d px of %d", total, tt.height)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	r := NewRenderer(render.NewChartRenderer())
	ds := testDataset()

	capture, err := r.Capture(context.Background(), ds)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	wantWidth := int(float64(render.DefaultWidth) * captureScale)
	if capture.Bounds().Dx() != wantWidth {
		t.Errorf("expected width %d, got %d", wantWidth, capture.Bounds().Dx())
	}
	wantHeight := 2*int(float64(render.DefaultHeight)*captureScale) + panelGapPx
	if capture.Bounds().Dy() != wantHeight {
		t.Errorf("expected height %d, got %d", wantHeight, capture.Bounds().Dy())
	}
}

func TestCapture_EmptyDataset(t *testing.T) {
	r := NewRenderer(nil)
	if _, err := r.Capture(context.Background(), &models.DashboardDataset{}); err == nil {
		t.Error("expected error for dataset without panels")
	}
}

func TestCapture_Cancelled(t *testing.T) {
	r := NewRenderer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Capture(ctx, testDataset()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestExport(t *testing.T) {
	r := NewRenderer(nil)

	doc, filename, err := r.Export(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != ReportFilename {
		t.Errorf("expected filename %q, got %q", ReportFilename, filename)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
	if !r.Available() {
		t.Error("renderer should report available")
	}
}

func TestExport_NothingToExport(t *testing.T) {
	r := NewRenderer(nil)
	if _, _, err := r.Export(context.Background(), nil); err == nil {
		t.Error("expected error for nil dataset")
	}
}

func TestUnavailable(t *testing.T) {
	var u Unavailable
	if u.Available() {
		t.Error("Unavailable must report unavailable")
	}
	if _, _, err := u.Export(context.Background(), testDataset()); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
