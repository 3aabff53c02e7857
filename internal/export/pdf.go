// Package export renders a processed dashboard into a downloadable PDF.
//
// The pipeline mirrors what a user sees on screen: every panel chart is
// rendered at print resolution, stacked into one tall capture image, and the
// capture is sliced into A4-proportioned pages. Panel insights follow as a
// text section.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/jung-kurt/gofpdf"
	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/render"
)

// ReportFilename is the fixed download name of every exported report.
const ReportFilename = "media-mention-report.pdf"

// ErrUnavailable is returned by the Unavailable exporter variant.
var ErrUnavailable = errors.New("pdf export is not available")

// Capture geometry. Charts render at double resolution for print.
const (
	captureScale = 2.0
	panelGapPx   = 24
)

// A4 page geometry in millimeters.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	pageMarginMM = 10.0
)

// Renderer implements dashboard.Exporter with go-chart and gofpdf.
type Renderer struct {
	charts *render.ChartRenderer
}

// NewRenderer creates a PDF exporter using the given chart renderer.
func NewRenderer(charts *render.ChartRenderer) *Renderer {
	if charts == nil {
		charts = render.NewChartRenderer()
	}
	return &Renderer{charts: charts}
}

// Available reports that this exporter can produce documents.
func (r *Renderer) Available() bool { return true }

// Export captures the dashboard, paginates it, and composes the PDF.
func (r *Renderer) Export(ctx context.Context, dataset *models.DashboardDataset) ([]byte, string, error) {
	if dataset == nil || len(dataset.Panels) == 0 {
		return nil, "", fmt.Errorf("nothing to export")
	}

	capture, err := r.Capture(ctx, dataset)
	if err != nil {
		return nil, "", fmt.Errorf("capture dashboard: %w", err)
	}

	pages := Paginate(capture, pageSlicePx(capture.Bounds().Dx()))

	doc, err := composePDF(pages, dataset)
	if err != nil {
		return nil, "", fmt.Errorf("compose pdf: %w", err)
	}
	return doc, ReportFilename, nil
}

// Capture renders every panel chart at print resolution and stacks them into
// one tall image on a white background, the way the dashboard lays them out.
func (r *Renderer) Capture(ctx context.Context, dataset *models.DashboardDataset) (*image.RGBA, error) {
	if len(dataset.Panels) == 0 {
		return nil, fmt.Errorf("dataset has no panels")
	}

	panels := make([]image.Image, 0, len(dataset.Panels))
	width, height := 0, 0

	for i := range dataset.Panels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		panel := &dataset.Panels[i]
		data, err := r.charts.RenderPNG(&panel.Chart, captureScale)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", panel.Key, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("panel %s: decode: %w", panel.Key, err)
		}
		panels = append(panels, img)
		if img.Bounds().Dx() > width {
			width = img.Bounds().Dx()
		}
		height += img.Bounds().Dy()
	}
	height += panelGapPx * (len(panels) - 1)

	capture := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(capture, capture.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, img := range panels {
		b := img.Bounds()
		target := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(capture, target, img, b.Min, draw.Over)
		y += b.Dy() + panelGapPx
	}
	return capture, nil
}

// pageSlicePx converts the printable A4 height into capture pixels for an
// image of the given width.
func pageSlicePx(imageWidth int) int {
	contentW := pageWidthMM - 2*pageMarginMM
	contentH := pageHeightMM - 2*pageMarginMM
	return int(float64(imageWidth) * contentH / contentW)
}

// Paginate slices the capture into page-height chunks. The last chunk holds
// the remainder; a capture whose height is an exact multiple of pageHeight
// yields exactly height/pageHeight pages with no trailing blank.
func Paginate(capture *image.RGBA, pageHeight int) []image.Image {
	if pageHeight <= 0 {
		return []image.Image{capture}
	}

	bounds := capture.Bounds()
	var pages []image.Image
	for y := bounds.Min.Y; y < bounds.Max.Y; y += pageHeight {
		bottom := y + pageHeight
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		pages = append(pages, capture.SubImage(image.Rect(bounds.Min.X, y, bounds.Max.X, bottom)))
	}
	return pages
}

func composePDF(pages []image.Image, dataset *models.DashboardDataset) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Media Mention Dashboard", false)
	pdf.SetAutoPageBreak(false, pageMarginMM)

	contentW := pageWidthMM - 2*pageMarginMM
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}

		b := page.Bounds()
		heightMM := contentW * float64(b.Dy()) / float64(b.Dx())

		name := fmt.Sprintf("dashboard-page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, pageMarginMM, pageMarginMM, contentW, heightMM, false, opts, 0, "")
	}

	writeInsightSection(pdf, dataset)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// writeInsightSection appends the panel insights as a text section. On screen
// the bullets sit under each chart; in the report they get their own pages so
// the chart slicing stays exact.
func writeInsightSection(pdf *gofpdf.Fpdf, dataset *models.DashboardDataset) {
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.AddPage()
	pdf.SetX(pageMarginMM)

	contentW := pageWidthMM - 2*pageMarginMM

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Insights", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i := range dataset.Panels {
		panel := &dataset.Panels[i]
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 8, panel.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, bullet := range panel.Insights {
			pdf.MultiCell(contentW, 5.5, "- "+bullet, "", "L", false)
		}
		pdf.Ln(3)
	}
}

// Unavailable is the exporter used when PDF generation is disabled. Requests
// against it fail fast without touching the dashboard state.
type Unavailable struct{}

// Available reports that no document can be produced.
func (Unavailable) Available() bool { return false }

// Export always fails with ErrUnavailable.
func (Unavailable) Export(context.Context, *models.DashboardDataset) ([]byte, string, error) {
	return nil, "", ErrUnavailable
}
