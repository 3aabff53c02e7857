// Package render turns chart specs into PNG images.
package render

import (
	"bytes"
	"fmt"

	"github.com/media-dashboard/backend/internal/models"
	"github.com/wcharczuk/go-chart/v2"
)

// Default pixel dimensions of a rendered panel. Export doubles these for
// print resolution.
const (
	DefaultWidth  = 800
	DefaultHeight = 420
)

// ChartRenderer renders ChartSpec values with go-chart.
type ChartRenderer struct {
	Width  int
	Height int
}

// NewChartRenderer returns a renderer at the default panel size.
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: DefaultWidth, Height: DefaultHeight}
}

// RenderPNG renders the spec into PNG bytes at the given scale factor.
func (r *ChartRenderer) RenderPNG(spec *models.ChartSpec, scale float64) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil chart spec")
	}
	if scale <= 0 {
		scale = 1
	}
	width := int(float64(r.Width) * scale)
	height := int(float64(r.Height) * scale)

	var buf bytes.Buffer
	var err error
	switch spec.Type {
	case models.ChartTypePie:
		err = r.renderPie(spec, width, height, false, &buf)
	case models.ChartTypeDonut:
		err = r.renderPie(spec, width, height, true, &buf)
	case models.ChartTypeBar:
		err = r.renderBar(spec, width, height, &buf)
	case models.ChartTypeLine:
		err = r.renderLine(spec, width, height, &buf)
	default:
		return nil, fmt.Errorf("unsupported chart type %q", spec.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart %q: %w", spec.Type, spec.Title, err)
	}
	return buf.Bytes(), nil
}

func (r *ChartRenderer) renderPie(spec *models.ChartSpec, width, height int, donut bool, buf *bytes.Buffer) error {
	values, err := sliceValues(spec)
	if err != nil {
		return err
	}
	if donut {
		ch := chart.DonutChart{
			Title:  spec.Title,
			Width:  width,
			Height: height,
			Values: values,
		}
		return ch.Render(chart.PNG, buf)
	}
	ch := chart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return ch.Render(chart.PNG, buf)
}

func (r *ChartRenderer) renderBar(spec *models.ChartSpec, width, height int, buf *bytes.Buffer) error {
	values, err := sliceValues(spec)
	if err != nil {
		return err
	}
	ch := chart.BarChart{
		Title:    spec.Title,
		Width:    width,
		Height:   height,
		BarWidth: 60,
		Bars:     values,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		YAxis: chart.YAxis{Name: spec.Layout.YAxisTitle},
	}
	return ch.Render(chart.PNG, buf)
}

func (r *ChartRenderer) renderLine(spec *models.ChartSpec, width, height int, buf *bytes.Buffer) error {
	if len(spec.Series) == 0 {
		return fmt.Errorf("line chart has no series")
	}

	var series []chart.Series
	for _, s := range spec.Series {
		if len(s.Values) != len(spec.Labels) {
			return fmt.Errorf("series %q has %d values for %d labels", s.Name, len(s.Values), len(spec.Labels))
		}
		xs := make([]float64, len(s.Values))
		for i := range xs {
			xs[i] = float64(i)
		}
		ys := append([]float64(nil), s.Values...)
		// go-chart rejects single-point series, so pad with a duplicate.
		if len(xs) == 1 {
			xs = append(xs, 1)
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys})
	}

	ticks := make([]chart.Tick, len(spec.Labels))
	for i, label := range spec.Labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	if len(ticks) == 1 {
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}

	ch := chart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 32},
		},
		XAxis:  chart.XAxis{Name: spec.Layout.XAxisTitle, Ticks: ticks},
		YAxis:  chart.YAxis{Name: spec.Layout.YAxisTitle},
		Series: series,
	}
	if spec.Layout.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, buf)
}

// sliceValues converts labels plus the first series into go-chart values for
// pie, donut, and bar charts.
func sliceValues(spec *models.ChartSpec) ([]chart.Value, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("chart has no series")
	}
	primary := spec.Series[0]
	if len(primary.Values) != len(spec.Labels) {
		return nil, fmt.Errorf("series %q has %d values for %d labels", primary.Name, len(primary.Values), len(spec.Labels))
	}
	if len(primary.Values) == 0 {
		return nil, fmt.Errorf("chart has no data points")
	}

	values := make([]chart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		values[i] = chart.Value{Label: label, Value: primary.Values[i]}
	}
	return values, nil
}
