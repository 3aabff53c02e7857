package models

// ChartType identifies the visual form of a chart panel.
type ChartType string

const (
	ChartTypePie   ChartType = "pie"
	ChartTypeDonut ChartType = "donut"
	ChartTypeLine  ChartType = "line"
	ChartTypeBar   ChartType = "bar"
)

// Series is one named sequence of values within a chart.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Values []float64 `json:"values"`
}

// ChartLayout carries the layout options recognized by the render layer.
type ChartLayout struct {
	Responsive     bool   `json:"responsive"`
	DisplayModeBar bool   `json:"displayModeBar"`
	ShowLegend     bool   `json:"showLegend,omitempty"`
	XAxisTitle     string `json:"xAxisTitle,omitempty"`
	YAxisTitle     string `json:"yAxisTitle,omitempty"`
}

// ChartSpec is a renderer-facing description of one visualization.
// Specs are immutable once produced by an aggregator.
type ChartSpec struct {
	Type   ChartType   `json:"type"`
	Title  string      `json:"title"`
	Labels []string    `json:"labels"`
	Series []Series    `json:"series"`
	Layout ChartLayout `json:"layout"`
}

// DefaultChartLayout returns the layout applied to every dashboard panel.
func DefaultChartLayout() ChartLayout {
	return ChartLayout{
		Responsive:     true,
		DisplayModeBar: false,
	}
}
