package models

// Panel pairs one chart with the insight bullets generated for it.
// Insights always contain at least one entry; the processor substitutes a
// fallback string when insight generation fails.
type Panel struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Chart    ChartSpec `json:"chart"`
	Insights []string  `json:"insights"`
}

// DashboardDataset is the ordered collection of panels for one processed
// upload. Slice order is display order. A dataset is replaced wholesale on
// reprocessing, never mutated in place.
type DashboardDataset struct {
	FileID      string  `json:"fileId"`
	Panels      []Panel `json:"panels"`
	RecordCount int     `json:"recordCount"`
	GeneratedAt int64   `json:"generatedAt"` // Unix ms
}

// PanelKeys returns the panel keys in display order.
func (d *DashboardDataset) PanelKeys() []string {
	keys := make([]string, 0, len(d.Panels))
	for _, p := range d.Panels {
		keys = append(keys, p.Key)
	}
	return keys
}
