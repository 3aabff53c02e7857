package models

// DashboardStatus is the controller's lifecycle state.
type DashboardStatus string

const (
	StatusIdle         DashboardStatus = "idle"
	StatusFileSelected DashboardStatus = "file_selected"
	StatusProcessing   DashboardStatus = "processing"
	StatusReady        DashboardStatus = "ready"
	StatusExporting    DashboardStatus = "exporting"
	StatusError        DashboardStatus = "error"
)

// DashboardState is the process-wide UI state owned by the controller.
// It is created empty at session start and reset only by a new session;
// all mutation goes through the controller.
type DashboardState struct {
	File         *FileInfo         `json:"file,omitempty"`
	Dataset      *DashboardDataset `json:"dataset,omitempty"`
	Status       DashboardStatus   `json:"status"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// NewDashboardState returns the initial idle state.
func NewDashboardState() *DashboardState {
	return &DashboardState{Status: StatusIdle}
}
