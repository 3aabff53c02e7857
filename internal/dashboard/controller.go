// Package dashboard owns the dashboard state machine.
//
// The controller is the single writer of DashboardState. Every user action
// funnels through it, and every transition is made under one mutex, so the
// render layer and websocket pushers only ever observe consistent snapshots.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/media-dashboard/backend/internal/models"
)

// User-visible messages set on the dashboard state.
const (
	MsgInvalidCSV    = "Please upload a valid CSV file."
	MsgNoFile        = "No CSV file selected."
	MsgProcessFailed = "Failed to process CSV. Please try again."
	MsgExportFailed  = "Failed to export dashboard. Please try again."
)

// ErrNotReady is returned when export is requested outside the Ready state.
var ErrNotReady = errors.New("dashboard is not ready for export")

// ErrExporterUnavailable is returned when the export renderer is not
// configured. It is diagnostic only: the dashboard state is left untouched
// and no user-visible error is set.
var ErrExporterUnavailable = errors.New("export renderer unavailable")

// Processor builds a dataset from a validated upload.
type Processor interface {
	Process(ctx context.Context, file *models.FileInfo) (*models.DashboardDataset, error)
}

// Exporter renders a dataset into a downloadable document.
type Exporter interface {
	// Available reports whether the rendering backend is usable. An
	// unavailable exporter is an explicit variant, not a probed global.
	Available() bool
	// Export produces the document bytes and its fixed filename.
	Export(ctx context.Context, dataset *models.DashboardDataset) ([]byte, string, error)
}

// Controller drives one dashboard through its lifecycle:
// idle -> file_selected -> processing -> ready | error, ready -> exporting -> ready.
type Controller struct {
	mu        sync.RWMutex
	state     *models.DashboardState
	processor Processor
	exporter  Exporter

	processTimeout time.Duration
	exportTimeout  time.Duration

	// generation identifies the processing run the current state belongs
	// to. Selecting a new file bumps it, so an in-flight run for the old
	// file can never commit a stale dataset.
	generation string

	listeners  map[int]chan models.DashboardState
	nextListen int
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeouts sets the processing and export deadlines.
func WithTimeouts(process, export time.Duration) Option {
	return func(c *Controller) {
		if process > 0 {
			c.processTimeout = process
		}
		if export > 0 {
			c.exportTimeout = export
		}
	}
}

// NewController creates a controller in the idle state. exporter may be an
// unavailable variant; it must not be nil-checked anywhere else.
func NewController(processor Processor, exporter Exporter, opts ...Option) *Controller {
	c := &Controller{
		state:          models.NewDashboardState(),
		processor:      processor,
		exporter:       exporter,
		processTimeout: 2 * time.Minute,
		exportTimeout:  time.Minute,
		listeners:      make(map[int]chan models.DashboardState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current dashboard state.
func (c *Controller) State() models.DashboardState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.state
}

// Dataset returns the current dataset, if any.
func (c *Controller) Dataset() (*models.DashboardDataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Dataset == nil {
		return nil, false
	}
	return c.state.Dataset, true
}

// SelectFile handles the "file chosen" event. A non-CSV file clears the
// selection and moves to the error state; a CSV file becomes the current
// selection and clears any previous error. Selecting a file invalidates any
// processing run still in flight.
func (c *Controller) SelectFile(file *models.FileInfo) models.DashboardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation = ""

	if file == nil || !file.IsCSV() {
		c.state.File = nil
		c.state.Status = models.StatusError
		c.state.ErrorMessage = MsgInvalidCSV
		return c.notifyLocked()
	}

	c.state.File = file
	c.state.Status = models.StatusFileSelected
	c.state.ErrorMessage = ""
	return c.notifyLocked()
}

// RequestProcess handles the "process requested" event. With no file
// selected it moves to the error state; otherwise it enters processing and
// runs the dataset build in the background. Progress is observed via State
// or Subscribe. The run outlives the triggering request: it is anchored to
// the controller's own timeout, not a caller context.
func (c *Controller) RequestProcess() models.DashboardState {
	c.mu.Lock()

	if c.state.File == nil {
		c.state.Status = models.StatusError
		c.state.ErrorMessage = MsgNoFile
		snapshot := c.notifyLocked()
		c.mu.Unlock()
		return snapshot
	}

	file := c.state.File
	gen := uuid.New().String()
	c.generation = gen
	c.state.Status = models.StatusProcessing
	c.state.Dataset = nil
	c.state.ErrorMessage = ""
	snapshot := c.notifyLocked()
	c.mu.Unlock()

	go c.runProcess(gen, file)

	return snapshot
}

func (c *Controller) runProcess(gen string, file *models.FileInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), c.processTimeout)
	defer cancel()

	dataset, err := c.processor.Process(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		// A newer selection or run superseded this one.
		fmt.Printf("[Dashboard] discarding stale processing result for %s\n", file.ID)
		return
	}

	if err != nil {
		fmt.Printf("[Dashboard] processing failed for %s: %v\n", file.ID, err)
		c.state.Status = models.StatusError
		c.state.ErrorMessage = MsgProcessFailed
		c.notifyLocked()
		return
	}

	c.state.Status = models.StatusReady
	c.state.Dataset = dataset
	c.state.ErrorMessage = ""
	c.notifyLocked()
}

// RequestExport handles the "export requested" event. It is only valid in
// the Ready state. An unavailable exporter is logged and leaves the state
// untouched. A runtime export failure returns the dashboard to Ready with a
// visible error message.
func (c *Controller) RequestExport(ctx context.Context) ([]byte, string, error) {
	c.mu.Lock()
	if c.state.Status != models.StatusReady {
		c.mu.Unlock()
		return nil, "", ErrNotReady
	}
	if c.exporter == nil || !c.exporter.Available() {
		c.mu.Unlock()
		fmt.Println("[Dashboard] export requested but renderer is unavailable")
		return nil, "", ErrExporterUnavailable
	}
	dataset := c.state.Dataset
	gen := c.generation
	c.state.Status = models.StatusExporting
	c.notifyLocked()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.exportTimeout)
	defer cancel()

	doc, filename, err := c.exporter.Export(ctx, dataset)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		// A new selection superseded this export; leave its state alone.
		if err != nil {
			fmt.Printf("[Dashboard] export failed after reselect: %v\n", err)
			return nil, "", err
		}
		return doc, filename, nil
	}

	if c.state.Status == models.StatusExporting {
		c.state.Status = models.StatusReady
	}
	if err != nil {
		fmt.Printf("[Dashboard] export failed: %v\n", err)
		c.state.ErrorMessage = MsgExportFailed
		c.notifyLocked()
		return nil, "", err
	}
	c.state.ErrorMessage = ""
	c.notifyLocked()
	return doc, filename, nil
}

// Subscribe registers a listener for state snapshots. Sends never block; a
// slow listener misses intermediate states, not the final one it reads next.
func (c *Controller) Subscribe() (int, <-chan models.DashboardState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextListen++
	id := c.nextListen
	ch := make(chan models.DashboardState, 8)
	c.listeners[id] = ch
	return id, ch
}

// Unsubscribe removes a listener.
func (c *Controller) Unsubscribe(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.listeners[id]; ok {
		close(ch)
		delete(c.listeners, id)
	}
}

// notifyLocked snapshots the state and fans it out. Callers must hold mu.
func (c *Controller) notifyLocked() models.DashboardState {
	snapshot := *c.state
	for _, ch := range c.listeners {
		select {
		case ch <- snapshot:
		default:
		}
	}
	return snapshot
}
