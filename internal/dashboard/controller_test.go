package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/media-dashboard/backend/internal/models"
)

type fakeProcessor struct {
	delay   time.Duration
	err     error
	dataset *models.DashboardDataset
	calls   int
}

func (f *fakeProcessor) Process(ctx context.Context, file *models.FileInfo) (*models.DashboardDataset, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.dataset != nil {
		return f.dataset, nil
	}
	return &models.DashboardDataset{FileID: file.ID, Panels: []models.Panel{{Key: "sentiment"}}}, nil
}

type fakeExporter struct {
	available bool
	delay     time.Duration
	err       error
	doc       []byte
	filename  string
}

func (f *fakeExporter) Available() bool { return f.available }

func (f *fakeExporter) Export(ctx context.Context, dataset *models.DashboardDataset) ([]byte, string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
	if f.err != nil {
		return nil, "", f.err
	}
	return f.doc, f.filename, nil
}

func csvFile() *models.FileInfo {
	return &models.FileInfo{ID: "f1", Name: "report.csv", MimeType: "text/csv"}
}

func waitForStatus(t *testing.T, c *Controller, want models.DashboardStatus) models.DashboardState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state := c.State()
		if state.Status == want {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %s, current: %s", want, c.State().Status)
	return models.DashboardState{}
}

func TestController_SelectFile(t *testing.T) {
	t.Run("non-CSV file rejected with message", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{})

		state := c.SelectFile(&models.FileInfo{Name: "report.pdf", MimeType: "application/pdf"})

		if state.Status != models.StatusError {
			t.Errorf("expected error status, got %s", state.Status)
		}
		if state.ErrorMessage != MsgInvalidCSV {
			t.Errorf("expected %q, got %q", MsgInvalidCSV, state.ErrorMessage)
		}
		if state.File != nil {
			t.Error("expected file to be cleared")
		}
	})

	t.Run("valid CSV from error state clears error", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{})
		c.SelectFile(&models.FileInfo{Name: "x.png", MimeType: "image/png"})

		state := c.SelectFile(csvFile())

		if state.Status != models.StatusFileSelected {
			t.Errorf("expected file_selected, got %s", state.Status)
		}
		if state.ErrorMessage != "" {
			t.Errorf("expected error cleared, got %q", state.ErrorMessage)
		}
		if state.File == nil || state.File.ID != "f1" {
			t.Error("expected file to be stored")
		}
	})

	t.Run("csv extension with generic mime accepted", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{})
		state := c.SelectFile(&models.FileInfo{Name: "report.csv", MimeType: "application/octet-stream"})
		if state.Status != models.StatusFileSelected {
			t.Errorf("expected file_selected, got %s", state.Status)
		}
	})
}

func TestController_RequestProcess(t *testing.T) {
	t.Run("no file selected", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{})

		state := c.RequestProcess()

		if state.Status != models.StatusError {
			t.Errorf("expected error status, got %s", state.Status)
		}
		if state.ErrorMessage != MsgNoFile {
			t.Errorf("expected %q, got %q", MsgNoFile, state.ErrorMessage)
		}
	})

	t.Run("success reaches ready with dataset", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{})
		c.SelectFile(csvFile())

		state := c.RequestProcess()
		if state.Status != models.StatusProcessing {
			t.Errorf("expected processing, got %s", state.Status)
		}
		if state.Dataset != nil {
			t.Error("expected dataset cleared while processing")
		}

		final := waitForStatus(t, c, models.StatusReady)
		if final.Dataset == nil {
			t.Fatal("expected dataset on ready state")
		}
		if final.ErrorMessage != "" {
			t.Errorf("expected no error, got %q", final.ErrorMessage)
		}
	})

	t.Run("processor failure reaches error state", func(t *testing.T) {
		c := NewController(&fakeProcessor{err: errors.New("boom")}, &fakeExporter{})
		c.SelectFile(csvFile())
		c.RequestProcess()

		final := waitForStatus(t, c, models.StatusError)
		if final.ErrorMessage != MsgProcessFailed {
			t.Errorf("expected %q, got %q", MsgProcessFailed, final.ErrorMessage)
		}
		if final.Dataset != nil {
			t.Error("expected no dataset after failure")
		}
	})

	t.Run("new selection discards in-flight result", func(t *testing.T) {
		proc := &fakeProcessor{delay: 50 * time.Millisecond}
		c := NewController(proc, &fakeExporter{})
		c.SelectFile(csvFile())
		c.RequestProcess()

		// Select a new file while the first run is still in flight.
		c.SelectFile(&models.FileInfo{ID: "f2", Name: "other.csv", MimeType: "text/csv"})

		time.Sleep(150 * time.Millisecond)
		state := c.State()
		if state.Status != models.StatusFileSelected {
			t.Errorf("expected file_selected after reselect, got %s", state.Status)
		}
		if state.Dataset != nil {
			t.Error("stale dataset committed after reselect")
		}
	})
}

func TestController_RequestExport(t *testing.T) {
	ready := func(exp Exporter) *Controller {
		c := NewController(&fakeProcessor{}, exp)
		c.SelectFile(csvFile())
		c.RequestProcess()
		waitForStatus(t, c, models.StatusReady)
		return c
	}

	t.Run("not ready", func(t *testing.T) {
		c := NewController(&fakeProcessor{}, &fakeExporter{available: true})
		if _, _, err := c.RequestExport(context.Background()); !errors.Is(err, ErrNotReady) {
			t.Errorf("expected ErrNotReady, got %v", err)
		}
	})

	t.Run("unavailable exporter leaves state untouched", func(t *testing.T) {
		c := ready(&fakeExporter{available: false})

		_, _, err := c.RequestExport(context.Background())
		if !errors.Is(err, ErrExporterUnavailable) {
			t.Errorf("expected ErrExporterUnavailable, got %v", err)
		}
		state := c.State()
		if state.Status != models.StatusReady {
			t.Errorf("expected ready, got %s", state.Status)
		}
		if state.ErrorMessage != "" {
			t.Errorf("expected no user-visible error, got %q", state.ErrorMessage)
		}
	})

	t.Run("runtime failure returns to ready with message", func(t *testing.T) {
		c := ready(&fakeExporter{available: true, err: errors.New("capture failed")})

		_, _, err := c.RequestExport(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		state := c.State()
		if state.Status != models.StatusReady {
			t.Errorf("expected ready, got %s", state.Status)
		}
		if state.ErrorMessage != MsgExportFailed {
			t.Errorf("expected %q, got %q", MsgExportFailed, state.ErrorMessage)
		}
	})

	t.Run("reselect during export leaves new state untouched", func(t *testing.T) {
		exp := &fakeExporter{available: true, delay: 60 * time.Millisecond, err: errors.New("render crashed")}
		c := ready(exp)

		done := make(chan error, 1)
		go func() {
			_, _, err := c.RequestExport(context.Background())
			done <- err
		}()
		waitForStatus(t, c, models.StatusExporting)

		// A new selection supersedes the export before it finishes.
		c.SelectFile(&models.FileInfo{ID: "f2", Name: "other.csv", MimeType: "text/csv"})

		if err := <-done; err == nil {
			t.Fatal("expected export error")
		}
		state := c.State()
		if state.Status != models.StatusFileSelected {
			t.Errorf("expected file_selected, got %s", state.Status)
		}
		if state.ErrorMessage != "" {
			t.Errorf("export failure leaked onto the new selection: %q", state.ErrorMessage)
		}
	})

	t.Run("success delivers document", func(t *testing.T) {
		c := ready(&fakeExporter{available: true, doc: []byte("%PDF"), filename: "media-mention-report.pdf"})

		doc, filename, err := c.RequestExport(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(doc) != "%PDF" {
			t.Error("unexpected document bytes")
		}
		if filename != "media-mention-report.pdf" {
			t.Errorf("unexpected filename %q", filename)
		}
		state := c.State()
		if state.Status != models.StatusReady {
			t.Errorf("expected ready after export, got %s", state.Status)
		}
	})
}

func TestController_Subscribe(t *testing.T) {
	c := NewController(&fakeProcessor{}, &fakeExporter{})
	id, ch := c.Subscribe()
	defer c.Unsubscribe(id)

	c.SelectFile(csvFile())

	select {
	case state := <-ch:
		if state.Status != models.StatusFileSelected {
			t.Errorf("expected file_selected notification, got %s", state.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}
