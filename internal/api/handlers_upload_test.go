// handlers_upload_test.go - Tests for upload handlers
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/testutil"
)

func multipartBody(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadHandler_HandleUploadFile(t *testing.T) {
	tests := []struct {
		name       string
		fieldName  string
		filename   string
		wantStatus int
		errCode    string
	}{
		{
			name:       "valid csv upload",
			fieldName:  "file",
			filename:   "mentions.csv",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "uppercase extension accepted",
			fieldName:  "file",
			filename:   "MENTIONS.CSV",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "non-csv rejected",
			fieldName:  "file",
			filename:   "report.pdf",
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "missing file field",
			fieldName:  "attachment",
			filename:   "mentions.csv",
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			handler := NewUploadHandler(store, 20, 0)

			e := echo.New()
			body, contentType := multipartBody(t, tt.fieldName, tt.filename, "Date,Platform\n2024-03-01,Twitter\n")
			req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleUploadFile(c)

			if tt.errCode != "" {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected code %s, got %s", tt.errCode, apiErr.Code)
				}
				if store.GetFileCount() != 0 {
					t.Error("rejected upload must not be stored")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var info models.FileInfo
			if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if info.Name != tt.filename {
				t.Errorf("expected name %q, got %q", tt.filename, info.Name)
			}
			if store.GetFileCount() != 1 {
				t.Error("expected file to be stored")
			}
		})
	}
}

func TestUploadHandler_SizeLimit(t *testing.T) {
	store := testutil.NewMockStorage()
	handler := NewUploadHandler(store, 20, 64)
	e := echo.New()

	t.Run("oversized upload rejected", func(t *testing.T) {
		content := "Date,Platform\n" + strings.Repeat("2024-03-01,Twitter\n", 20)
		body, contentType := multipartBody(t, "file", "big.csv", content)
		req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.HandleUploadFile(c)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", apiErr.Status)
		}
		if store.GetFileCount() != 0 {
			t.Error("oversized upload must not be stored")
		}
	})

	t.Run("upload within limit accepted", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "small.csv", "Date\n2024-03-01\n")
		req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.HandleUploadFile(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d", rec.Code)
		}
	})
}

func TestUploadHandler_FileLifecycle(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddFile("file-1", "mentions.csv", []byte("Date\n2024-03-01\n"))
	handler := NewUploadHandler(store, 20, 0)
	e := echo.New()

	t.Run("get existing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("file-1")

		if err := handler.HandleGetFile(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		err := handler.HandleGetFile(c)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			t.Fatalf("expected 404 APIError, got %v", err)
		}
	})

	t.Run("list recent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.HandleGetRecentFiles(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var files []*models.FileInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &files); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(files) != 1 {
			t.Errorf("expected 1 file, got %d", len(files))
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("file-1")

		if err := handler.HandleDeleteFile(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if store.GetFileCount() != 0 {
			t.Error("expected file removed")
		}
	})
}
