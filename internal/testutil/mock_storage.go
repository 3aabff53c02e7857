// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/media-dashboard/backend/internal/models"
)

// MockStorage implements storage.Store for testing. File payloads are kept
// in memory and spilled to a temp dir lazily so GetFilePath returns a real,
// readable path.
type MockStorage struct {
	mu       sync.RWMutex
	files    map[string]*models.FileInfo
	fileData map[string][]byte
	tempDir  string
	nextID   int

	// FailGetFilePath forces GetFilePath errors to exercise failure paths.
	FailGetFilePath bool
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files:    make(map[string]*models.FileInfo),
		fileData: make(map[string][]byte),
	}
}

// AddFile seeds a file with a fixed id.
func (m *MockStorage) AddFile(id, name string, data []byte) *models.FileInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		MimeType:   "text/csv",
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}
	m.files[id] = info
	m.fileData[id] = data
	return info
}

func (m *MockStorage) Save(name, mimeType string, r io.Reader) (*models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return m.SaveBytes(name, mimeType, data)
}

func (m *MockStorage) SaveBytes(name, mimeType string, data []byte) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("mock-file-%d", m.nextID)
	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		MimeType:   mimeType,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}
	m.files[id] = info
	m.fileData[id] = append([]byte(nil), data...)
	return info, nil
}

func (m *MockStorage) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[id]
	if !ok {
		return nil, errors.New("file not found")
	}
	return info, nil
}

func (m *MockStorage) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var files []*models.FileInfo
	for _, info := range m.files {
		files = append(files, info)
		if limit > 0 && len(files) >= limit {
			break
		}
	}
	return files, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return errors.New("file not found")
	}
	delete(m.files, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockStorage) GetFilePath(id string) (string, error) {
	if m.FailGetFilePath {
		return "", errors.New("storage unavailable")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.fileData[id]
	if !ok {
		return "", errors.New("file not found")
	}

	if m.tempDir == "" {
		dir, err := os.MkdirTemp("", "mock-storage")
		if err != nil {
			return "", err
		}
		m.tempDir = dir
	}

	path := filepath.Join(m.tempDir, id)
	if _, err := os.Stat(path); err != nil {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", err
		}
	}
	return path, nil
}

func (m *MockStorage) SetStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.files[id]
	if !ok {
		return errors.New("file not found")
	}
	info.Status = status
	return nil
}

// GetFileCount returns how many files are stored.
func (m *MockStorage) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// GetFileData returns the raw payload of a stored file.
func (m *MockStorage) GetFileData(id string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.fileData[id]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}
