// Package models contains domain types for the media mention dashboard.
package models

import "time"

// FileInfo represents metadata about an uploaded CSV file.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"` // "uploaded", "processing", "processed", "error"
}

// IsCSV reports whether the file was declared as comma-separated values.
// The check mirrors the file picker contract: MIME type text/csv, with a
// fallback on the .csv extension for clients that send a generic type.
func (f *FileInfo) IsCSV() bool {
	return IsCSVType(f.Name, f.MimeType)
}
