package backend

import (
	"context"

	"timerelay/internal/records"
	"timerelay/internal/records/notion"
	"timerelay/internal/services"
	"timerelay/internal/sheets"
	gsheet "timerelay/internal/sheets/google"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result holds the adapters built for one process. Sheets is nil when the
// spreadsheet integration is not configured.
type Result struct {
	Store       records.Store
	Sheets      sheets.Writer
	Collections services.Collections
	Schema      services.Schema
	Cleanup     CleanupFunc
}

// Tracker builds the record-keeping service over the result's store.
func (r *Result) Tracker() *services.Tracker {
	return services.NewTracker(r.Store, r.Collections, r.Schema)
}

// Reports builds the report service. It is unconfigured when Sheets is nil.
func (r *Result) Reports() *services.ReportService {
	return services.NewReportService(r.Store, r.Sheets, r.Collections, r.Schema)
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	Notion      notion.Config
	Collections services.Collections
	Schema      services.Schema

	Sheets gsheet.Config

	// Memory backend specific
	MemorySeedFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	NotionBackend BackendType = "notion"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case NotionBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
