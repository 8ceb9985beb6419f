package backend

import (
	"context"
	"fmt"

	applog "timerelay/internal/log"
	"timerelay/internal/records/memory"
	"timerelay/internal/records/notion"
	gsheet "timerelay/internal/sheets/google"
	sheetmem "timerelay/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Collections: config.Collections,
		Schema:      config.Schema.WithDefaults(),
		Cleanup:     func() error { return nil },
	}

	switch config.Type {
	case NotionBackend:
		client, err := notion.New(config.Notion)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Notion client: %w", err)
		}
		res.Store = client
		f.logger.Info("Using Notion record store", "base_url", config.Notion.BaseURL)
	case MemoryBackend:
		res.Store = memory.NewFromFile(config.MemorySeedFile, res.Collections.Clients, res.Schema.ClientName)
		f.logger.Info("Using in-memory record store", "seed_file", config.MemorySeedFile)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	switch {
	case config.Sheets.Configured():
		client, err := gsheet.New(ctx, config.Sheets)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		res.Sheets = client
		f.logger.Info("Google Sheets export enabled", "spreadsheet_id", config.Sheets.SpreadsheetID)
	case config.Type == MemoryBackend:
		res.Sheets = sheetmem.New("local")
		f.logger.Info("Using in-memory spreadsheet")
	default:
		f.logger.Warn("Spreadsheet credentials missing, report generation disabled")
	}

	return res, nil
}
