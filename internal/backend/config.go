package backend

import (
	"fmt"

	"timerelay/internal/config"
	"timerelay/internal/records/notion"
	"timerelay/internal/services"
	gsheet "timerelay/internal/sheets/google"
)

// Collection ids used by the memory backend.
var memoryCollections = services.Collections{
	Clients: "clients",
	Demands: "demands",
	TimeLog: "timelog",
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	cfg := Config{
		Type: backendType,
		Schema: services.Schema{
			ClientName:   appConfig.SchemaClientName,
			DemandName:   appConfig.SchemaDemandName,
			DemandClient: appConfig.SchemaDemandClient,
			EntryTask:    appConfig.SchemaEntryTask,
			EntryDemand:  appConfig.SchemaEntryDemand,
			EntryHours:   appConfig.SchemaEntryHours,
			EntryDate:    appConfig.SchemaEntryDate,
		}.WithDefaults(),
		Sheets: gsheet.Config{
			SpreadsheetID:       appConfig.GoogleSpreadsheetID,
			ServiceAccountEmail: appConfig.GoogleServiceAccountEmail,
			PrivateKey:          appConfig.GooglePrivateKey,
			ServiceAccountJSON:  appConfig.GoogleServiceAccountJSON,
		},
		MemorySeedFile: appConfig.MemorySeedFile,
	}

	switch backendType {
	case NotionBackend:
		cfg.Notion = notion.Config{
			APIKey:  appConfig.NotionAPIKey,
			BaseURL: appConfig.NotionBaseURL,
			Timeout: appConfig.NotionTimeout,
		}
		cfg.Collections = services.Collections{
			Clients: appConfig.NotionClientsDBID,
			Demands: appConfig.NotionDemandsDBID,
			TimeLog: appConfig.NotionTimeLogDBID,
		}
	case MemoryBackend:
		cfg.Collections = memoryCollections
	}

	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	if c.Type == NotionBackend {
		if c.Notion.APIKey == "" {
			return fmt.Errorf("Notion API key is required for notion backend")
		}
		if c.Collections.Clients == "" || c.Collections.Demands == "" || c.Collections.TimeLog == "" {
			return fmt.Errorf("all three Notion database ids are required for notion backend")
		}
	}

	return nil
}
