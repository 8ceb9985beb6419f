package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: "notion" or "memory"
	DataBackend string
	// Seed file of client names for the memory backend
	MemorySeedFile string

	// Notion
	NotionAPIKey      string
	NotionBaseURL     string
	NotionClientsDBID string
	NotionDemandsDBID string
	NotionTimeLogDBID string
	NotionTimeout     time.Duration

	// Property names
	SchemaClientName   string
	SchemaDemandName   string
	SchemaDemandClient string
	SchemaEntryTask    string
	SchemaEntryDemand  string
	SchemaEntryHours   string
	SchemaEntryDate    string

	// Google Sheets
	GoogleSpreadsheetID       string
	GoogleServiceAccountEmail string
	GooglePrivateKey          string
	GoogleServiceAccountJSON  string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ReportInterval time.Duration

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		DataBackend:    getEnv("DATA_BACKEND", "notion"),
		MemorySeedFile: getEnv("MEMORY_SEED_FILE", "./data/seed_clients.txt"),

		NotionAPIKey:      getEnv("NOTION_API_KEY", ""),
		NotionBaseURL:     getEnv("NOTION_BASE_URL", "https://api.notion.com"),
		NotionClientsDBID: getEnv("NOTION_CLIENTS_DB_ID", ""),
		NotionDemandsDBID: getEnv("NOTION_DEMANDS_DB_ID", ""),
		NotionTimeLogDBID: getEnv("NOTION_TIMELOG_DB_ID", ""),
		NotionTimeout:     getEnvDuration("NOTION_TIMEOUT", 30*time.Second),

		SchemaClientName:   getEnv("SCHEMA_CLIENT_NAME", ""),
		SchemaDemandName:   getEnv("SCHEMA_DEMAND_NAME", ""),
		SchemaDemandClient: getEnv("SCHEMA_DEMAND_CLIENT", ""),
		SchemaEntryTask:    getEnv("SCHEMA_ENTRY_TASK", ""),
		SchemaEntryDemand:  getEnv("SCHEMA_ENTRY_DEMAND", ""),
		SchemaEntryHours:   getEnv("SCHEMA_ENTRY_HOURS", ""),
		SchemaEntryDate:    getEnv("SCHEMA_ENTRY_DATE", ""),

		GoogleSpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		GooglePrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
		GoogleServiceAccountJSON:  getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "timerelay"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),

		ReportInterval: getEnvDuration("REPORT_INTERVAL", 7*24*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// Missing spreadsheet settings are not an error: they only disable reports.
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"notion", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Notion configuration if backend is notion
	if c.DataBackend == "notion" {
		if c.NotionAPIKey == "" {
			errors = append(errors, "NOTION_API_KEY is required when using notion backend")
		}
		if c.NotionClientsDBID == "" {
			errors = append(errors, "NOTION_CLIENTS_DB_ID is required when using notion backend")
		}
		if c.NotionDemandsDBID == "" {
			errors = append(errors, "NOTION_DEMANDS_DB_ID is required when using notion backend")
		}
		if c.NotionTimeLogDBID == "" {
			errors = append(errors, "NOTION_TIMELOG_DB_ID is required when using notion backend")
		}
		if parsedURL, err := url.Parse(c.NotionBaseURL); err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid Notion base URL '%s'", c.NotionBaseURL))
		}
	}

	// Half-configured service account credentials are a mistake, not an opt-out
	if (c.GoogleServiceAccountEmail == "") != (c.GooglePrivateKey == "") {
		errors = append(errors, "GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY must be set together")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReportInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid report interval %v: must be at least 1 minute", c.ReportInterval))
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
