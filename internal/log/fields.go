package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldOperation     = "operation"
	FieldClientID      = "client_id"
	FieldClientName    = "client_name"
	FieldDemandID      = "demand_id"
	FieldEntryID       = "entry_id"
	FieldDurationSecs  = "duration_seconds"
	FieldHours         = "hours"
	FieldRows          = "rows"
	FieldSheet         = "sheet"
	FieldSheetURL      = "sheet_url"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReport  = "report"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
	ComponentCLI     = "ctl"
)

// Operations defines standard operation names
const (
	OpListClients  = "list_clients"
	OpListDemands  = "list_demands"
	OpCreateDemand = "create_demand"
	OpLogTime      = "log_time"
	OpReport       = "report"
	OpSchedule     = "schedule"
	OpShutdown     = "shutdown"
	OpStartup      = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeRemoteQuery   = "remote_query_error"
	ErrorTypeRemoteWrite   = "remote_write_error"
	ErrorTypeSpreadsheet   = "spreadsheet_error"
	ErrorTypeDataIntegrity = "data_integrity_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error and error type fields
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithReport adds the fields describing a report run
func (f LogFields) WithReport(clientID, clientName string, rows int) LogFields {
	f[FieldClientID] = clientID
	f[FieldClientName] = clientName
	f[FieldRows] = rows
	return f
}

// Set adds an arbitrary field
func (f LogFields) Set(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
