package http

import (
	"context"
	"net/http"
	"time"

	"timerelay/internal/core"
	applog "timerelay/internal/log"
	"timerelay/internal/middleware/security"
	"timerelay/internal/middleware/trace"
	"timerelay/internal/records"
	"timerelay/internal/services"
)

// Tracker is the record-keeping side used by the handlers.
type Tracker interface {
	ListClients(ctx context.Context) ([]core.Client, error)
	ListDemands(ctx context.Context) ([]core.Demand, error)
	CreateDemand(ctx context.Context, clientID, name string) (core.Demand, error)
	LogTime(ctx context.Context, demandID string, durationSeconds float64) (records.Record, error)
}

// Reporter exports a client's weekly report.
type Reporter interface {
	Generate(ctx context.Context, clientID, clientName string) (services.ReportResult, error)
}

type Server struct {
	http.Server
	tracker Tracker
	reports Reporter
	logger  *applog.Logger
	tracer  *trace.Middleware
}

// NewServer wires routes and middleware. Requests are not bound by a server
// side timeout; remote calls use the timeouts of their own clients.
func NewServer(addr string, tracker Tracker, reports Reporter, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &Server{
		tracker: tracker,
		reports: reports,
		logger:  logger.WithComponent(applog.ComponentHTTP),
	}
	s.tracer = trace.NewMiddleware(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("GET /api/demands", s.handleListDemands)
	mux.HandleFunc("POST /api/demands", s.handleCreateDemand)
	mux.HandleFunc("POST /api/time-entries", s.handleCreateTimeEntry)
	mux.HandleFunc("POST /api/generate-report", s.handleGenerateReport)

	s.Addr = addr
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = corsMiddleware(headers.Middleware(s.tracer.Middleware(mux)))
	s.ReadHeaderTimeout = 10 * time.Second
	return s
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
	return s.Server.Shutdown(ctx)
}

// Metrics exposes request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
