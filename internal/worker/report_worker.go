package worker

import (
	"context"
	"errors"
	"fmt"

	"timerelay/internal/amqp"
	"timerelay/internal/core"
	applog "timerelay/internal/log"
	"timerelay/internal/services"
)

// ReportGenerator runs one report export.
type ReportGenerator interface {
	Generate(ctx context.Context, clientID, clientName string) (services.ReportResult, error)
}

// ClientLister lists the clients a schedule run fans out to.
type ClientLister interface {
	ListClients(ctx context.Context) ([]core.Client, error)
}

// Publisher enqueues report requests.
type Publisher interface {
	PublishReportRequest(ctx context.Context, clientID, clientName string) error
}

// ReportWorker exports weekly reports requested over AMQP.
type ReportWorker struct {
	reports ReportGenerator
	clients ClientLister
	logger  *applog.Logger
}

func NewReportWorker(reports ReportGenerator, clients ClientLister, logger *applog.Logger) *ReportWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ReportWorker{
		reports: reports,
		clients: clients,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleReportRequest processes a single report request message from AMQP.
// The "nothing to report" outcomes are not failures.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	logger := w.logger.With("message_id", msg.ID, applog.FieldClientID, msg.ClientID)
	logger.InfoContext(ctx, "Processing report request", applog.FieldClientName, msg.ClientName)

	res, err := w.reports.Generate(ctx, msg.ClientID, msg.ClientName)
	if err != nil {
		return fmt.Errorf("generate report for %s: %w", msg.ClientID, err)
	}

	if !res.Written() {
		logger.InfoContext(ctx, "Nothing to report", "message", res.Message)
		return nil
	}
	logger.InfoContext(ctx, "Report exported",
		applog.FieldRows, len(res.Report.Rows),
		applog.FieldSheetURL, res.SheetURL)
	return nil
}

// ScheduleAll publishes one report request per client. Publishing continues
// past individual failures; the joined error is returned.
func (w *ReportWorker) ScheduleAll(ctx context.Context, pub Publisher) (int, error) {
	clients, err := w.clients.ListClients(ctx)
	if err != nil {
		return 0, fmt.Errorf("list clients: %w", err)
	}

	var errs []error
	published := 0
	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		if err := pub.PublishReportRequest(ctx, c.ID, c.Name); err != nil {
			w.logger.WarnContext(ctx, "Failed to publish report request",
				applog.FieldClientID, c.ID,
				applog.FieldError, err)
			errs = append(errs, fmt.Errorf("client %s: %w", c.ID, err))
			continue
		}
		published++
	}

	w.logger.InfoContext(ctx, "Scheduled weekly reports",
		applog.FieldOperation, applog.OpSchedule,
		"clients", len(clients),
		"published", published)
	return published, errors.Join(errs...)
}
