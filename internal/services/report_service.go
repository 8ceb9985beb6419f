package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"timerelay/internal/core"
	applog "timerelay/internal/log"
	"timerelay/internal/records"
	"timerelay/internal/sheets"
)

// ReportResult describes the outcome of a report run. SheetURL is empty when
// nothing was written.
type ReportResult struct {
	Message  string
	SheetURL string
	Report   core.Report
}

// Written reports whether the run exported a table.
func (r ReportResult) Written() bool {
	return r.SheetURL != ""
}

// ReportService aggregates a client's trailing-week hours and exports them to
// a sheet named after the client.
type ReportService struct {
	store  records.Store
	sheets sheets.Writer
	cols   Collections
	schema Schema
	now    func() time.Time
}

// NewReportService builds the report flow. A nil writer means the spreadsheet
// integration is not configured; Generate then fails with core.ErrConfiguration.
func NewReportService(store records.Store, writer sheets.Writer, cols Collections, schema Schema) *ReportService {
	return &ReportService{
		store:  store,
		sheets: writer,
		cols:   cols,
		schema: schema.WithDefaults(),
		now:    time.Now,
	}
}

// Configured reports whether a spreadsheet writer is available.
func (s *ReportService) Configured() bool {
	return s.sheets != nil
}

// Generate builds the report for a client and writes it to the sheet named
// clientName. The two "nothing to report" outcomes are successful results
// without a SheetURL.
func (s *ReportService) Generate(ctx context.Context, clientID, clientName string) (ReportResult, error) {
	if s.sheets == nil {
		return ReportResult{}, fmt.Errorf("%w: spreadsheet credentials missing", core.ErrConfiguration)
	}
	clientID = strings.TrimSpace(clientID)
	clientName = strings.TrimSpace(clientName)
	if clientID == "" {
		return ReportResult{}, fmt.Errorf("%w: %w: clientId", core.ErrInvalidInput, core.ErrEmptyReference)
	}
	if clientName == "" {
		return ReportResult{}, fmt.Errorf("%w: %w: clientName", core.ErrInvalidInput, core.ErrEmptyName)
	}

	report, msg, err := s.Aggregate(ctx, clientID, clientName)
	if err != nil {
		return ReportResult{}, err
	}
	if report.Empty() {
		return ReportResult{Message: msg}, nil
	}

	created, err := sheets.EnsureSheet(ctx, s.sheets, clientName)
	if err != nil {
		return ReportResult{}, fmt.Errorf("ensure sheet %q: %w", clientName, err)
	}
	if err := sheets.WriteTable(ctx, s.sheets, clientName, report.Table()); err != nil {
		return ReportResult{}, fmt.Errorf("write report for %q: %w", clientName, err)
	}

	slog.InfoContext(ctx, "Report written",
		applog.FieldClientID, clientID,
		applog.FieldSheet, clientName,
		"sheet_created", created,
		applog.FieldRows, len(report.Rows))

	return ReportResult{
		Message:  fmt.Sprintf("Relatório gerado com sucesso para %s.", clientName),
		SheetURL: s.sheets.URL(),
		Report:   report,
	}, nil
}

// Aggregate computes the trailing-week totals of a client without touching
// the spreadsheet. When there is nothing to report it returns an empty
// report and the message explaining why.
func (s *ReportService) Aggregate(ctx context.Context, clientID, clientName string) (core.Report, string, error) {
	demands, err := s.store.Query(ctx, s.cols.Demands,
		records.RelationContains{Property: s.schema.DemandClient, ID: clientID})
	if err != nil {
		return core.Report{}, "", fmt.Errorf("query demands of client %s: %w", clientID, err)
	}
	if len(demands) == 0 {
		return core.Report{}, fmt.Sprintf("Nenhuma demanda encontrada para o cliente %s.", clientName), nil
	}

	names := make(map[string]string, len(demands))
	ids := make([]string, 0, len(demands))
	for _, d := range demands {
		name := d.Title(s.schema.DemandName)
		if strings.TrimSpace(name) == "" {
			name = core.DefaultDemandName
		}
		names[d.ID] = name
		ids = append(ids, d.ID)
	}

	from, _ := core.ReportWindow(s.now())
	filter := records.And{
		records.DateOnOrAfter{Property: s.schema.EntryDate, Date: from},
		records.AnyRelation(s.schema.EntryDemand, ids),
	}
	recs, err := s.store.Query(ctx, s.cols.TimeLog, filter)
	if err != nil {
		return core.Report{}, "", fmt.Errorf("query time entries of client %s: %w", clientID, err)
	}
	if len(recs) == 0 {
		return core.Report{}, fmt.Sprintf("Nenhum registro de tempo na última semana para o cliente %s.", clientName), nil
	}

	entries := make([]core.TimeEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, toTimeEntry(r, s.schema))
	}
	report, err := core.Aggregate(entries, names)
	if err != nil {
		return core.Report{}, "", fmt.Errorf("aggregate client %s: %w", clientID, err)
	}
	return report, "", nil
}
