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
)

// Tracker reads and writes clients, demands and time entries in the record store.
type Tracker struct {
	store  records.Store
	cols   Collections
	schema Schema
	now    func() time.Time
}

func NewTracker(store records.Store, cols Collections, schema Schema) *Tracker {
	return &Tracker{
		store:  store,
		cols:   cols,
		schema: schema.WithDefaults(),
		now:    time.Now,
	}
}

// ListClients returns every client sorted by name.
func (t *Tracker) ListClients(ctx context.Context) ([]core.Client, error) {
	recs, err := t.store.Query(ctx, t.cols.Clients, nil, records.Sort{Property: t.schema.ClientName})
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]core.Client, 0, len(recs))
	for _, r := range recs {
		out = append(out, core.NewClient(r.ID, r.Title(t.schema.ClientName)))
	}
	return out, nil
}

// ListDemands returns every demand sorted by name.
func (t *Tracker) ListDemands(ctx context.Context) ([]core.Demand, error) {
	recs, err := t.store.Query(ctx, t.cols.Demands, nil, records.Sort{Property: t.schema.DemandName})
	if err != nil {
		return nil, fmt.Errorf("list demands: %w", err)
	}
	out := make([]core.Demand, 0, len(recs))
	for _, r := range recs {
		out = append(out, t.toDemand(r))
	}
	return out, nil
}

// CreateDemand creates a demand linked to clientID. The client is not
// looked up first.
func (t *Tracker) CreateDemand(ctx context.Context, clientID, name string) (core.Demand, error) {
	clientID = strings.TrimSpace(clientID)
	name = strings.TrimSpace(name)
	if clientID == "" {
		return core.Demand{}, fmt.Errorf("%w: %w: clientId", core.ErrInvalidInput, core.ErrEmptyReference)
	}
	if name == "" {
		return core.Demand{}, fmt.Errorf("%w: %w: demandName", core.ErrInvalidInput, core.ErrEmptyName)
	}

	rec, err := t.store.Create(ctx, t.cols.Demands, records.Fields{
		t.schema.DemandName:   records.TitleValue(name),
		t.schema.DemandClient: records.Relation(clientID),
	})
	if err != nil {
		return core.Demand{}, fmt.Errorf("create demand: %w", err)
	}
	slog.InfoContext(ctx, "Demand created", applog.FieldDemandID, rec.ID, applog.FieldClientID, clientID)
	return core.NewDemand(rec.ID, name, clientID), nil
}

// LogTime stores a time entry of durationSeconds against demandID, dated now.
// The created record is returned as the store produced it.
func (t *Tracker) LogTime(ctx context.Context, demandID string, durationSeconds float64) (records.Record, error) {
	demandID = strings.TrimSpace(demandID)
	if demandID == "" {
		return records.Record{}, fmt.Errorf("%w: %w: demandId", core.ErrInvalidInput, core.ErrEmptyReference)
	}
	if err := core.ValidateDuration(durationSeconds); err != nil {
		return records.Record{}, fmt.Errorf("%w: durationSeconds: %w", core.ErrInvalidInput, err)
	}

	now := t.now()
	hours := core.SecondsToHours(durationSeconds)
	rec, err := t.store.Create(ctx, t.cols.TimeLog, records.Fields{
		t.schema.EntryTask:   records.TitleValue(core.TaskLabel(now)),
		t.schema.EntryDemand: records.Relation(demandID),
		t.schema.EntryHours:  records.NumberValue(hours),
		t.schema.EntryDate:   records.DateValue(now),
	})
	if err != nil {
		return records.Record{}, fmt.Errorf("create time entry: %w", err)
	}
	slog.InfoContext(ctx, "Time entry created",
		applog.FieldEntryID, rec.ID,
		applog.FieldDemandID, demandID,
		applog.FieldDurationSecs, durationSeconds,
		applog.FieldHours, hours)
	return rec, nil
}

func (t *Tracker) toDemand(r records.Record) core.Demand {
	return core.NewDemand(r.ID, r.Title(t.schema.DemandName), r.FirstRelation(t.schema.DemandClient))
}

func toTimeEntry(r records.Record, s Schema) core.TimeEntry {
	e := core.TimeEntry{ID: r.ID, TaskLabel: r.Title(s.EntryTask)}
	if id := r.FirstRelation(s.EntryDemand); id != "" {
		e.DemandID = &id
	}
	e.DurationHours, _ = r.Number(s.EntryHours)
	e.Date, _ = r.Date(s.EntryDate)
	return e
}
