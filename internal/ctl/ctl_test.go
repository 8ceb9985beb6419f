package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timerelay/internal/backend"
	"timerelay/internal/core"
	"timerelay/internal/records"
	recmem "timerelay/internal/records/memory"
	"timerelay/internal/services"
	sheetmem "timerelay/internal/sheets/memory"
	"timerelay/internal/worker"
)

var cols = services.Collections{Clients: "clients", Demands: "demands", TimeLog: "timelog"}

type recordingPublisher struct{ ids []string }

func (p *recordingPublisher) PublishReportRequest(_ context.Context, clientID, _ string) error {
	p.ids = append(p.ids, clientID)
	return nil
}

func seeded(t *testing.T) (*recmem.Store, *sheetmem.Book, Env) {
	t.Helper()
	store := recmem.New()
	store.Insert("clients", records.Fields{"Nome": records.TitleValue("Globex")})
	acme := store.Insert("clients", records.Fields{"Nome": records.TitleValue("Acme")})
	d := store.Insert("demands", records.Fields{
		"Nome":    records.TitleValue("Design, phase 1"),
		"Cliente": records.Relation(acme.ID),
	})
	store.Insert("timelog", records.Fields{
		"Demanda": records.Relation(d.ID),
		"Horas":   records.NumberValue(0.75),
		"Data":    records.DateValue(time.Now()),
	})

	book := sheetmem.New("ctl")
	env := Env{
		Backend: func(context.Context) (*backend.Result, error) {
			return &backend.Result{
				Store:       store,
				Sheets:      book,
				Collections: cols,
				Schema:      services.DefaultSchema(),
				Cleanup:     func() error { return nil },
			}, nil
		},
	}
	return store, book, env
}

func run(t *testing.T, env Env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(env)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClientsCommand(t *testing.T) {
	store, _, env := seeded(t)

	out, err := run(t, env, "clients", "--format", "json")
	require.NoError(t, err)
	var clients []core.Client
	require.NoError(t, json.Unmarshal([]byte(out), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0].Name)

	out, err = run(t, env, "clients")
	require.NoError(t, err)
	assert.Contains(t, out, "\tGlobex\n")
	assert.Equal(t, 2, store.Len("clients"))

	_, err = run(t, env, "clients", "--format", "xml")
	assert.Error(t, err)
}

func TestReportDryRun(t *testing.T) {
	store, book, env := seeded(t)
	clients, err := services.NewTracker(store, cols, services.DefaultSchema()).ListClients(context.Background())
	require.NoError(t, err)

	out, err := run(t, env, "report", "--client-id", clients[0].ID, "--client-name", "Acme", "--dry-run", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "demand,hours\n\"Design, phase 1\",0.75\n", out)
	assert.Empty(t, book.Calls())
}

func TestReportWrites(t *testing.T) {
	store, book, env := seeded(t)
	clients, err := services.NewTracker(store, cols, services.DefaultSchema()).ListClients(context.Background())
	require.NoError(t, err)

	out, err := run(t, env, "report", "--client-id", clients[0].ID, "--client-name", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Relatório gerado com sucesso para Acme.")
	assert.Contains(t, out, "memory://spreadsheets/ctl")
	assert.Equal(t, [][]any{{"Demand", "Hours"}, {"Design, phase 1", 0.75}}, book.Values("Acme"))
}

func TestReportRequiresFlags(t *testing.T) {
	_, _, env := seeded(t)
	_, err := run(t, env, "report", "--client-name", "Acme")
	assert.Error(t, err)
}

func TestScheduleCommand(t *testing.T) {
	_, _, env := seeded(t)

	_, err := run(t, env, "schedule")
	assert.ErrorIs(t, err, errNoPublisher)

	pub := &recordingPublisher{}
	env.Publisher = func(context.Context) (worker.Publisher, func() error, error) {
		return pub, func() error { return nil }, nil
	}
	out, err := run(t, env, "schedule")
	require.NoError(t, err)
	assert.Equal(t, "queued 2 report request(s)\n", out)
	assert.Len(t, pub.ids, 2)
}

func TestBackendErrorSurfaces(t *testing.T) {
	env := Env{Backend: func(context.Context) (*backend.Result, error) {
		return nil, errors.New("no credentials")
	}}
	_, err := run(t, env, "clients")
	assert.EqualError(t, err, "no credentials")
}

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvEscape(tt.input))
	}
}
