package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timerelay/internal/core"
	"timerelay/internal/records"
	recmem "timerelay/internal/records/memory"
	"timerelay/internal/services"
	sheetmem "timerelay/internal/sheets/memory"
)

var testCols = services.Collections{Clients: "clients", Demands: "demands", TimeLog: "log"}

type downStore struct{}

func (downStore) Query(context.Context, string, records.Filter, ...records.Sort) ([]records.Record, error) {
	return nil, fmt.Errorf("%w: connection refused", core.ErrRemoteQuery)
}

func (downStore) Create(context.Context, string, records.Fields) (records.Record, error) {
	return records.Record{}, fmt.Errorf("%w: status 502", core.ErrRemoteWrite)
}

type fixture struct {
	store *recmem.Store
	book  *sheetmem.Book
	srv   *Server
}

func newFixture(t *testing.T, withSheets bool) fixture {
	t.Helper()
	store := recmem.New()
	book := sheetmem.New("book-1")
	schema := services.DefaultSchema()

	var reports *services.ReportService
	if withSheets {
		reports = services.NewReportService(store, book, testCols, schema)
	} else {
		reports = services.NewReportService(store, nil, testCols, schema)
	}
	srv := NewServer(":0", services.NewTracker(store, testCols, schema), reports, nil)
	return fixture{store: store, book: book, srv: srv}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestIndexAndHealth(t *testing.T) {
	f := newFixture(t, true)

	rr := do(t, f.srv.Handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "timerelay is running", rr.Body.String())

	rr = do(t, f.srv.Handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])

	rr = do(t, f.srv.Handler, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORS(t *testing.T) {
	f := newFixture(t, true)

	rr := do(t, f.srv.Handler, http.MethodOptions, "/api/demands", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")

	rr = do(t, f.srv.Handler, http.MethodGet, "/api/clients", "")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestListEndpointsEmpty(t *testing.T) {
	f := newFixture(t, true)
	for _, path := range []string{"/api/clients", "/api/demands"} {
		rr := do(t, f.srv.Handler, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, "[]", rr.Body.String(), path)
	}
}

func TestListClientsSorted(t *testing.T) {
	f := newFixture(t, true)
	f.store.Insert("clients", records.Fields{"Nome": records.TitleValue("Globex")})
	acme := f.store.Insert("clients", records.Fields{"Nome": records.TitleValue("Acme")})

	rr := do(t, f.srv.Handler, http.MethodGet, "/api/clients", "")
	require.Equal(t, http.StatusOK, rr.Code)
	clients := decode[[]core.Client](t, rr)
	require.Len(t, clients, 2)
	assert.Equal(t, core.Client{ID: acme.ID, Name: "Acme"}, clients[0])
	assert.Equal(t, "Globex", clients[1].Name)
}

func TestCreateDemandThenList(t *testing.T) {
	f := newFixture(t, true)

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/demands", `{"clientId":"C1","demandName":"Design"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]any](t, rr)
	assert.Equal(t, "Design", created["name"])
	assert.Equal(t, "C1", created["clientId"])
	assert.NotEmpty(t, created["id"])

	rr = do(t, f.srv.Handler, http.MethodGet, "/api/demands", "")
	require.Equal(t, http.StatusOK, rr.Code)
	listed := decode[[]map[string]any](t, rr)
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])
}

func TestCreateDemandInvalid(t *testing.T) {
	f := newFixture(t, true)
	for _, body := range []string{
		`{"clientId":"C1","demandName":"  "}`,
		`{"demandName":"Design"}`,
		`{not json`,
		`{"clientId":"C1","demandName":"x"} {"extra":true}`,
	} {
		rr := do(t, f.srv.Handler, http.MethodPost, "/api/demands", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, msgInvalidRequest, decode[ErrorBody](t, rr).Error)
	}
	assert.Zero(t, f.store.Len("demands"))
}

func TestCreateTimeEntry(t *testing.T) {
	f := newFixture(t, true)

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/time-entries", `{"demandId":"D1","durationSeconds":5400}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var body struct {
		ID         string         `json:"id"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, 1.5, body.Properties["Horas"])
	assert.Equal(t, []any{"D1"}, body.Properties["Demanda"])
	assert.True(t, strings.HasPrefix(body.Properties["Tarefa"].(string), "Registro de tempo - "))
	assert.Equal(t, 1, f.store.Len("log"))
}

func TestCreateTimeEntryInvalid(t *testing.T) {
	f := newFixture(t, true)
	for _, body := range []string{
		`{"demandId":"D1"}`,
		`{"demandId":"D1","durationSeconds":-1}`,
		`{"durationSeconds":60}`,
		`{"demandId":"D1","durationSeconds":"60"}`,
		``,
	} {
		rr := do(t, f.srv.Handler, http.MethodPost, "/api/time-entries", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
	assert.Zero(t, f.store.Len("log"))
}

func TestGenerateReportWritesSheet(t *testing.T) {
	f := newFixture(t, true)
	d := f.store.Insert("demands", records.Fields{
		"Nome":    records.TitleValue("Design"),
		"Cliente": records.Relation("C1"),
	})
	f.store.Insert("log", records.Fields{
		"Demanda": records.Relation(d.ID),
		"Horas":   records.NumberValue(2),
		"Data":    records.DateValue(time.Now().Add(-time.Hour)),
	})

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/generate-report", `{"clientId":"C1","clientName":"Acme"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode[map[string]string](t, rr)
	assert.Equal(t, "Relatório gerado com sucesso para Acme.", body["message"])
	assert.Equal(t, "memory://spreadsheets/book-1", body["sheetUrl"])
	assert.Equal(t, [][]any{{"Demand", "Hours"}, {"Design", 2.0}}, f.book.Values("Acme"))
}

func TestGenerateReportNoData(t *testing.T) {
	f := newFixture(t, true)

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/generate-report", `{"clientId":"C9","clientName":"Acme"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "Nenhuma demanda encontrada para o cliente Acme.", body["message"])
	assert.NotContains(t, body, "sheetUrl")
	assert.Empty(t, f.book.Calls())
}

func TestGenerateReportNotConfigured(t *testing.T) {
	f := newFixture(t, false)

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/generate-report", `{"clientId":"C1","clientName":"Acme"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, msgSheetsNotEnabled, decode[ErrorBody](t, rr).Error)
}

func TestGenerateReportSheetFailure(t *testing.T) {
	f := newFixture(t, true)
	d := f.store.Insert("demands", records.Fields{
		"Nome":    records.TitleValue("Design"),
		"Cliente": records.Relation("C1"),
	})
	f.store.Insert("log", records.Fields{
		"Demanda": records.Relation(d.ID),
		"Horas":   records.NumberValue(1),
		"Data":    records.DateValue(time.Now()),
	})
	f.book.FailWrites(fmt.Errorf("%w: quota exceeded", core.ErrSpreadsheet))

	rr := do(t, f.srv.Handler, http.MethodPost, "/api/generate-report", `{"clientId":"C1","clientName":"Acme"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	msg := decode[ErrorBody](t, rr).Error
	assert.Equal(t, msgGenerateReport, msg)
	assert.NotContains(t, msg, "quota")
}

func TestRemoteFailuresAre500(t *testing.T) {
	schema := services.DefaultSchema()
	srv := NewServer(":0",
		services.NewTracker(downStore{}, testCols, schema),
		services.NewReportService(downStore{}, sheetmem.New("b"), testCols, schema),
		nil)

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodGet, "/api/clients", "", msgListClients},
		{http.MethodGet, "/api/demands", "", msgListDemands},
		{http.MethodPost, "/api/demands", `{"clientId":"C1","demandName":"Design"}`, msgCreateDemand},
		{http.MethodPost, "/api/time-entries", `{"demandId":"D1","durationSeconds":60}`, msgCreateTimeEntry},
		{http.MethodPost, "/api/generate-report", `{"clientId":"C1","clientName":"Acme"}`, msgGenerateReport},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rr := do(t, srv.Handler, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, tc.want, decode[ErrorBody](t, rr).Error)
		})
	}
	assert.Equal(t, int64(len(cases)), srv.Metrics().FailedRequests)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "remote_query_error", errorType(fmt.Errorf("x: %w", core.ErrRemoteQuery)))
	assert.Equal(t, "data_integrity_error", errorType(core.ErrDataIntegrity))
	assert.Equal(t, "internal_error", errorType(errors.New("other")))
}

func TestSecurityHeaders(t *testing.T) {
	f := newFixture(t, true)
	rr := do(t, f.srv.Handler, http.MethodGet, "/api/clients", "")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}
