package http

import (
	"errors"
	"net/http"

	"timerelay/internal/core"
	applog "timerelay/internal/log"
)

type reportResponse struct {
	Message  string `json:"message"`
	SheetURL string `json:"sheetUrl,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("timerelay is running"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.tracker.ListClients(r.Context())
	if err != nil {
		s.fail(w, r, err, applog.OpListClients, msgListClients)
		return
	}
	NewJSONResponse().Body(clients).Write(w)
}

func (s *Server) handleListDemands(w http.ResponseWriter, r *http.Request) {
	demands, err := s.tracker.ListDemands(r.Context())
	if err != nil {
		s.fail(w, r, err, applog.OpListDemands, msgListDemands)
		return
	}
	NewJSONResponse().Body(demands).Write(w)
}

func (s *Server) handleCreateDemand(w http.ResponseWriter, r *http.Request) {
	var req DemandRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, applog.OpCreateDemand, msgCreateDemand)
		return
	}
	req.Normalize()

	demand, err := s.tracker.CreateDemand(r.Context(), req.ClientID, req.DemandName)
	if err != nil {
		s.fail(w, r, err, applog.OpCreateDemand, msgCreateDemand)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(demand).Write(w)
}

func (s *Server) handleCreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req TimeEntryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, applog.OpLogTime, msgCreateTimeEntry)
		return
	}
	if err := req.Normalize(); err != nil {
		s.fail(w, r, err, applog.OpLogTime, msgCreateTimeEntry)
		return
	}

	rec, err := s.tracker.LogTime(r.Context(), req.DemandID, *req.DurationSeconds)
	if err != nil {
		s.fail(w, r, err, applog.OpLogTime, msgCreateTimeEntry)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(rec).Write(w)
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, applog.OpReport, msgGenerateReport)
		return
	}
	req.Normalize()

	res, err := s.reports.Generate(r.Context(), req.ClientID, req.ClientName)
	if err != nil {
		msg := msgGenerateReport
		if errors.Is(err, core.ErrConfiguration) {
			msg = msgSheetsNotEnabled
		}
		s.fail(w, r, err, applog.OpReport, msg)
		return
	}
	NewJSONResponse().Body(reportResponse{Message: res.Message, SheetURL: res.SheetURL}).Write(w)
}

// fail logs err and writes the fixed message. Invalid input is a 400, every
// other failure a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, op, message string) {
	logger := applog.FromContext(r.Context())
	kind := errorType(err)

	if errors.Is(err, core.ErrInvalidInput) {
		logger.WarnContext(r.Context(), "Rejected request",
			applog.FieldOperation, op,
			applog.FieldError, err,
			applog.FieldErrorType, kind)
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}

	logger.ErrorContext(r.Context(), "Request failed",
		applog.FieldOperation, op,
		applog.FieldError, err,
		applog.FieldErrorType, kind)
	InternalServerError(message).Write(w)
}
