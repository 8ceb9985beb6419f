// Package http provides HTTP server and handler implementations.
//
// This file implements decoding and normalization of JSON request bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"timerelay/internal/core"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// DemandRequest is the body of POST /api/demands.
type DemandRequest struct {
	ClientID   string `json:"clientId"`
	DemandName string `json:"demandName"`
}

// TimeEntryRequest is the body of POST /api/time-entries.
type TimeEntryRequest struct {
	DemandID        string   `json:"demandId"`
	DurationSeconds *float64 `json:"durationSeconds"`
}

// ReportRequest is the body of POST /api/generate-report.
type ReportRequest struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
}

// DecodeJSON reads a single JSON object from the request into dst. Every
// failure wraps core.ErrInvalidInput.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", core.ErrInvalidInput)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", core.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", core.ErrInvalidInput)
	}
	return nil
}

// Normalize trims and sanitizes the text fields.
func (d *DemandRequest) Normalize() {
	d.ClientID = sanitizeInput(d.ClientID)
	d.DemandName = sanitizeInput(d.DemandName)
}

// Normalize trims and sanitizes the text fields and checks the duration is present.
func (t *TimeEntryRequest) Normalize() error {
	t.DemandID = sanitizeInput(t.DemandID)
	if t.DurationSeconds == nil {
		return fmt.Errorf("%w: durationSeconds is required", core.ErrInvalidInput)
	}
	return nil
}

// Normalize trims and sanitizes the text fields.
func (rr *ReportRequest) Normalize() {
	rr.ClientID = sanitizeInput(rr.ClientID)
	rr.ClientName = sanitizeInput(rr.ClientName)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
