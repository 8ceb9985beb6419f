package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	DefaultClientName = "Sem nome"
	DefaultDemandName = "Sem nome"
	UnknownDemandName = "Demanda desconhecida"

	// ReportWindowDays is the length of the trailing window a report covers.
	ReportWindowDays = 7

	hoursPrecision = 10000
)

type (
	Client struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Demand is a task owned by at most one client. ClientID is nil for
	// demands that were never linked.
	Demand struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		ClientID *string `json:"clientId"`
	}

	TimeEntry struct {
		ID            string
		TaskLabel     string
		DemandID      *string
		DurationHours float64
		Date          time.Time
	}
)

var (
	ErrRemoteQuery    = errors.New("remote query failed")
	ErrRemoteWrite    = errors.New("remote write failed")
	ErrSpreadsheet    = errors.New("spreadsheet operation failed")
	ErrConfiguration  = errors.New("integration not configured")
	ErrDataIntegrity  = errors.New("data integrity violation")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyReference = errors.New("empty reference")
	ErrNegativeAmount = errors.New("negative duration")
)

// NewClient builds a Client, falling back to DefaultClientName for blank names.
func NewClient(id, name string) Client {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultClientName
	}
	return Client{ID: id, Name: name}
}

// NewDemand builds a Demand. An empty clientID yields an unlinked demand.
func NewDemand(id, name, clientID string) Demand {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultDemandName
	}
	d := Demand{ID: id, Name: name}
	if clientID != "" {
		d.ClientID = &clientID
	}
	return d
}

// SecondsToHours converts a duration in seconds to hours rounded to 4 decimal places.
func SecondsToHours(seconds float64) float64 {
	return RoundHours(seconds / 3600)
}

// RoundHours rounds h to 4 decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*hoursPrecision) / hoursPrecision
}

// ReportWindow returns the inclusive [from, to] range a report covers when run at now.
func ReportWindow(now time.Time) (from, to time.Time) {
	return now.AddDate(0, 0, -ReportWindowDays), now
}

// TaskLabel builds the title stored on a time entry logged at t.
func TaskLabel(t time.Time) string {
	return "Registro de tempo - " + t.Format("02/01/2006")
}

// ValidateDuration rejects negative or non-finite durations.
func ValidateDuration(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ErrInvalidInput
	}
	if seconds < 0 {
		return ErrNegativeAmount
	}
	return nil
}
