package core

import "fmt"

// ReportHeader is the first row of every exported table.
var ReportHeader = []any{"Demand", "Hours"}

type (
	ReportRow struct {
		DemandName string
		TotalHours float64
	}

	Report struct {
		Rows []ReportRow
	}
)

// Aggregate groups entries by the name of the demand they point to and sums
// their hours. Groups keep the order in which their name was first seen.
//
// An entry without a demand relation fails the whole aggregation with
// ErrDataIntegrity. A relation to a demand missing from demandNames is
// reported under UnknownDemandName.
func Aggregate(entries []TimeEntry, demandNames map[string]string) (Report, error) {
	totals := map[string]float64{}
	order := make([]string, 0)
	for _, e := range entries {
		if e.DemandID == nil || *e.DemandID == "" {
			return Report{}, fmt.Errorf("%w: time entry %s has no demand relation", ErrDataIntegrity, e.ID)
		}
		name, ok := demandNames[*e.DemandID]
		if !ok {
			name = UnknownDemandName
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += e.DurationHours
	}
	rows := make([]ReportRow, 0, len(order))
	for _, name := range order {
		rows = append(rows, ReportRow{DemandName: name, TotalHours: RoundHours(totals[name])})
	}
	return Report{Rows: rows}, nil
}

// Table renders the report as a header row followed by one row per demand.
func (r Report) Table() [][]any {
	out := make([][]any, 0, len(r.Rows)+1)
	out = append(out, ReportHeader)
	for _, row := range r.Rows {
		out = append(out, []any{row.DemandName, row.TotalHours})
	}
	return out
}

// Empty reports whether the report has no rows.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}
