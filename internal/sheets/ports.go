package sheets

import (
	"context"
	"fmt"
	"strings"
)

// Writer is the outbound port to the hosted spreadsheet. Every call targets
// the single spreadsheet the adapter was configured with.
type Writer interface {
	// SheetNames returns the titles of every sheet in the spreadsheet.
	SheetNames(ctx context.Context) (map[string]struct{}, error)
	// AddSheet creates a sheet. It fails if the title is already taken.
	AddSheet(ctx context.Context, name string) error
	ClearRange(ctx context.Context, rangeName string) error
	// WriteValues writes rows starting at the top-left cell of rangeName.
	WriteValues(ctx context.Context, rangeName string, rows [][]any) error
	// URL is a browser link to the spreadsheet.
	URL() string
}

// EnsureSheet creates the sheet named name unless it already exists.
func EnsureSheet(ctx context.Context, w Writer, name string) (created bool, err error) {
	names, err := w.SheetNames(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := names[name]; ok {
		return false, nil
	}
	if err := w.AddSheet(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

// WriteTable replaces the contents of sheet name with rows.
//
// The clear and the write are separate calls: if the write fails the sheet
// is left empty.
func WriteTable(ctx context.Context, w Writer, name string, rows [][]any) error {
	if err := w.ClearRange(ctx, QuoteSheet(name)); err != nil {
		return err
	}
	return w.WriteValues(ctx, fmt.Sprintf("%s!A1", QuoteSheet(name)), rows)
}

// QuoteSheet returns name in A1 notation, quoted so spaces and punctuation
// in client names are accepted.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
