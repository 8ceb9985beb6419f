// Package memory is an in-process sheets.Writer for local development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"timerelay/internal/core"
	"timerelay/internal/sheets"
)

var _ sheets.Writer = (*Book)(nil)

type Book struct {
	mu      sync.Mutex
	id      string
	sheets  map[string][][]any
	failErr error
	calls   []string
}

func New(spreadsheetID string) *Book {
	return &Book{id: spreadsheetID, sheets: map[string][][]any{}}
}

// FailWrites makes subsequent WriteValues calls fail with err. A nil err
// restores normal behaviour.
func (b *Book) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

// Values returns a copy of the rows stored in sheet name.
func (b *Book) Values(name string) [][]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]any(nil), b.sheets[name]...)
}

// Calls returns the operations performed so far, in order.
func (b *Book) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Book) SheetNames(_ context.Context) (map[string]struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "names")
	out := make(map[string]struct{}, len(b.sheets))
	for name := range b.sheets {
		out[name] = struct{}{}
	}
	return out, nil
}

func (b *Book) AddSheet(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "add:"+name)
	if _, ok := b.sheets[name]; ok {
		return fmt.Errorf("%w: sheet %q already exists", core.ErrSpreadsheet, name)
	}
	b.sheets[name] = nil
	return nil
}

func (b *Book) ClearRange(_ context.Context, rangeName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "clear:"+rangeName)
	name, err := b.resolve(rangeName)
	if err != nil {
		return err
	}
	b.sheets[name] = nil
	return nil
}

func (b *Book) WriteValues(_ context.Context, rangeName string, rows [][]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "write:"+rangeName)
	if b.failErr != nil {
		return fmt.Errorf("%w: %v", core.ErrSpreadsheet, b.failErr)
	}
	name, err := b.resolve(rangeName)
	if err != nil {
		return err
	}
	cp := make([][]any, len(rows))
	for i, r := range rows {
		cp[i] = append([]any(nil), r...)
	}
	b.sheets[name] = cp
	return nil
}

func (b *Book) URL() string {
	return "memory://spreadsheets/" + b.id
}

// resolve extracts the sheet title from an A1 range such as 'Acme'!A1.
func (b *Book) resolve(rangeName string) (string, error) {
	name := rangeName
	if strings.HasPrefix(name, "'") {
		// Quoted titles may contain '!' themselves.
		if i := strings.LastIndex(name, "'!"); i > 0 {
			name = name[:i+1]
		}
		if len(name) >= 2 && strings.HasSuffix(name, "'") {
			name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
		}
	} else if i := strings.LastIndex(name, "!"); i >= 0 {
		name = name[:i]
	}
	if _, ok := b.sheets[name]; !ok {
		return "", fmt.Errorf("%w: unable to parse range %s", core.ErrSpreadsheet, rangeName)
	}
	return name, nil
}
