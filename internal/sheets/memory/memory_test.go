package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timerelay/internal/core"
	"timerelay/internal/sheets"
)

func TestBookAddClearWrite(t *testing.T) {
	b := New("book")
	ctx := context.Background()

	require.NoError(t, b.AddSheet(ctx, "O'Brien"))
	assert.ErrorIs(t, b.AddSheet(ctx, "O'Brien"), core.ErrSpreadsheet)

	require.NoError(t, b.WriteValues(ctx, "'O''Brien'!A1", [][]any{{"a", 1}}))
	assert.Equal(t, [][]any{{"a", 1}}, b.Values("O'Brien"))

	require.NoError(t, b.ClearRange(ctx, "'O''Brien'"))
	assert.Empty(t, b.Values("O'Brien"))

	names, err := b.SheetNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "O'Brien")
	assert.Equal(t, []string{"add:O'Brien", "add:O'Brien", "write:'O''Brien'!A1", "clear:'O''Brien'", "names"}, b.Calls())
}

func TestBookUnknownSheet(t *testing.T) {
	b := New("book")
	assert.ErrorIs(t, b.ClearRange(context.Background(), "Missing"), core.ErrSpreadsheet)
	assert.Equal(t, "memory://spreadsheets/book", b.URL())
}

func TestBookSheetNameWithBang(t *testing.T) {
	b := New("book")
	ctx := context.Background()

	created, err := sheets.EnsureSheet(ctx, b, "Yahoo!")
	require.NoError(t, err)
	assert.True(t, created)

	rows := [][]any{{"Demanda", "Horas"}, {"Design", 1.5}}
	require.NoError(t, sheets.WriteTable(ctx, b, "Yahoo!", rows))
	assert.Equal(t, rows, b.Values("Yahoo!"))

	require.NoError(t, b.ClearRange(ctx, "'Yahoo!'"))
	assert.Empty(t, b.Values("Yahoo!"))
}
