package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterDimensions(t *testing.T) {
	a := NewAdapter(sampleTable(t))
	assert.Equal(t, 3, a.RowCount())
	assert.Equal(t, 3, a.ColumnCount())
}

func TestAdapterCellText(t *testing.T) {
	a := NewAdapter(sampleTable(t))
	assert.Equal(t, "2", a.Cell(1, 0))
	assert.Equal(t, "bob", a.Cell(1, 1))
	assert.Equal(t, "", a.Cell(2, 1))
	assert.Equal(t, "2.0", a.Cell(1, 2))
}

func TestAdapterTextRoundTrip(t *testing.T) {
	tbl := sampleTable(t)
	a := NewAdapter(tbl)

	for r := 0; r < a.RowCount(); r++ {
		for c := 0; c < a.ColumnCount(); c++ {
			before := a.Cell(r, c)
			require.True(t, a.SetCell(r, c, before))
			assert.Equal(t, before, a.Cell(r, c), "cell (%d, %d)", r, c)
		}
	}

	// Rewriting unchanged text keeps the typed value.
	v := tbl.Value(0, 0)
	assert.Equal(t, KindInt, v.Kind())
}

func TestAdapterSetCellStoresRawText(t *testing.T) {
	tbl := sampleTable(t)
	a := NewAdapter(tbl)

	assert.True(t, a.SetCell(0, 0, "not a number"))
	assert.Equal(t, "not a number", a.Cell(0, 0))
	assert.Equal(t, KindText, tbl.Value(0, 0).Kind())
	assert.Equal(t, 3, a.RowCount())
	assert.Equal(t, 3, a.ColumnCount())
}

func TestAdapterHeaders(t *testing.T) {
	tbl := sampleTable(t)
	a := NewAdapter(tbl)

	assert.Equal(t, "id", a.Header(0, Horizontal))
	assert.Equal(t, "score", a.Header(2, Horizontal))
	assert.Equal(t, "0", a.Header(0, Vertical))
	assert.Equal(t, "2", a.Header(2, Vertical))

	require.NoError(t, tbl.SetRowLabels(Column{
		Name:   "__index_level_0__",
		Type:   TypeString,
		Values: []Value{Text("r1"), Text("r2"), Text("r3")},
	}))
	assert.Equal(t, "r2", a.Header(1, Vertical))
}

func TestAdapterFlags(t *testing.T) {
	a := NewAdapter(sampleTable(t))
	f := a.Flags(1, 1)
	assert.True(t, f.Has(Selectable))
	assert.True(t, f.Has(Editable))
	assert.True(t, f.Has(Selectable|Editable))
}

func TestAdapterFailsFast(t *testing.T) {
	a := NewAdapter(sampleTable(t))

	assert.Panics(t, func() { a.Cell(3, 0) })
	assert.Panics(t, func() { a.Cell(0, -1) })
	assert.Panics(t, func() { a.SetCell(0, 3, "x") })
	assert.Panics(t, func() { a.Header(3, Horizontal) })
	assert.Panics(t, func() { a.Header(5, Vertical) })
	assert.Panics(t, func() { a.Flags(9, 9) })
	assert.Panics(t, func() { NewAdapter(nil) })
}

func TestAdapterColumnText(t *testing.T) {
	a := NewAdapter(sampleTable(t))
	assert.Equal(t, []string{"ann", "bob", ""}, a.ColumnText(1))
}
