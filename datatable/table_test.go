package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable([]Column{
		{Name: "id", Type: TypeInt, Values: []Value{Int(1), Int(2), Int(3)}},
		{Name: "name", Type: TypeString, Values: []Value{Text("ann"), Text("bob"), Null()}},
		{Name: "score", Type: TypeFloat, Values: []Value{Float(1.5), Float(2), Float(-0.25)}},
	})
	require.NoError(t, err)
	return tbl
}

func TestNewTableRejectsRaggedColumns(t *testing.T) {
	_, err := NewTable([]Column{
		{Name: "a", Type: TypeInt, Values: []Value{Int(1), Int(2)}},
		{Name: "b", Type: TypeInt, Values: []Value{Int(1)}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRaggedColumns)
}

func TestEmptyTable(t *testing.T) {
	tbl, err := NewTable(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, 0, tbl.ColumnCount())
}

func TestTableDataSource(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())

	name, err := tbl.ColumnName(1)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	dt, err := tbl.ColumnType(2)
	require.NoError(t, err)
	assert.Equal(t, TypeFloat, dt)

	v, err := tbl.Cell(2, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(1), Text("ann"), Float(1.5)}, row)

	_, err = tbl.ColumnName(3)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = tbl.Cell(3, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = tbl.Row(-1)
	assert.ErrorIs(t, err, ErrInvalidRow)

	assert.NotNil(t, tbl.Metadata())
}

func TestColumnIndex(t *testing.T) {
	tbl := sampleTable(t)

	i, err := tbl.ColumnIndex("score")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = tbl.ColumnIndex("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestRowLabels(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, "1", tbl.RowLabel(1))

	err := tbl.SetRowLabels(Column{Name: "__index_level_0__", Type: TypeString, Values: []Value{Text("x")}})
	assert.ErrorIs(t, err, ErrRaggedColumns)

	require.NoError(t, tbl.SetRowLabels(Column{
		Name:   "__index_level_0__",
		Type:   TypeString,
		Values: []Value{Text("a"), Text("b"), Text("c")},
	}))
	assert.Equal(t, "c", tbl.RowLabel(2))
	assert.Panics(t, func() { tbl.RowLabel(3) })
}

func TestSetValuePanicsOutOfRange(t *testing.T) {
	tbl := sampleTable(t)
	assert.Panics(t, func() { tbl.SetValue(0, 3, Int(1)) })
	assert.Panics(t, func() { tbl.Value(-1, 0) })
}
