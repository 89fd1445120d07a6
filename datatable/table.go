// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"fmt"
	"strconv"
)

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Type   DataType
	Values []Value
}

// Len returns the number of values in the column.
func (c Column) Len() int { return len(c.Values) }

// Table is an ordered set of equally long columns, addressed by 0-based row
// and column ordinals. The column set is fixed once the table is built.
type Table struct {
	columns []Column
	labels  *Column
	rows    int
	meta    Metadata
}

// NewTable builds a table from columns. All columns must have the same length.
func NewTable(columns []Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for _, c := range columns {
		if c.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, c.Name, c.Len(), rows)
		}
	}
	return &Table{
		columns: columns,
		rows:    rows,
		meta:    make(Metadata),
	}, nil
}

// SetRowLabels attaches display labels for rows. Labels are never used for
// addressing.
func (t *Table) SetRowLabels(labels Column) error {
	if labels.Len() != t.rows {
		return fmt.Errorf("%w: row labels have %d rows, want %d", ErrRaggedColumns, labels.Len(), t.rows)
	}
	t.labels = &labels
	return nil
}

// RowLabels returns the label column, or nil when rows are labelled by ordinal.
func (t *Table) RowLabels() *Column { return t.labels }

// RowLabel returns the display label of row.
func (t *Table) RowLabel(row int) string {
	if row < 0 || row >= t.rows {
		panic(fmt.Sprintf("datatable: row %d out of range [0,%d)", row, t.rows))
	}
	if t.labels == nil {
		return strconv.Itoa(row)
	}
	return t.labels.Values[row].String()
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// Columns returns the table's columns. Callers must not resize them.
func (t *Table) Columns() []Column { return t.columns }

// ColumnName returns the name of the column at col.
func (t *Table) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(t.columns) {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return t.columns[col].Name, nil
}

// ColumnType returns the declared type of the column at col.
func (t *Table) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(t.columns) {
		return TypeString, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return t.columns[col].Type, nil
}

// ColumnIndex returns the ordinal of the column called name.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.columns {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Cell returns the value at row, col.
func (t *Table) Cell(row, col int) (Value, error) {
	if row < 0 || row >= t.rows {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if col < 0 || col >= len(t.columns) {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return t.columns[col].Values[row], nil
}

// Row returns a copy of every value in row.
func (t *Table) Row(row int) ([]Value, error) {
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	out := make([]Value, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Values[row]
	}
	return out, nil
}

// Metadata returns metadata recorded by the loader.
func (t *Table) Metadata() Metadata { return t.meta }

// SetMetadata records a metadata entry.
func (t *Table) SetMetadata(key string, value interface{}) {
	t.meta[key] = value
}

// Value returns the value at row, col and panics when out of range.
func (t *Table) Value(row, col int) Value {
	t.mustCell(row, col)
	return t.columns[col].Values[row]
}

// SetValue overwrites the value at row, col in place and panics when out of
// range. The table shape never changes.
func (t *Table) SetValue(row, col int, v Value) {
	t.mustCell(row, col)
	t.columns[col].Values[row] = v
}

func (t *Table) mustCell(row, col int) {
	if row < 0 || row >= t.rows || col < 0 || col >= len(t.columns) {
		panic(fmt.Sprintf("datatable: cell (%d, %d) out of range for %dx%d table", row, col, t.rows, len(t.columns)))
	}
}
