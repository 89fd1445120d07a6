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

import "fmt"

// Orientation selects the header axis.
type Orientation int

const (
	// Horizontal headers name columns.
	Horizontal Orientation = iota
	// Vertical headers label rows.
	Vertical
)

// CellFlags describe what a view may do with a cell.
type CellFlags uint8

const (
	Selectable CellFlags = 1 << iota
	Editable
)

// Has reports whether all bits of flag are set.
func (f CellFlags) Has(flag CellFlags) bool { return f&flag == flag }

// Adapter exposes a Table through the grid contract consumed by an editable
// grid view. It holds nothing but the table reference; a new Adapter is made
// for every loaded table.
//
// Indices outside the table are programming errors and panic.
type Adapter struct {
	table *Table
}

// NewAdapter wraps t.
func NewAdapter(t *Table) *Adapter {
	if t == nil {
		panic("datatable: NewAdapter called with nil table")
	}
	return &Adapter{table: t}
}

// Table returns the wrapped table.
func (a *Adapter) Table() *Table { return a.table }

// RowCount returns the number of rows.
func (a *Adapter) RowCount() int { return a.table.RowCount() }

// ColumnCount returns the number of columns.
func (a *Adapter) ColumnCount() int { return a.table.ColumnCount() }

// Cell returns the display text of the value at row, col.
func (a *Adapter) Cell(row, col int) string {
	return a.table.Value(row, col).String()
}

// SetCell stores text as the value at row, col and always reports true.
// No coercion happens here: the text is kept verbatim until save. Writing the
// text the cell already shows leaves the original value untouched.
func (a *Adapter) SetCell(row, col int, text string) bool {
	if a.Cell(row, col) == text {
		return true
	}
	a.table.SetValue(row, col, Text(text))
	return true
}

// Header returns the column name for Horizontal or the row label for Vertical.
func (a *Adapter) Header(section int, o Orientation) string {
	switch o {
	case Horizontal:
		name, err := a.table.ColumnName(section)
		if err != nil {
			panic(fmt.Sprintf("datatable: header: %v", err))
		}
		return name
	case Vertical:
		return a.table.RowLabel(section)
	default:
		panic(fmt.Sprintf("datatable: unknown orientation %d", o))
	}
}

// Flags returns the capabilities of the cell at row, col. Every cell is
// selectable and editable.
func (a *Adapter) Flags(row, col int) CellFlags {
	a.table.mustCell(row, col)
	return Selectable | Editable
}

// ColumnText returns the display text of every row in col, in row order.
func (a *Adapter) ColumnText(col int) []string {
	out := make([]string, a.RowCount())
	for r := range out {
		out[r] = a.Cell(r, col)
	}
	return out
}
