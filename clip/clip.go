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

// Package clip copies grid cells and columns to a clipboard as plain text.
package clip

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"pqedit/datatable"
)

// Writer places plain text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System is the operating system clipboard.
type System struct{}

func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Func adapts a plain function to Writer.
type Func func(text string) error

func (f Func) WriteAll(text string) error { return f(text) }

// CopyCell places the text of one cell on w and returns it.
func CopyCell(w Writer, a *datatable.Adapter, row, col int) (string, error) {
	text := a.Cell(row, col)
	if err := w.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy cell: %w", err)
	}
	return text, nil
}

// CopyColumn places the newline-joined text of every cell in col on w, in row
// order, without header or row labels. It returns the copied text.
func CopyColumn(w Writer, a *datatable.Adapter, col int) (string, error) {
	text := strings.Join(a.ColumnText(col), "\n")
	if err := w.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy column: %w", err)
	}
	return text, nil
}
