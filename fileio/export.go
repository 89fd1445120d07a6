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

package fileio

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pqedit/datatable"
)

// ExportCSV writes t as CSV with a header row. Nulls are written as empty
// fields. Row labels, when present, form the first column.
func ExportCSV(w io.Writer, t *datatable.Table) error {
	writer := csv.NewWriter(w)
	labels := t.RowLabels() != nil

	// Write header
	headers := make([]string, 0, t.ColumnCount()+1)
	if labels {
		headers = append(headers, "")
	}
	for _, c := range t.Columns() {
		headers = append(headers, c.Name)
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for r := 0; r < t.RowCount(); r++ {
		row := make([]string, 0, len(headers))
		if labels {
			row = append(row, t.RowLabel(r))
		}
		for c := 0; c < t.ColumnCount(); c++ {
			row = append(row, t.Value(r, c).String())
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportJSON writes t as an indented JSON array with one object per row.
// Numbers and booleans keep their JSON types; dates and timestamps are
// written in their canonical text form.
func ExportJSON(w io.Writer, t *datatable.Table) error {
	records := make([]map[string]interface{}, 0, t.RowCount())
	for r := 0; r < t.RowCount(); r++ {
		record := make(map[string]interface{}, t.ColumnCount()+1)
		if t.RowLabels() != nil {
			record[IndexColumnName] = t.RowLabels().Values[r].Raw()
		}
		for c, col := range t.Columns() {
			record[col.Name] = t.Value(r, c).Raw()
		}
		records = append(records, record)
	}

	// Encode to JSON with indentation
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportFile writes t to path in the given format.
func ExportFile(ctx context.Context, path string, format Format, t *datatable.Table, opts Options) error {
	if format == FormatParquet {
		return WriteParquet(ctx, path, t, opts)
	}

	var export func(io.Writer, *datatable.Table) error
	switch format {
	case FormatCSV:
		export = ExportCSV
	case FormatJSON:
		export = ExportJSON
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", format, err)
	}
	if err := export(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
