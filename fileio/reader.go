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
	"fmt"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"pqedit/datatable"
)

// Metadata keys recorded on loaded tables.
const (
	MetaRowGroups        = "row_groups"
	MetaDroppedRowGroups = "dropped_row_groups"
	MetaSkippedColumns   = "skipped_columns"
)

// ReadParquet loads a whole Parquet file through the arrow reader. It rejects
// files whose schema or metadata it cannot interpret.
func ReadParquet(ctx context.Context, path string, opts Options) (*datatable.Table, error) {
	opts = opts.withDefaults()

	// Create a parquet file reader
	pf, err := file.OpenParquetFile(path, false, file.WithReadProps(parquet.NewReaderProperties(opts.Allocator)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer pf.Close()

	// Convert parquet to Arrow table
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, opts.Allocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	// Read all data into an Arrow table
	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	t, err := FromArrow(table)
	if err != nil {
		return nil, fmt.Errorf("failed to convert parquet data: %w", err)
	}
	t.SetMetadata(MetaRowGroups, pf.NumRowGroups())
	return t, nil
}
