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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"pqedit/datatable"
)

// WriteParquet writes t to path. Edited cells are coerced back to their
// column types first; a column whose edits no longer fit its type is written
// as strings. The file is written to a temporary sibling and renamed into
// place, so a failed write leaves any existing file untouched. An existing
// file's permissions are kept.
func WriteParquet(ctx context.Context, path string, t *datatable.Table, opts Options) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = opts.withDefaults()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	table := toArrow(t, opts.Allocator)
	defer table.Release()

	// Create Parquet writer properties
	props := parquet.NewWriterProperties(
		parquet.WithCompression(opts.Compression),
		parquet.WithAllocator(opts.Allocator),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), f, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, opts.RowGroupSize); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	// the writer closes the sink on success
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	// a replaced file keeps its permissions
	if info, err := os.Stat(path); err == nil {
		if err := os.Chmod(f.Name(), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to set file mode: %w", err)
		}
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
