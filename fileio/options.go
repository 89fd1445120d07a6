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

// Package fileio reads and writes pqedit tables as Parquet files and exports
// them to CSV and JSON.
package fileio

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/compress"
)

// DefaultRowGroupSize is the number of rows written per row group.
const DefaultRowGroupSize = 64 * 1024

// Options configures readers and writers.
type Options struct {
	// Allocator backs arrow buffers. Defaults to a Go allocator.
	Allocator memory.Allocator
	// Compression is the codec used when writing.
	Compression compress.Compression
	// RowGroupSize is the maximum number of rows per written row group.
	RowGroupSize int64
	// Parallelism bounds concurrent column reads in the repair reader.
	Parallelism int
	// Logger receives repair diagnostics.
	Logger *slog.Logger
}

// DefaultOptions returns options with snappy compression.
func DefaultOptions() Options {
	return Options{Compression: compress.Codecs.Snappy}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Allocator == nil {
		o.Allocator = memory.NewGoAllocator()
	}
	if o.RowGroupSize <= 0 {
		o.RowGroupSize = DefaultRowGroupSize
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

var codecs = map[string]compress.Compression{
	"none":         compress.Codecs.Uncompressed,
	"uncompressed": compress.Codecs.Uncompressed,
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"brotli":       compress.Codecs.Brotli,
	"zstd":         compress.Codecs.Zstd,
}

// ParseCompression maps a codec name such as "snappy" or "zstd" to a codec.
func ParseCompression(name string) (compress.Compression, error) {
	c, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return compress.Codecs.Uncompressed, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
	return c, nil
}
