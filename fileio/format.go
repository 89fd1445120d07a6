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
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents the type of data file
type Format int

const (
	FormatUnknown Format = iota
	FormatParquet
	FormatCSV
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// DetectFormat determines the type of file based on its extension
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "parquet", "pq":
		return FormatParquet, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}
