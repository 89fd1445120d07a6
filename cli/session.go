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

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pqedit/datatable"
	"pqedit/session"
)

// openSession builds a session from the command configuration and opens path.
// A repaired load is reported on stderr.
func openSession(cmd *cobra.Command, path string) (*session.Session, session.LoadResult, error) {
	ctx := cmd.Context()
	logger := GetLogger(ctx)

	fileOpts, err := GetConfig(ctx).FileOptions(logger)
	if err != nil {
		return nil, session.LoadResult{}, err
	}

	s := session.New(session.WithLogger(logger), session.WithFileOptions(fileOpts))
	res, err := s.Open(ctx, path)
	if err != nil {
		return nil, res, err
	}
	if res.Repaired {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s was repaired: %v\n", path, res.PrimaryErr.Err)
	}
	return s, res, nil
}

// resolveColumn accepts a 0-based column index or a column name.
func resolveColumn(t *datatable.Table, arg string) (int, error) {
	if idx, err := strconv.Atoi(arg); err == nil {
		if idx < 0 || idx >= t.ColumnCount() {
			return 0, fmt.Errorf("%w: %d", datatable.ErrInvalidColumn, idx)
		}
		return idx, nil
	}
	return t.ColumnIndex(arg)
}

// resolveRow parses a 0-based row index.
func resolveRow(t *datatable.Table, arg string) (int, error) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= t.RowCount() {
		return 0, fmt.Errorf("%w: %s", datatable.ErrInvalidRow, arg)
	}
	return idx, nil
}
