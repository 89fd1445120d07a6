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

// Package session owns the table currently open in pqedit together with its
// file path, and implements open with repair fallback, save and save-as.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pqedit/datatable"
	"pqedit/fileio"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// LoadResult describes a successful Open.
type LoadResult struct {
	Table *datatable.Table
	Path  string
	// Repaired is set when the primary reader failed and the table was
	// recovered by the repair reader.
	Repaired bool
	// PrimaryErr is the primary read failure when Repaired is set.
	PrimaryErr *LoadError
}

// Session holds at most one table and the path it was loaded from or last
// saved to. Methods must be called from a single goroutine.
type Session struct {
	table   *datatable.Table
	adapter *datatable.Adapter
	path    string

	logger   *slog.Logger
	fileOpts fileio.Options
	primary  ReadFunc
	repair   ReadFunc
	write    WriteFunc
	prompt   PromptFunc
}

// New returns an empty session. Without options it reads and writes Parquet
// files through the fileio package.
func New(opts ...Option) *Session {
	s := &Session{fileOpts: fileio.DefaultOptions()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.fileOpts.Logger == nil {
		s.fileOpts.Logger = s.logger
	}
	if s.primary == nil {
		s.primary = func(ctx context.Context, path string) (*datatable.Table, error) {
			return fileio.ReadParquet(ctx, path, s.fileOpts)
		}
	}
	if s.repair == nil {
		s.repair = func(ctx context.Context, path string) (*datatable.Table, error) {
			return fileio.RepairParquet(ctx, path, s.fileOpts)
		}
	}
	if s.write == nil {
		s.write = func(ctx context.Context, path string, t *datatable.Table) error {
			return fileio.WriteParquet(ctx, path, t, s.fileOpts)
		}
	}
	return s
}

// State reports whether a table is loaded.
func (s *Session) State() State {
	if s.table == nil {
		return StateEmpty
	}
	return StateLoaded
}

// Path returns the current file path, or "" if none is known.
func (s *Session) Path() string { return s.path }

// Table returns the loaded table, or nil.
func (s *Session) Table() *datatable.Table { return s.table }

// Adapter returns the grid adapter for the loaded table, or nil. A new
// adapter is created on every successful Open.
func (s *Session) Adapter() *datatable.Adapter { return s.adapter }

// Load makes t the current table without a path, as for a table that has
// not been saved yet.
func (s *Session) Load(t *datatable.Table) {
	s.replace(t, "")
}

// Open loads path with the primary reader and, if that fails, once more with
// the repair reader. On success the session switches to the new table and
// path. If both readers fail a *RepairError is returned and the session is
// left unchanged.
func (s *Session) Open(ctx context.Context, path string) (LoadResult, error) {
	log := s.logger.With("path", path)

	t, err := s.read(ctx, s.primary, path)
	if err == nil {
		s.replace(t, path)
		log.Info("opened file", "rows", t.RowCount(), "columns", t.ColumnCount())
		return LoadResult{Table: t, Path: path}, nil
	}

	loadErr := &LoadError{Path: path, Err: err}
	log.Warn("primary read failed, trying repair", "error", err)

	t, rerr := s.read(ctx, s.repair, path)
	if rerr != nil {
		log.Error("repair failed", "error", rerr)
		return LoadResult{}, &RepairError{Path: path, Primary: err, Repair: rerr}
	}

	s.replace(t, path)
	log.Warn("opened repaired file", "rows", t.RowCount(), "columns", t.ColumnCount())
	return LoadResult{Table: t, Path: path, Repaired: true, PrimaryErr: loadErr}, nil
}

// Save writes the table to the current path. When no path is known it
// behaves like SaveAs with the destination returned by the configured
// prompt; without a prompt it returns ErrNoPath, and a dismissed prompt
// returns ErrCanceled.
func (s *Session) Save(ctx context.Context) error {
	if s.table == nil {
		return ErrNoTable
	}
	if s.path != "" {
		return s.save(ctx, s.path)
	}
	if s.prompt == nil {
		return ErrNoPath
	}

	path, err := s.prompt(ctx)
	if err != nil {
		return fmt.Errorf("failed to choose destination: %w", err)
	}
	if path == "" {
		return ErrCanceled
	}
	return s.SaveAs(ctx, path)
}

// SaveAs writes the table to path and makes path the current path.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	if s.table == nil {
		return ErrNoTable
	}
	if err := s.save(ctx, path); err != nil {
		return err
	}
	s.path = path
	return nil
}

func (s *Session) save(ctx context.Context, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SaveError{Path: path, Err: fmt.Errorf("writer panic: %v", r)}
		}
	}()

	if err := s.write(ctx, path, s.table); err != nil {
		s.logger.Error("save failed", "path", path, "error", err)
		return &SaveError{Path: path, Err: err}
	}
	s.logger.Info("saved file", "path", path, "rows", s.table.RowCount())
	return nil
}

// read runs fn, turning a panic or a nil table into an error.
func (s *Session) read(ctx context.Context, fn ReadFunc, path string) (t *datatable.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("reader panic: %v", r)
		}
	}()

	t, err = fn(ctx, path)
	if err == nil && t == nil {
		err = errors.New("reader returned no table")
	}
	return t, err
}

func (s *Session) replace(t *datatable.Table, path string) {
	s.table = t
	s.path = path
	s.adapter = datatable.NewAdapter(t)
}
