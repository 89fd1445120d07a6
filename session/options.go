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

package session

import (
	"context"
	"log/slog"

	"pqedit/datatable"
	"pqedit/fileio"
)

// ReadFunc loads a table from path.
type ReadFunc func(ctx context.Context, path string) (*datatable.Table, error)

// WriteFunc serializes a table to path.
type WriteFunc func(ctx context.Context, path string, t *datatable.Table) error

// PromptFunc asks the user for a save destination. An empty path means the
// user canceled.
type PromptFunc func(ctx context.Context) (string, error)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithFileOptions sets the options passed to the default Parquet readers and
// writer. Readers and writers set explicitly are not affected.
func WithFileOptions(opts fileio.Options) Option {
	return func(s *Session) { s.fileOpts = opts }
}

// WithPrimaryReader replaces the high-level reader.
func WithPrimaryReader(fn ReadFunc) Option {
	return func(s *Session) { s.primary = fn }
}

// WithRepairReader replaces the fallback reader.
func WithRepairReader(fn ReadFunc) Option {
	return func(s *Session) { s.repair = fn }
}

// WithWriter replaces the serializer used by Save and SaveAs.
func WithWriter(fn WriteFunc) Option {
	return func(s *Session) { s.write = fn }
}

// WithDestinationPrompt sets the prompt Save uses when the session has no path.
func WithDestinationPrompt(fn PromptFunc) Option {
	return func(s *Session) { s.prompt = fn }
}
