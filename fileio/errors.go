package fileio

import "errors"

var (
	// ErrNoRowGroups is returned by the repair reader when no row group of a
	// non-empty file could be decoded.
	ErrNoRowGroups = errors.New("no readable row groups")

	// ErrUnsupportedFormat is returned for file types that cannot be exported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownCompression is returned for unknown codec names.
	ErrUnknownCompression = errors.New("unknown compression codec")
)
