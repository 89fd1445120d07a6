package datatable

import "errors"

// Common errors returned by the datatable package.
var (
	// ErrInvalidColumn is returned when a column index is out of range.
	ErrInvalidColumn = errors.New("invalid column index")

	// ErrInvalidRow is returned when a row index is out of range.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrRaggedColumns is returned when columns disagree on row count.
	ErrRaggedColumns = errors.New("columns have different row counts")

	// ErrColumnNotFound is returned when a column name is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrParse is returned when text cannot be read as a column's type.
	ErrParse = errors.New("cannot parse value")
)
