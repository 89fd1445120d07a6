package datatable

// DataSource is the read side of a loaded table, used by code that only
// inspects a file (info output, exports) and never edits it.
type DataSource interface {
	RowCount() int
	ColumnCount() int

	// ColumnName and ColumnType fail with ErrInvalidColumn out of range.
	ColumnName(col int) (string, error)
	ColumnType(col int) (DataType, error)

	// Cell fails with ErrInvalidRow or ErrInvalidColumn instead of panicking.
	Cell(row, col int) (Value, error)
	Row(row int) ([]Value, error)

	// Metadata holds what the reader recorded about the file, such as
	// row group counts. Never nil.
	Metadata() Metadata
}

var _ DataSource = (*Table)(nil)
