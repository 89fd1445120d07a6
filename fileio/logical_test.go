package fileio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqedit/datatable"
)

var (
	farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	micros    = time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)
)

// logicalText is the cell text of the file written by writeLogical.
var logicalText = [][]string{
	{"9999-12-31 00:00:00", "12.34", "13:45:30.250000", "1.5", "18446744073709551615", "YWI="},
	{"2024-03-01 12:30:45.123456", "-0.05", "00:00:01.000000", "-2.0", "7", "Y2Q="},
	{"", "", "", "", "", ""},
}

// writeLogical writes columns whose Parquet logical types have no direct
// grid type: a far-future microsecond timestamp, a decimal, a time of day,
// a half float, an unsigned integer above the int64 range and fixed binary.
func writeLogical(t *testing.T, path string, md arrow.Metadata) {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "until", Type: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, Nullable: true},
		{Name: "price", Type: &arrow.Decimal128Type{Precision: 10, Scale: 2}, Nullable: true},
		{Name: "at", Type: arrow.FixedWidthTypes.Time64us, Nullable: true},
		{Name: "half", Type: arrow.FixedWidthTypes.Float16, Nullable: true},
		{Name: "big", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "tag", Type: &arrow.FixedSizeBinaryType{ByteWidth: 2}, Nullable: true},
	}, &md)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	until := b.Field(0).(*array.TimestampBuilder)
	until.Append(arrow.Timestamp(farFuture.UnixMicro()))
	until.Append(arrow.Timestamp(micros.UnixMicro()))
	until.AppendNull()

	price := b.Field(1).(*array.Decimal128Builder)
	price.Append(decimal128.FromI64(1234))
	price.Append(decimal128.FromI64(-5))
	price.AppendNull()

	at := b.Field(2).(*array.Time64Builder)
	at.Append(arrow.Time64((13*time.Hour + 45*time.Minute + 30*time.Second + 250*time.Millisecond) / time.Microsecond))
	at.Append(arrow.Time64(time.Second / time.Microsecond))
	at.AppendNull()

	half := b.Field(3).(*array.Float16Builder)
	half.Append(float16.New(1.5))
	half.Append(float16.New(-2))
	half.AppendNull()

	big := b.Field(4).(*array.Uint64Builder)
	big.Append(math.MaxUint64)
	big.Append(7)
	big.AppendNull()

	tag := b.Field(5).(*array.FixedSizeBinaryBuilder)
	tag.Append([]byte("ab"))
	tag.Append([]byte("cd"))
	tag.AppendNull()

	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
}

func TestLogicalTypesReadAlike(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logical.parquet")
	writeLogical(t, path, arrow.Metadata{})

	wantTypes := []datatable.DataType{
		datatable.TypeTimestamp, datatable.TypeString, datatable.TypeString,
		datatable.TypeFloat, datatable.TypeString, datatable.TypeString,
	}

	for name, read := range map[string]func(context.Context, string, Options) (*datatable.Table, error){
		"primary": ReadParquet,
		"repair":  RepairParquet,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := read(ctx, path, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, logicalText, cellText(t, got))
			for c, want := range wantTypes {
				typ, err := got.ColumnType(c)
				require.NoError(t, err)
				assert.Equal(t, want, typ, "column %d", c)
			}
		})
	}
}

func TestRepairLogicalTypesWithCorruptSchemaMetadata(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logical-bad-meta.parquet")
	writeLogical(t, path, arrow.NewMetadata([]string{"ARROW:schema"}, []string{"not*base64!"}))

	_, err := ReadParquet(ctx, path, DefaultOptions())
	require.Error(t, err)

	got, err := RepairParquet(ctx, path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, logicalText, cellText(t, got))
}

func TestLogicalTypesSurviveSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "logical.parquet")
	writeLogical(t, src, arrow.Metadata{})

	for name, read := range map[string]func(context.Context, string, Options) (*datatable.Table, error){
		"primary": ReadParquet,
		"repair":  RepairParquet,
	} {
		t.Run(name, func(t *testing.T) {
			loaded, err := read(ctx, src, DefaultOptions())
			require.NoError(t, err)

			out := filepath.Join(dir, name+".parquet")
			require.NoError(t, WriteParquet(ctx, out, loaded, DefaultOptions()))

			got, err := ReadParquet(ctx, out, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, logicalText, cellText(t, got))

			typ, err := got.ColumnType(0)
			require.NoError(t, err)
			assert.Equal(t, datatable.TypeTimestamp, typ)
		})
	}
}

func TestTimestampUnit(t *testing.T) {
	tests := []struct {
		name      string
		values    []time.Time
		wantUnit  arrow.TimeUnit
		wantExact bool
	}{
		{"nanoseconds in range", []time.Time{stamp.Add(7)}, arrow.Nanosecond, true},
		{"far future", []time.Time{farFuture, micros}, arrow.Microsecond, true},
		{"distant past", []time.Time{time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)}, arrow.Microsecond, true},
		{"far future with nanoseconds", []time.Time{farFuture, stamp.Add(7)}, arrow.Microsecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := []datatable.Value{datatable.Null()}
			for _, v := range tt.values {
				values = append(values, datatable.Timestamp(v))
			}
			unit, exact := timestampUnit(values)
			assert.Equal(t, tt.wantUnit, unit)
			assert.Equal(t, tt.wantExact, exact)
		})
	}
}

func TestWriteTimestampsOutsideNanosecondRange(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name     string
		values   []datatable.Value
		wantType datatable.DataType
	}{
		{
			name:     "microsecond precision keeps the type",
			values:   []datatable.Value{datatable.Timestamp(farFuture), datatable.Timestamp(micros), datatable.Null()},
			wantType: datatable.TypeTimestamp,
		},
		{
			name:     "nanosecond precision is saved as text",
			values:   []datatable.Value{datatable.Timestamp(farFuture), datatable.Timestamp(stamp.Add(7)), datatable.Null()},
			wantType: datatable.TypeString,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := datatable.NewTable([]datatable.Column{{Name: "at", Type: datatable.TypeTimestamp, Values: tt.values}})
			require.NoError(t, err)

			path := filepath.Join(dir, string(rune('a'+i))+".parquet")
			require.NoError(t, WriteParquet(ctx, path, tbl, DefaultOptions()))
			got, err := ReadParquet(ctx, path, DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, cellText(t, tbl), cellText(t, got))
			typ, err := got.ColumnType(0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

func TestUnsignedOverflowLoadsAsString(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logical.parquet")
	writeLogical(t, path, arrow.Metadata{})

	got, err := ReadParquet(ctx, path, DefaultOptions())
	require.NoError(t, err)

	// an unedited load saves without demoting anything further
	for i, c := range got.CoercedColumns() {
		assert.Equal(t, got.Columns()[i].Type, c.Type, c.Name)
	}
	assert.Equal(t, datatable.Text("7"), got.Value(1, 4))
}

func TestWriteKeepsFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.parquet")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, WriteParquet(context.Background(), path, sampleTable(t), DefaultOptions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
