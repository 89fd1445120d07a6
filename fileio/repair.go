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
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/apache/arrow-go/v18/parquet/schema"
	"golang.org/x/sync/errgroup"

	"pqedit/datatable"
)

// repairBatchSize is the number of levels decoded per ReadBatch call.
const repairBatchSize = 4096

// leaf describes how one flat Parquet column is decoded. field is the arrow
// type derived from the Parquet logical type, nil when only the physical
// type is known.
type leaf struct {
	index    int
	name     string
	typ      datatable.DataType
	field    arrow.DataType
	unit     arrow.TimeUnit
	unsigned bool
}

// RepairParquet reconstructs a table from a Parquet file using the low-level
// column chunk readers. Column types come from the Parquet schema alone, so
// stored arrow schema metadata is ignored. Row groups are decoded one at a
// time with their columns read in parallel; a row group that fails to decode
// is dropped and logged. Repeated (nested) columns are skipped.
func RepairParquet(ctx context.Context, path string, opts Options) (*datatable.Table, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("path", path)

	pf, err := file.OpenParquetFile(path, false, file.WithReadProps(parquet.NewReaderProperties(opts.Allocator)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer pf.Close()

	leaves, skipped := planLeaves(pf.MetaData().Schema, log)

	cols := make([]datatable.Column, len(leaves))
	for i, l := range leaves {
		cols[i] = datatable.Column{Name: l.name, Type: l.typ}
	}

	recovered, dropped := 0, 0
	for rg := 0; rg < pf.NumRowGroups(); rg++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err := readRowGroup(ctx, pf.RowGroup(rg), leaves, opts.Parallelism)
		if err != nil {
			log.Warn("dropping unreadable row group", "row_group", rg, "error", err)
			dropped++
			continue
		}
		for i := range cols {
			cols[i].Values = append(cols[i].Values, values[i]...)
		}
		recovered++
	}

	if recovered == 0 && pf.NumRows() > 0 {
		return nil, fmt.Errorf("%w: %d row groups dropped", ErrNoRowGroups, dropped)
	}

	t, err := buildTable(cols)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild table: %w", err)
	}
	t.SetMetadata(MetaRowGroups, pf.NumRowGroups())
	t.SetMetadata(MetaDroppedRowGroups, dropped)
	t.SetMetadata(MetaSkippedColumns, skipped)
	log.Info("repaired parquet file", "row_groups", recovered, "dropped", dropped, "rows", t.RowCount())
	return t, nil
}

// planLeaves decides name and type for every flat leaf column. Types are
// derived from the Parquet logical types; when that fails the physical type
// is used.
func planLeaves(sc *schema.Schema, log *slog.Logger) ([]leaf, []string) {
	arrSchema, err := pqarrow.FromParquet(sc, &pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		log.Warn("falling back to physical column types", "error", err)
		arrSchema = nil
	}
	if arrSchema != nil && len(arrSchema.Fields()) != sc.NumColumns() {
		arrSchema = nil
	}

	var (
		leaves  []leaf
		skipped []string
	)
	for i := 0; i < sc.NumColumns(); i++ {
		col := sc.Column(i)
		if col.MaxRepetitionLevel() > 0 {
			log.Warn("skipping repeated column", "column", col.Path())
			skipped = append(skipped, col.Path())
			continue
		}

		l := leaf{index: i, name: col.Path(), typ: physicalType(col.PhysicalType())}
		if arrSchema != nil && !strings.Contains(col.Path(), ".") {
			field := arrSchema.Field(i)
			l.name = field.Name
			l.typ = dataTypeOf(field.Type)
			l.field = field.Type
			switch dt := field.Type.(type) {
			case *arrow.TimestampType:
				l.unit = dt.Unit
			case *arrow.Uint32Type, *arrow.Uint64Type:
				l.unsigned = true
			}
		}
		if col.PhysicalType() == parquet.Types.Int96 {
			l.typ = datatable.TypeTimestamp
		}
		leaves = append(leaves, l)
	}
	return leaves, skipped
}

func physicalType(t parquet.Type) datatable.DataType {
	switch t {
	case parquet.Types.Boolean:
		return datatable.TypeBool
	case parquet.Types.Int32, parquet.Types.Int64:
		return datatable.TypeInt
	case parquet.Types.Int96:
		return datatable.TypeTimestamp
	case parquet.Types.Float, parquet.Types.Double:
		return datatable.TypeFloat
	default:
		return datatable.TypeString
	}
}

// readRowGroup decodes every planned column of one row group concurrently.
func readRowGroup(ctx context.Context, rg *file.RowGroupReader, leaves []leaf, parallelism int) ([][]datatable.Value, error) {
	rows := rg.NumRows()
	out := make([][]datatable.Value, len(leaves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, l := range leaves {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("column %q: decoder panic: %v", l.name, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := readLeaf(rg, l, rows)
			if err != nil {
				return fmt.Errorf("column %q: %w", l.name, err)
			}
			if int64(len(values)) != rows {
				return fmt.Errorf("column %q: decoded %d values, want %d", l.name, len(values), rows)
			}
			out[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// readLeaf decodes one column chunk into cell values, with nulls placed
// according to the definition levels.
func readLeaf(rg *file.RowGroupReader, l leaf, rows int64) ([]datatable.Value, error) {
	cr, err := rg.Column(l.index)
	if err != nil {
		return nil, err
	}
	maxDef := cr.Descriptor().MaxDefinitionLevel()
	out := make([]datatable.Value, 0, rows)
	defs := make([]int16, repairBatchSize)

	switch r := cr.(type) {
	case *file.BooleanColumnChunkReader:
		buf := make([]bool, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Bool(buf[i]) })
		}
	case *file.Int32ColumnChunkReader:
		buf := make([]int32, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value {
				if l.unsigned {
					return l.fromInt(int64(uint32(buf[i])))
				}
				return l.fromInt(int64(buf[i]))
			})
		}
	case *file.Int64ColumnChunkReader:
		buf := make([]int64, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value {
				if l.unsigned && buf[i] < 0 {
					return datatable.Text(strconv.FormatUint(uint64(buf[i]), 10))
				}
				return l.fromInt(buf[i])
			})
		}
	case *file.Int96ColumnChunkReader:
		buf := make([]parquet.Int96, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Timestamp(buf[i].ToTime()) })
		}
	case *file.Float32ColumnChunkReader:
		buf := make([]float32, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Float(narrowFloat(buf[i])) })
		}
	case *file.Float64ColumnChunkReader:
		buf := make([]float64, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Float(buf[i]) })
		}
	case *file.ByteArrayColumnChunkReader:
		buf := make([]parquet.ByteArray, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Text(string(buf[i])) })
		}
	case *file.FixedLenByteArrayColumnChunkReader:
		buf := make([]parquet.FixedLenByteArray, repairBatchSize)
		for r.HasNext() {
			total, n, err := r.ReadBatch(repairBatchSize, buf, defs, nil)
			if err != nil {
				return nil, err
			}
			out = spread(out, defs[:total], maxDef, n, func(i int) datatable.Value { return datatable.Text(fmt.Sprintf("%x", []byte(buf[i]))) })
		}
	default:
		return nil, fmt.Errorf("unsupported physical type %s", cr.Type())
	}

	if err := cr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// spread appends one value per level: the next decoded value where the level
// is fully defined and null elsewhere. Required columns carry no levels.
func spread(out []datatable.Value, defs []int16, maxDef int16, n int, value func(int) datatable.Value) []datatable.Value {
	if maxDef == 0 {
		for i := 0; i < n; i++ {
			out = append(out, value(i))
		}
		return out
	}
	next := 0
	for _, d := range defs {
		if d == maxDef && next < n {
			out = append(out, value(next))
			next++
			continue
		}
		out = append(out, datatable.Null())
	}
	return out
}

// fromInt interprets a physical integer according to the column's logical type.
func (l leaf) fromInt(v int64) datatable.Value {
	switch dt := l.field.(type) {
	case arrow.DecimalType:
		return l.decimal(big.NewInt(v))
	case *arrow.Time32Type:
		return datatable.Text(arrow.Time32(v).FormattedString(dt.Unit))
	case *arrow.Time64Type:
		return datatable.Text(arrow.Time64(v).FormattedString(dt.Unit))
	}

	switch l.typ {
	case datatable.TypeDate:
		return datatable.Date(arrow.Date32(v).ToTime())
	case datatable.TypeTimestamp:
		return datatable.Timestamp(arrow.Timestamp(v).ToTime(l.unit))
	case datatable.TypeInt:
		return datatable.Int(v)
	default:
		return datatable.Text(strconv.FormatInt(v, 10))
	}
}

// fromBytes interprets a variable length byte array: a decimal's unscaled
// value or text.
func (l leaf) fromBytes(b []byte) datatable.Value {
	if _, ok := l.field.(arrow.DecimalType); ok {
		return l.decimal(bigEndianInt(b))
	}
	return datatable.Text(string(b))
}

// fromFixed interprets a fixed length byte array. Plain binary is shown
// base64 encoded, as the arrow reader prints it.
func (l leaf) fromFixed(b []byte) datatable.Value {
	switch l.field.(type) {
	case arrow.DecimalType:
		return l.decimal(bigEndianInt(b))
	case *arrow.Float16Type:
		if len(b) == arrow.Float16SizeBytes {
			f := float16.FromBits(binary.LittleEndian.Uint16(b))
			return datatable.Float(narrowFloat(f.Float32()))
		}
	}
	return datatable.Text(base64.StdEncoding.EncodeToString(b))
}

// decimal renders an unscaled decimal value with the column's scale.
func (l leaf) decimal(n *big.Int) datatable.Value {
	switch dt := l.field.(type) {
	case *arrow.Decimal128Type:
		return datatable.Text(decimal128.FromBigInt(n).ToString(dt.Scale))
	case *arrow.Decimal256Type:
		return datatable.Text(decimal256.FromBigInt(n).ToString(dt.Scale))
	default:
		return datatable.Text(n.String())
	}
}

// bigEndianInt decodes a big-endian two's complement integer.
func bigEndianInt(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return n
}
