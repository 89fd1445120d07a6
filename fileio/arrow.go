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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"pqedit/datatable"
)

// indexColumnPrefix marks the row-label column written by pandas.
const indexColumnPrefix = "__index_level_"

// IndexColumnName is the column name used to persist row labels.
const IndexColumnName = indexColumnPrefix + "0__"

// dataTypeOf maps an arrow type to the column type used by the grid.
func dataTypeOf(dt arrow.DataType) datatable.DataType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datatable.TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datatable.TypeFloat
	case arrow.BOOL:
		return datatable.TypeBool
	case arrow.DATE32, arrow.DATE64:
		return datatable.TypeDate
	case arrow.TIMESTAMP:
		return datatable.TypeTimestamp
	case arrow.DICTIONARY:
		return dataTypeOf(dt.(*arrow.DictionaryType).ValueType)
	default:
		return datatable.TypeString
	}
}

// arrowTypeOf maps a column type to the arrow type it is written as.
func arrowTypeOf(dt datatable.DataType) arrow.DataType {
	switch dt {
	case datatable.TypeInt:
		return arrow.PrimitiveTypes.Int64
	case datatable.TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case datatable.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case datatable.TypeDate:
		return arrow.FixedWidthTypes.Date32
	case datatable.TypeTimestamp:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

// narrowFloat widens a float32 through its shortest decimal form so 0.1f
// reads as 0.1 rather than 0.10000000149011612.
func narrowFloat(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

// valueAt converts the arrow value at pos into a cell value.
func valueAt(col arrow.Array, pos int) datatable.Value {
	if col.IsNull(pos) {
		return datatable.Null()
	}

	switch col.DataType().ID() {
	case arrow.INT8:
		return datatable.Int(int64(col.(*array.Int8).Value(pos)))
	case arrow.INT16:
		return datatable.Int(int64(col.(*array.Int16).Value(pos)))
	case arrow.INT32:
		return datatable.Int(int64(col.(*array.Int32).Value(pos)))
	case arrow.INT64:
		return datatable.Int(col.(*array.Int64).Value(pos))
	case arrow.UINT8:
		return datatable.Int(int64(col.(*array.Uint8).Value(pos)))
	case arrow.UINT16:
		return datatable.Int(int64(col.(*array.Uint16).Value(pos)))
	case arrow.UINT32:
		return datatable.Int(int64(col.(*array.Uint32).Value(pos)))
	case arrow.UINT64:
		u := col.(*array.Uint64).Value(pos)
		if u > math.MaxInt64 {
			return datatable.Text(strconv.FormatUint(u, 10))
		}
		return datatable.Int(int64(u))
	case arrow.FLOAT16:
		return datatable.Float(narrowFloat(col.(*array.Float16).Value(pos).Float32()))
	case arrow.FLOAT32:
		return datatable.Float(narrowFloat(col.(*array.Float32).Value(pos)))
	case arrow.FLOAT64:
		return datatable.Float(col.(*array.Float64).Value(pos))
	case arrow.BOOL:
		return datatable.Bool(col.(*array.Boolean).Value(pos))
	case arrow.STRING:
		return datatable.Text(col.(*array.String).Value(pos))
	case arrow.LARGE_STRING:
		return datatable.Text(col.(*array.LargeString).Value(pos))
	case arrow.BINARY:
		return datatable.Text(string(col.(*array.Binary).Value(pos)))
	case arrow.DATE32:
		return datatable.Date(col.(*array.Date32).Value(pos).ToTime())
	case arrow.DATE64:
		return datatable.Date(col.(*array.Date64).Value(pos).ToTime())
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return datatable.Timestamp(col.(*array.Timestamp).Value(pos).ToTime(unit))
	case arrow.DECIMAL128:
		scale := col.DataType().(*arrow.Decimal128Type).Scale
		return datatable.Text(col.(*array.Decimal128).Value(pos).ToString(scale))
	case arrow.DECIMAL256:
		scale := col.DataType().(*arrow.Decimal256Type).Scale
		return datatable.Text(col.(*array.Decimal256).Value(pos).ToString(scale))
	case arrow.DICTIONARY:
		d := col.(*array.Dictionary)
		return valueAt(d.Dictionary(), d.GetValueIndex(pos))
	default:
		// times, lists, structs and the rest are shown by their text form
		return datatable.Text(col.ValueStr(pos))
	}
}

// FromArrow copies an arrow table into a datatable.Table. A pandas row-label
// column becomes the table's row labels.
func FromArrow(tbl arrow.Table) (*datatable.Table, error) {
	schema := tbl.Schema()
	cols := make([]datatable.Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		field := schema.Field(i)
		col := datatable.Column{
			Name:   field.Name,
			Type:   dataTypeOf(field.Type),
			Values: make([]datatable.Value, 0, tbl.NumRows()),
		}
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			for pos := 0; pos < chunk.Len(); pos++ {
				col.Values = append(col.Values, valueAt(chunk, pos))
			}
		}
		cols = append(cols, col)
	}
	return buildTable(cols)
}

// buildTable splits off the first row-label column, if any, and builds the
// table from the rest. Columns holding values their type cannot represent
// are loaded as strings.
func buildTable(cols []datatable.Column) (*datatable.Table, error) {
	for i := range cols {
		cols[i] = datatable.Conform(cols[i])
	}
	labelIdx := -1
	for i, c := range cols {
		if strings.HasPrefix(c.Name, indexColumnPrefix) {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 || len(cols) == 1 {
		return datatable.NewTable(cols)
	}

	labels := cols[labelIdx]
	data := make([]datatable.Column, 0, len(cols)-1)
	data = append(data, cols[:labelIdx]...)
	data = append(data, cols[labelIdx+1:]...)

	t, err := datatable.NewTable(data)
	if err != nil {
		return nil, err
	}
	if err := t.SetRowLabels(labels); err != nil {
		return nil, err
	}
	return t, nil
}

// toArrow builds an arrow table from t after coercing edited text back to
// each column's type. Row labels are appended as the last column.
func toArrow(t *datatable.Table, mem memory.Allocator) arrow.Table {
	cols := t.CoercedColumns()
	if labels := t.RowLabels(); labels != nil {
		lc := datatable.Coerce(*labels)
		lc.Name = IndexColumnName
		cols = append(cols, lc)
	}

	fields := make([]arrow.Field, len(cols))
	columns := make([]arrow.Column, len(cols))
	for i, c := range cols {
		dt := arrowTypeOf(c.Type)
		if c.Type == datatable.TypeTimestamp {
			unit, exact := timestampUnit(c.Values)
			if exact {
				dt = &arrow.TimestampType{Unit: unit, TimeZone: "UTC"}
			} else {
				c = datatable.AsText(c)
				dt = arrow.BinaryTypes.String
			}
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: true}

		builder := array.NewBuilder(mem, dt)
		for _, v := range c.Values {
			appendValue(builder, v)
		}
		arr := builder.NewArray()
		builder.Release()

		chunked := arrow.NewChunked(dt, []arrow.Array{arr})
		arr.Release()
		columns[i] = *arrow.NewColumn(fields[i], chunked)
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewTable(schema, columns, int64(t.RowCount()))
}

// unitRange is the span of instants an int64 timestamp can hold per unit.
// Seconds cover every instant time.Time can format.
var unitRange = map[arrow.TimeUnit][2]time.Time{
	arrow.Nanosecond:  {time.Unix(0, math.MinInt64), time.Unix(0, math.MaxInt64)},
	arrow.Microsecond: {time.UnixMicro(math.MinInt64), time.UnixMicro(math.MaxInt64)},
	arrow.Millisecond: {time.UnixMilli(math.MinInt64), time.UnixMilli(math.MaxInt64)},
}

// timestampUnit picks the finest unit whose range holds every value. exact
// is false when some value carries sub-unit precision the chosen unit would
// drop.
func timestampUnit(values []datatable.Value) (unit arrow.TimeUnit, exact bool) {
	unit = arrow.Nanosecond
	for _, v := range values {
		t, ok := v.Time()
		if !ok {
			continue
		}
		for unit > arrow.Second {
			r := unitRange[unit]
			if !t.Before(r[0]) && !t.After(r[1]) {
				break
			}
			unit--
		}
	}

	step := unit.Multiplier()
	for _, v := range values {
		if t, ok := v.Time(); ok && time.Duration(t.Nanosecond())%step != 0 {
			return unit, false
		}
	}
	return unit, true
}

// appendValue appends a coerced value to a builder of the matching type.
func appendValue(builder array.Builder, v datatable.Value) {
	if v.IsNull() {
		builder.AppendNull()
		return
	}

	switch b := builder.(type) {
	case *array.Int64Builder:
		n, _ := v.Int()
		b.Append(n)
	case *array.Float64Builder:
		f, _ := v.Float()
		b.Append(f)
	case *array.BooleanBuilder:
		x, _ := v.Bool()
		b.Append(x)
	case *array.Date32Builder:
		t, _ := v.Time()
		b.Append(arrow.Date32FromTime(t))
	case *array.TimestampBuilder:
		t, _ := v.Time()
		ts, err := arrow.TimestampFromTime(t, b.Type().(*arrow.TimestampType).Unit)
		if err != nil {
			b.AppendNull()
			return
		}
		b.Append(ts)
	case *array.StringBuilder:
		b.Append(v.String())
	default:
		builder.AppendNull()
	}
}
