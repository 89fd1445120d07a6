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

// Package datatable provides the in-memory table model edited by pqedit and
// the grid adapter the view layer renders from.
package datatable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts used for the canonical text form of temporal values.
const (
	TimestampLayout = "2006-01-02 15:04:05.999999999"
	DateLayout      = "2006-01-02"
)

// DataType represents the declared type of a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Kind returns the value kind stored by columns of this type.
func (dt DataType) Kind() Kind {
	switch dt {
	case TypeInt:
		return KindInt
	case TypeFloat:
		return KindFloat
	case TypeBool:
		return KindBool
	case TypeDate:
		return KindDate
	case TypeTimestamp:
		return KindTimestamp
	default:
		return KindText
	}
}

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindTimestamp
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single cell. The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Timestamp returns a timestamp value normalized to UTC.
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, t: v.UTC()} }

// Date returns a date value; the time of day is discarded.
func Date(v time.Time) Value {
	y, m, d := v.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float held by v.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Text returns the text held by v.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the instant held by a timestamp or date value.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTimestamp || v.kind == KindDate
}

// Raw returns v as a plain Go value, nil for null. Temporal values are
// returned in their canonical text form.
func (v Value) Raw() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return v.String()
		}
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	case KindTimestamp, KindDate:
		return v.String()
	default:
		return nil
	}
}

// String returns the canonical, locale-independent text of v. Null is empty.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTimestamp:
		return v.t.Format(TimestampLayout)
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same variant and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindTimestamp, KindDate:
		return v.t.Equal(o.t)
	default:
		return v.i == o.i && v.s == o.s && v.b == o.b
	}
}

// formatFloat keeps a trailing ".0" on integral values so floats stay
// distinguishable from ints in the grid.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Parse converts text into a value of the given type. Empty text is null for
// every type except TypeString.
func Parse(dt DataType, text string) (Value, error) {
	if text == "" && dt != TypeString {
		return Null(), nil
	}
	switch dt {
	case TypeString:
		return Text(text), nil
	case TypeInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as %s", ErrParse, text, dt)
		}
		return Int(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as %s", ErrParse, text, dt)
		}
		return Float(f), nil
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as %s", ErrParse, text, dt)
		}
		return Bool(b), nil
	case TypeDate:
		t, err := time.ParseInLocation(DateLayout, text, time.UTC)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as %s", ErrParse, text, dt)
		}
		return Date(t), nil
	case TypeTimestamp:
		t, err := time.ParseInLocation(TimestampLayout, text, time.UTC)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as %s", ErrParse, text, dt)
		}
		return Timestamp(t), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown type %s", ErrParse, dt)
	}
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}
