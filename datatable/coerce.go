package datatable

// Coerce returns c with edited text converted back to the column's declared
// type. A text value is accepted only when its parsed value prints back to the
// exact same text; empty text becomes null. If any value cannot be converted
// that way, the whole column is returned as TypeString so no edit is lost.
//
// c is not modified.
func Coerce(c Column) Column {
	if c.Type == TypeString {
		return stringColumn(c)
	}
	want := c.Type.Kind()
	out := make([]Value, len(c.Values))
	for i, v := range c.Values {
		switch v.Kind() {
		case want, KindNull:
			out[i] = v
		case KindText:
			if v.s == "" {
				out[i] = Null()
				continue
			}
			p, err := Parse(c.Type, v.s)
			if err != nil || p.String() != v.s {
				return stringColumn(c)
			}
			out[i] = p
		default:
			return stringColumn(c)
		}
	}
	return Column{Name: c.Name, Type: c.Type, Values: out}
}

// Conform returns c unchanged when every non-null value has the column's
// declared type. Otherwise it returns c as a TypeString column, the way a
// lossy edit is saved. Loaders use it for values the grid types cannot
// hold, such as unsigned integers above the int64 range.
func Conform(c Column) Column {
	if c.Type == TypeString {
		return c
	}
	want := c.Type.Kind()
	for _, v := range c.Values {
		if !v.IsNull() && v.Kind() != want {
			return stringColumn(c)
		}
	}
	return c
}

// AsText returns c as a TypeString column holding the canonical text of
// every value.
func AsText(c Column) Column { return stringColumn(c) }

func stringColumn(c Column) Column {
	out := make([]Value, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() || v.Kind() == KindText {
			out[i] = v
			continue
		}
		out[i] = Text(v.String())
	}
	return Column{Name: c.Name, Type: TypeString, Values: out}
}

// CoercedColumns returns every column of t passed through Coerce.
func (t *Table) CoercedColumns() []Column {
	out := make([]Column, len(t.columns))
	for i, c := range t.columns {
		out[i] = Coerce(c)
	}
	return out
}
