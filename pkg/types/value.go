// Package types implements NQL's scalar value system: a small tagged union
// over the data types a column can hold, plus conversion to and from the
// textual form the lexer and formatter deal in.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is the static type a column declares.
type DataType int

const (
	TypeInt DataType = iota
	TypeFloat
	TypeString
	TypeBool
)

// String returns the SQL type keyword for t.
func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	case TypeBool:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// ValueType tags a Value. It mirrors DataType but also has a Null case,
// since a column-typed value may be absent.
type ValueType int

const (
	ValNull ValueType = iota
	ValInt
	ValFloat
	ValString
	ValBool
)

// Value is a tagged scalar: exactly one of the typed fields below is
// meaningful, selected by typ. Like the teacher's types.Value, fields are
// unexported so a Value can only be built through the New* constructors and
// read through its accessors.
type Value struct {
	typ     ValueType
	intVal  int64
	fltVal  float64
	strVal  string
	boolVal bool
}

func NewNull() Value           { return Value{typ: ValNull} }
func NewInt(i int64) Value     { return Value{typ: ValInt, intVal: i} }
func NewFloat(f float64) Value { return Value{typ: ValFloat, fltVal: f} }
func NewString(s string) Value { return Value{typ: ValString, strVal: s} }
func NewBool(b bool) Value     { return Value{typ: ValBool, boolVal: b} }

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == ValNull }
func (v Value) Int() int64      { return v.intVal }
func (v Value) Float() float64  { return v.fltVal }
func (v Value) Str() string     { return v.strVal }
func (v Value) Bool() bool      { return v.boolVal }

// String renders the tag name, for diagnostics.
func (t ValueType) String() string {
	switch t {
	case ValNull:
		return "NULL"
	case ValInt:
		return "INT"
	case ValFloat:
		return "FLOAT"
	case ValString:
		return "STRING"
	case ValBool:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// ParseLiteral converts already-lexed source text into a Value under the
// given target type, per spec.md §4.1: booleans accept true/1/yes/y
// (case-insensitive) as true and anything else as false.
func ParseLiteral(text string, dt DataType) (Value, error) {
	switch dt {
	case TypeInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid INT literal %q: %w", text, err)
		}
		return NewInt(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid FLOAT literal %q: %w", text, err)
		}
		return NewFloat(f), nil
	case TypeString:
		return NewString(text), nil
	case TypeBool:
		return NewBool(isTruthyText(text)), nil
	default:
		return Value{}, fmt.Errorf("unknown data type %v", dt)
	}
}

func isTruthyText(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// Format renders v under column type dt the way tabular output does:
// floats get two fractional digits, integers render decimal, strings
// render unquoted, and Null always renders as the empty string regardless
// of dt.
func Format(v Value, dt DataType) string {
	if v.IsNull() {
		return ""
	}
	switch dt {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	case TypeString:
		return v.Str()
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Coerce converts v (as produced by the parser/lexer, tagged by ValueType)
// into the representation appropriate for column type dt, applying the
// implicit conversions spec.md §4.6 allows (INT->FLOAT, BOOL->INT). It does
// not check nullability or length; callers validate those separately.
func Coerce(v Value, dt DataType) (Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch dt {
	case TypeInt:
		switch v.Type() {
		case ValInt:
			return v, nil
		case ValBool:
			if v.Bool() {
				return NewInt(1), nil
			}
			return NewInt(0), nil
		}
	case TypeFloat:
		switch v.Type() {
		case ValFloat:
			return v, nil
		case ValInt:
			return NewFloat(float64(v.Int())), nil
		}
	case TypeString:
		return NewString(CoerceToString(v)), nil
	case TypeBool:
		if v.Type() == ValBool {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("value of type %v is not compatible with column type %v", v.Type(), dt)
}

// CoerceToString renders any value tag as text, used when a STRING column
// accepts a non-string literal (spec.md §4.6: STRING accepts any, string-
// coerced).
func CoerceToString(v Value) string {
	switch v.Type() {
	case ValInt:
		return strconv.FormatInt(v.Int(), 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case ValString:
		return v.Str()
	case ValBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// IsCompatible reports whether a literal/value of type vt may be stored in
// or compared against a column of type dt, per the table in spec.md §4.6.
func IsCompatible(dt DataType, vt ValueType) bool {
	if vt == ValNull {
		return true // nullability is checked separately by the caller
	}
	switch dt {
	case TypeInt:
		return vt == ValInt || vt == ValBool
	case TypeFloat:
		return vt == ValFloat || vt == ValInt
	case TypeString:
		return true
	case TypeBool:
		return vt == ValBool
	default:
		return false
	}
}
