package lametric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies the scalar held by a Value.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindFloat
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a free-form action parameter: exactly one of a boolean, an
// integer, a floating-point number or a string.
//
// Decoding tries bool, int, float and string in that order and keeps the
// first shape that parses. The zero Value is the boolean false.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
}

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue wraps a floating-point number.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which scalar the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean and whether the value holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer and whether the value holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float and whether the value holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Interface returns the held scalar as bool, int64, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	default:
		return nil, fmt.Errorf("unsupported value kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	// encoding/json treats null as a no-op for scalars, which would make the
	// bool probe succeed on it.
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("cannot decode null as a value")
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var i int64
	if err := json.Unmarshal(trimmed, &i); err == nil {
		*v = IntValue(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*v = FloatValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	return fmt.Errorf("cannot decode %s as bool, int, float or string", truncate(string(trimmed), 32))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
