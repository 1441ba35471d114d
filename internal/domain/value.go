package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindList
)

// Value is a scraped field: absent, a number, a raw string or an ordered
// list of per-rank values. The zero Value is null.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	list []Value
}

func Null() Value { return Value{} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Numbers builds a list value from plain floats.
func Numbers(fs ...float64) Value {
	items := make([]Value, len(fs))
	for i, f := range fs {
		items[i] = Number(f)
	}
	return List(items...)
}

// Strings builds a list value from plain strings.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return List(items...)
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Text renders scalars as plain text. Whole numbers print without a
// fractional part; null and lists render empty.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(b)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = List(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = String(strconv.FormatBool(b))
	case '{':
		return fmt.Errorf("value: objects are not supported")
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
	}
	return nil
}
