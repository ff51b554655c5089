package cognee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON document. Exactly one variant is populated,
// selected by Kind. The zero Value is JSON null.
type Value struct {
	kind ValueKind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  map[string]Value
}

// NullValue returns JSON null.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// NumberValue wraps a float64.
func NumberValue(f float64) Value {
	return Value{kind: ValueNumber, num: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// IntValue wraps an integer.
func IntValue(i int64) Value {
	return Value{kind: ValueNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// ArrayValue wraps a list of values. A nil list becomes an empty array.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ValueArray, arr: items}
}

// ObjectValue wraps a map of values. A nil map becomes an empty object.
func ObjectValue(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: ValueObject, obj: fields}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == ValueNull }
func (v Value) IsObject() bool  { return v.kind == ValueObject }
func (v Value) IsArray() bool   { return v.kind == ValueArray }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	if i, err := v.num.Int64(); err == nil {
		return i, true
	}
	f, err := v.num.Float64()
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == ValueArray
}

func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == ValueObject
}

// Get returns the field named key when v is an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != ValueObject {
		return Value{}, false
	}
	field, ok := v.obj[key]
	return field, ok
}

// Lookup returns the first present, non-null field among keys.
func (v Value) Lookup(keys ...string) (Value, bool) {
	for _, key := range keys {
		if field, ok := v.Get(key); ok && !field.IsNull() {
			return field, true
		}
	}
	return Value{}, false
}

// Keys returns the object's keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != ValueObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of elements of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case ValueArray:
		return len(v.arr)
	case ValueObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Interface converts v into plain Go values: map[string]any, []any, string,
// bool, nil, and int or float64 for numbers.
func (v Value) Interface() any {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueNumber:
		if i, err := v.num.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.num.Float64()
		return f
	case ValueString:
		return v.str
	case ValueArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case ValueObject:
		out := make(map[string]any, len(v.obj))
		for k, field := range v.obj {
			out[k] = field.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<invalid value: %v>", err)
	}
	return string(data)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueBool:
		return json.Marshal(v.b)
	case ValueNumber:
		return []byte(v.num.String()), nil
	case ValueString:
		return json.Marshal(v.str)
	case ValueArray:
		return json.Marshal(v.arr)
	case ValueObject:
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// FromInterface converts the output of encoding/json (or any tree of maps,
// slices and scalars) into a Value. Unsupported types become their
// fmt representation.
func FromInterface(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NullValue()
	case Value:
		return x
	case bool:
		return BoolValue(x)
	case json.Number:
		return Value{kind: ValueNumber, num: x}
	case float64:
		return NumberValue(x)
	case float32:
		return NumberValue(float64(x))
	case int:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case int32:
		return IntValue(int64(x))
	case string:
		return StringValue(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromInterface(item)
		}
		return ArrayValue(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = StringValue(item)
		}
		return ArrayValue(items...)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[k] = FromInterface(item)
		}
		return ObjectValue(fields)
	case map[string]string:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[k] = StringValue(item)
		}
		return ObjectValue(fields)
	default:
		return StringValue(fmt.Sprint(x))
	}
}

// DecodeBody turns a raw response body into a Value. An empty body decodes
// to an empty object; a body that is not valid JSON is wrapped as
// {"data": "<raw body>"}.
func DecodeBody(body []byte) Value {
	if len(body) == 0 {
		return ObjectValue(nil)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return rawDataValue(body)
	}
	// Trailing content after the first document means the body is not JSON.
	if _, err := dec.Token(); err != io.EOF {
		return rawDataValue(body)
	}
	return FromInterface(raw)
}

func rawDataValue(body []byte) Value {
	return ObjectValue(map[string]Value{"data": StringValue(string(body))})
}
