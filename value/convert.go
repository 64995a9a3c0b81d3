// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"go4.org/mem"
)

// FromAny converts a plain Go value into a Value. It accepts nil, bool, the
// built-in integer and floating-point types, string, json.Number, []any,
// map[string]any, and Value itself (returned as-is). Map members are ordered
// by key.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return parseInteger(mem.S(string(t)))
	case []any:
		arr := make(Array, len(t))
		for i, elt := range t {
			ev, err := FromAny(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		obj := &Object{members: make([]Member, 0, len(keys))}
		for _, key := range keys {
			ev, err := FromAny(t[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, ev)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func fromUint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(u)
	}
	return Uint(u)
}

// ToAny converts v into a plain Go value: nil, bool, int64, uint64,
// float64, string, []any, or map[string]any. Object member order is not
// preserved.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Uint:
		return uint64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = ToAny(elt)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for key, val := range t.All() {
			out[key] = ToAny(val)
		}
		return out
	default:
		panic(fmt.Sprintf("value: unknown value type %T", v))
	}
}

// Equal reports whether a and b are structurally equal. Numbers compare
// equal if they have the same kind and value; Float NaN values are equal to
// each other. Objects are equal if they have the same members in the same
// order. A nil Value is equal to Null.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch t := a.(type) {
	case nil, Null:
		return true
	case Float:
		u := b.(Float)
		return t == u || (math.IsNaN(float64(t)) && math.IsNaN(float64(u)))
	case Array:
		u := b.(Array)
		return slices.EqualFunc(t, u, Equal)
	case *Object:
		return t.Equal(b.(*Object))
	default:
		return a == b
	}
}

// Number reports the numeric value of v as a float64, and whether v is a
// number (Int, Uint, or Float).
func Number(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Uint:
		return float64(t), true
	case Float:
		return float64(t), true
	}
	return 0, false
}

// Text renders a scalar v as plain text, without quotation marks for
// strings. For an array or object it returns the compact JSON encoding.
func Text(v Value) string {
	switch t := v.(type) {
	case String:
		return string(t)
	case Int:
		return strconv.FormatInt(int64(t), 10)
	case Uint:
		return strconv.FormatUint(uint64(t), 10)
	case nil:
		return "null"
	}
	return v.JSON()
}
