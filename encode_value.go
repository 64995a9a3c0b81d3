// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/creachadair/jbind/value"
	"github.com/go-pg/zerochecker"
)

// A FieldEncoder is a type that encodes itself as a single value, typically
// an object whose members are written by calling the encode methods for
// each of its fields with the key of each field:
//
//	func (p Point) EncodeFields(e *jbind.Encoder) error {
//	   e.ObjectBegin(jbind.Self)
//	   jbind.EncodeInt(e, jbind.Name("x"), p.X, jbind.Policy{})
//	   jbind.EncodeInt(e, jbind.Name("y"), p.Y, jbind.Policy{})
//	   return e.ObjectEnd()
//	}
//
// When Encode reaches a value that implements FieldEncoder, it writes the
// key and then calls EncodeFields instead of encoding the value by
// reflection.
type FieldEncoder interface {
	EncodeFields(e *Encoder) error
}

var (
	fieldEncoderType  = reflect.TypeFor[FieldEncoder]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// bindError carries an error out of a reflective traversal by panicking.
type bindError struct{ error }

// Encode writes v under key by reflection. It reports whether anything was
// written.
//
// A value is written according to its type:
//
//   - A FieldEncoder encodes itself, and an encoding.TextMarshaler is
//     written as a string.
//   - A value.Value is written as the tree it denotes.
//   - Booleans, integers, floats, and strings are written as for EncodeBool,
//     EncodeInt, EncodeFloat, and EncodeString.
//   - Slices and arrays are written as arrays.
//   - Maps are written as objects with members sorted by key. Keys must be
//     strings, integers, or implement encoding.TextMarshaler.
//   - Structs are written as objects, each field using the policy given by
//     its struct tag.
//   - Pointers and interfaces are written as their targets, or null if nil.
//
// Elements of arrays are always written, using null for nil. Values of map
// entries follow the OmitEmpty and EmptyAsNull flags of p, as for EncodeMap.
func (e *Encoder) Encode(key Key, v any, p Policy) (ok bool, err error) {
	if err := e.Err(); err != nil {
		return false, err
	}
	defer func() {
		if x := recover(); x != nil {
			be, isBind := x.(bindError)
			if !isBind {
				panic(x)
			}
			e.setError(be.error)
			ok, err = false, e.Err()
		}
	}()
	ok = e.encodeValue(key, reflect.ValueOf(v), p)
	if err := e.Err(); err != nil {
		return false, err
	}
	return ok, nil
}

// encodeValue applies the empty-value rules of p to v and, unless v is
// omitted, writes key followed by v. It reports whether anything was
// written.
func (e *Encoder) encodeValue(key Key, v reflect.Value, p Policy) bool {
	empty := isEmpty(v)
	if empty && p.OmitEmpty {
		return false
	}
	e.writeKey(key)
	if empty && p.EmptyAsNull {
		e.w.Null()
	} else {
		e.writeValue(v, p.entries())
	}
	return true
}

// isEmpty reports whether v is empty: false, zero, the empty string, nil, of
// length zero, or having an IsZero method that reports true.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
	case reflect.Slice, reflect.Map:
		if !v.Type().Implements(isZeroerType) {
			return v.Len() == 0
		}
	case reflect.Array:
		// The checker for byte arrays slices v, which requires an
		// addressable array.
		if !v.CanAddr() {
			cp := reflect.New(v.Type()).Elem()
			cp.Set(v)
			v = cp
		}
	}
	return zerochecker.Checker(v.Type())(v)
}

var isZeroerType = reflect.TypeFor[interface{ IsZero() bool }]()

// writeValue writes the encoding of v without a key. The entries of any map
// reached through v, other than by a struct field, are encoded with policy mp.
func (e *Encoder) writeValue(v reflect.Value, mp Policy) {
	if !v.IsValid() {
		e.w.Null()
		return
	}
	vt := v.Type()
	switch vt.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			e.w.Null()
			return
		}
	}

	if vt.Implements(valueType) {
		value.Write(e.w, v.Interface().(value.Value))
		return
	}
	if fe, ok := asInterface[FieldEncoder](v, fieldEncoderType); ok {
		if err := fe.EncodeFields(e); err != nil {
			panic(bindError{err})
		}
		return
	}
	if tm, ok := asInterface[encoding.TextMarshaler](v, textMarshalerType); ok {
		text, err := tm.MarshalText()
		if err != nil {
			panic(bindError{&Error{Err: ErrUnsupported, Detail: fmt.Sprintf("marshal %v: %v", vt, err)}})
		}
		e.w.StringValue(string(text))
		return
	}

	switch vt.Kind() {
	case reflect.Bool:
		e.w.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.w.Int64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.w.Uint64(v.Uint())
	case reflect.Float32:
		e.w.Float32(float32(v.Float()))
	case reflect.Float64:
		e.w.Float64(v.Float())
	case reflect.String:
		e.w.StringValue(v.String())

	case reflect.Pointer, reflect.Interface:
		e.writeValue(v.Elem(), mp)

	case reflect.Slice, reflect.Array:
		e.w.BeginArray()
		for i := range v.Len() {
			e.writeValue(v.Index(i), mp)
		}
		e.w.EndArray()

	case reflect.Map:
		e.writeMap(v, mp)

	case reflect.Struct:
		e.w.BeginObject()
		for _, f := range fieldsOf(vt) {
			e.encodeValue(memberKey(f.name), v.FieldByIndex(f.index), f.policy)
		}
		e.w.EndObject()

	default:
		panic(bindError{&Error{Err: ErrUnsupported, Detail: fmt.Sprintf("cannot encode %v", vt)}})
	}
}

// asInterface reports whether v or its address implements the interface
// type it, and if so returns the implementation.
func asInterface[I any](v reflect.Value, it reflect.Type) (I, bool) {
	if v.Type().Implements(it) {
		return v.Interface().(I), true
	} else if reflect.PointerTo(v.Type()).Implements(it) {
		if !v.CanAddr() {
			cp := reflect.New(v.Type())
			cp.Elem().Set(v)
			return cp.Interface().(I), true
		}
		return v.Addr().Interface().(I), true
	}
	var zero I
	return zero, false
}

// A mapEntry is one entry of a map being encoded.
type mapEntry struct {
	key  reflect.Value
	text string
	val  reflect.Value
}

func (e *Encoder) writeMap(v reflect.Value, mp Policy) {
	kt := v.Type().Key()
	format, err := mapKeyFormatter(kt)
	if err != nil {
		panic(bindError{&Error{Err: ErrUnsupported, Detail: err.Error()}})
	}
	entries := make([]mapEntry, 0, v.Len())
	for it := v.MapRange(); it.Next(); {
		text, err := format(it.Key())
		if err != nil {
			panic(bindError{&Error{Key: fmt.Sprint(it.Key()), Err: ErrUnsupported, Detail: err.Error()}})
		}
		entries = append(entries, mapEntry{key: it.Key(), text: text, val: it.Value()})
	}
	slices.SortFunc(entries, compareKeys)

	e.w.BeginObject()
	for _, ent := range entries {
		e.encodeValue(memberKey(ent.text), ent.val, mp)
	}
	e.w.EndObject()
}

// compareKeys orders integer map keys numerically, and all others by their
// formatted text.
func compareKeys(a, b mapEntry) int {
	switch a.key.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !a.key.Type().Implements(textMarshalerType) {
			return cmp.Compare(a.key.Int(), b.key.Int())
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !a.key.Type().Implements(textMarshalerType) {
			return cmp.Compare(a.key.Uint(), b.key.Uint())
		}
	}
	return cmp.Compare(a.text, b.text)
}

// mapKeyFormatter returns a function to format a map key of type kt as a
// document key, or an error if kt is not a supported key type.
func mapKeyFormatter(kt reflect.Type) (func(reflect.Value) (string, error), error) {
	if kt.Implements(textMarshalerType) {
		return func(v reflect.Value) (string, error) {
			text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
			return string(text), err
		}, nil
	}
	switch kt.Kind() {
	case reflect.String:
		return func(v reflect.Value) (string, error) { return v.String(), nil }, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v reflect.Value) (string, error) { return strconv.FormatInt(v.Int(), 10), nil }, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(v reflect.Value) (string, error) { return strconv.FormatUint(v.Uint(), 10), nil }, nil
	}
	return nil, fmt.Errorf("map key type %v is not supported", kt)
}
