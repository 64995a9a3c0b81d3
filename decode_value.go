// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/creachadair/jbind/value"
)

// A FieldDecoder is a type that decodes itself from the current node of a
// decoder, typically by calling the decode methods for each of its fields.
// When Decode reaches a value whose pointer implements FieldDecoder, it
// calls DecodeFields instead of decoding the value by reflection.
type FieldDecoder interface {
	DecodeFields(d *Decoder) error
}

var (
	fieldDecoderType    = reflect.TypeFor[FieldDecoder]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	valueType           = reflect.TypeFor[value.Value]()
)

// Decode decodes the node selected by key into dst, which must be a non-nil
// pointer. It reports whether *dst was written. Presence is handled as for
// the scalar decode methods; a present value is converted by the type of
// *dst:
//
//   - A FieldDecoder or encoding.TextUnmarshaler (via pointer) decodes itself.
//     A TextUnmarshaler requires a string.
//   - A value.Value receives the node itself, without copying.
//   - Booleans, integers, floats, and strings convert as for DecodeBool,
//     DecodeInt, DecodeFloat, and DecodeString.
//   - A slice requires an array; an array type requires an array with no
//     more elements than its length.
//   - A map requires an object; its keys must be strings, integers, or
//     implement encoding.TextUnmarshaler.
//   - A struct requires an object; its fields are decoded as described in
//     the package documentation.
//   - A pointer is allocated if nil, and its target decoded.
//   - An empty interface receives the result of value.ToAny.
//
// A null inside an array or object decodes as the zero value.
func (d *Decoder) Decode(key Key, dst any, p Policy) (bool, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, &Error{Path: d.Path(), Key: key.Text(), Err: ErrUnsupported,
			Detail: fmt.Sprintf("decode target %T is not a non-nil pointer", dst)}
	}
	return d.decodeValue(key, rv.Elem(), p)
}

// decodeValue applies the presence rules of p to the node selected by key,
// and decodes a present value into v.
func (d *Decoder) decodeValue(key Key, v reflect.Value, p Policy) (bool, error) {
	c, st, err := d.resolve(key, p)
	if err != nil {
		return false, err
	}
	switch st {
	case missing:
		return false, nil
	case null:
		if p.IgnoreNull {
			return false, nil
		}
		v.SetZero()
		return true, nil
	}
	if err := c.decodeInto(v); err != nil {
		return false, err
	}
	return true, nil
}

// decodeInto decodes the current node of d, which must be present, into v.
func (d *Decoder) decodeInto(v reflect.Value) error {
	if _, ok := d.node.(value.Null); ok {
		v.SetZero()
		return nil
	}
	vt := v.Type()
	if vt.Implements(valueType) {
		if reflect.TypeOf(d.node).AssignableTo(vt) {
			v.Set(reflect.ValueOf(d.node))
			return nil
		}
		return d.mismatch(vt)
	}
	if v.CanAddr() {
		pt := reflect.PointerTo(vt)
		if pt.Implements(fieldDecoderType) {
			return v.Addr().Interface().(FieldDecoder).DecodeFields(d)
		} else if pt.Implements(textUnmarshalerType) {
			s, ok := d.node.(value.String)
			if !ok {
				return d.mismatch(vt)
			}
			if err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return d.fail(ErrTypeMismatch, "%v", err)
			}
			return nil
		}
	}

	switch vt.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(vt.Elem()))
		}
		return d.decodeInto(v.Elem())

	case reflect.Bool:
		b, ok := convBool(d.node)
		if !ok {
			return d.mismatch(vt)
		}
		v.SetBool(b)

	case reflect.String:
		s, ok := convString(d.node)
		if !ok {
			return d.mismatch(vt)
		}
		v.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		z, ok := convInt[int64](d.node)
		if !ok || v.OverflowInt(z) {
			return d.mismatch(vt)
		}
		v.SetInt(z)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		z, ok := convInt[uint64](d.node)
		if !ok || v.OverflowUint(z) {
			return d.mismatch(vt)
		}
		v.SetUint(z)

	case reflect.Float32, reflect.Float64:
		f, ok := value.Number(d.node)
		if !ok || v.OverflowFloat(f) {
			return d.mismatch(vt)
		}
		v.SetFloat(f)

	case reflect.Interface:
		if vt.NumMethod() != 0 {
			return d.fail(ErrUnsupported, "cannot decode into %v", vt)
		}
		v.Set(reflect.ValueOf(value.ToAny(d.node)))

	case reflect.Slice:
		arr, ok := d.node.(value.Array)
		if !ok {
			return d.mismatch(vt)
		}
		s := reflect.MakeSlice(vt, len(arr), len(arr))
		for i, elt := range arr {
			sub := &Decoder{node: elt, parent: d, step: i}
			if err := sub.decodeInto(s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)

	case reflect.Array:
		arr, ok := d.node.(value.Array)
		if !ok {
			return d.mismatch(vt)
		} else if len(arr) > v.Len() {
			return d.fail(ErrOutOfRange, "%d elements do not fit in %v", len(arr), vt)
		}
		for i := range v.Len() {
			if i >= len(arr) {
				v.Index(i).SetZero()
				continue
			}
			sub := &Decoder{node: arr[i], parent: d, step: i}
			if err := sub.decodeInto(v.Index(i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		return d.decodeMap(v)

	case reflect.Struct:
		if _, ok := d.node.(*value.Object); !ok {
			return d.mismatch(vt)
		}
		for _, f := range fieldsOf(vt) {
			if _, err := d.decodeValue(Name(f.name), v.FieldByIndex(f.index), f.policy); err != nil {
				return err
			}
		}

	default:
		return d.fail(ErrUnsupported, "cannot decode into %v", vt)
	}
	return nil
}

func (d *Decoder) decodeMap(v reflect.Value) error {
	vt := v.Type()
	obj, ok := d.node.(*value.Object)
	if !ok {
		return d.mismatch(vt)
	}
	parseKey, err := mapKeyParser(vt.Key())
	if err != nil {
		return d.fail(ErrUnsupported, "%v", err)
	}
	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(vt, obj.Len()))
	}
	for key, val := range obj.All() {
		sub := &Decoder{node: val, parent: d, step: key}
		kv := reflect.New(vt.Key()).Elem()
		if err := parseKey(key, kv); err != nil {
			return sub.fail(ErrTypeMismatch, "invalid map key %q: %v", key, err)
		}
		ev := reflect.New(vt.Elem()).Elem()
		if err := sub.decodeInto(ev); err != nil {
			return err
		}
		v.SetMapIndex(kv, ev)
	}
	return nil
}

// mapKeyParser returns a function to parse a document key into a map key of
// type kt, or an error if kt is not a supported key type.
func mapKeyParser(kt reflect.Type) (func(string, reflect.Value) error, error) {
	if reflect.PointerTo(kt).Implements(textUnmarshalerType) {
		return func(s string, v reflect.Value) error {
			return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		}, nil
	}
	switch kt.Kind() {
	case reflect.String:
		return func(s string, v reflect.Value) error { v.SetString(s); return nil }, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string, v reflect.Value) error {
			z, err := strconv.ParseInt(s, 10, kt.Bits())
			if err != nil {
				return err
			}
			v.SetInt(z)
			return nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(s string, v reflect.Value) error {
			z, err := strconv.ParseUint(s, 10, kt.Bits())
			if err != nil {
				return err
			}
			v.SetUint(z)
			return nil
		}, nil
	}
	return nil, fmt.Errorf("map key type %v is not supported", kt)
}
