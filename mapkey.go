// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"cmp"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// A KeyCodec converts between map keys of type K and document keys.
type KeyCodec[K any] interface {
	// FormatKey returns the document key for k.
	FormatKey(k K) string

	// ParseKey returns the map key denoted by s, or an error if s is not a
	// valid key.
	ParseKey(s string) (K, error)
}

// KeyFuncs implements KeyCodec with a pair of functions.
type KeyFuncs[K any] struct {
	Format func(K) string
	Parse  func(string) (K, error)
}

// FormatKey implements part of KeyCodec.
func (f KeyFuncs[K]) FormatKey(k K) string { return f.Format(k) }

// ParseKey implements part of KeyCodec.
func (f KeyFuncs[K]) ParseKey(s string) (K, error) { return f.Parse(s) }

// IntKeys returns a KeyCodec for integer keys in decimal notation.
func IntKeys[K Integer]() KeyCodec[K] {
	bits := reflect.TypeFor[K]().Bits()
	if K(0)-1 < 0 {
		return KeyFuncs[K]{
			Format: func(k K) string { return strconv.FormatInt(int64(k), 10) },
			Parse: func(s string) (K, error) {
				z, err := strconv.ParseInt(s, 10, bits)
				return K(z), err
			},
		}
	}
	return KeyFuncs[K]{
		Format: func(k K) string { return strconv.FormatUint(uint64(k), 10) },
		Parse: func(s string) (K, error) {
			z, err := strconv.ParseUint(s, 10, bits)
			return K(z), err
		},
	}
}

// StringKeys returns a KeyCodec for keys whose underlying type is string.
// Every document key is valid.
func StringKeys[K ~string]() KeyCodec[K] {
	return KeyFuncs[K]{
		Format: func(k K) string { return string(k) },
		Parse:  func(s string) (K, error) { return K(s), nil },
	}
}

// EnumKeys returns a KeyCodec for a closed set of keys, each written as the
// corresponding name. Formatting a key not in names panics, and parsing a
// string that is not one of the names fails. The names must be distinct.
// EncodeMap reports an unknown key as an error rather than panicking.
func EnumKeys[K comparable](names map[K]string) KeyCodec[K] {
	rev := make(map[string]K, len(names))
	for k, name := range names {
		rev[name] = k
	}
	return KeyFuncs[K]{
		Format: func(k K) string {
			name, ok := names[k]
			if !ok {
				panic(fmt.Sprintf("jbind: unknown enumerated key %v", k))
			}
			return name
		},
		Parse: func(s string) (K, error) {
			k, ok := rev[s]
			if !ok {
				return k, fmt.Errorf("unknown key %q", s)
			}
			return k, nil
		},
	}
}

// EncodeMap writes m as an object under key in e, with members in order by
// key. Each key is formatted by kc, and each value is written as by Encode
// with the OmitEmpty and EmptyAsNull flags of p. An empty or nil map is
// itself empty. It reports whether anything was written.
//
// If kc panics while formatting a key, EncodeMap records an error wrapping
// ErrUnsupported in e and writes nothing further.
func EncodeMap[K cmp.Ordered, V any](e *Encoder, key Key, m map[K]V, kc KeyCodec[K], p Policy) (bool, error) {
	if err := e.Err(); err != nil {
		return false, err
	}
	if len(m) == 0 {
		if p.OmitEmpty {
			return false, nil
		} else if p.EmptyAsNull || m == nil {
			return e.EncodeNull(key, Policy{})
		}
	}
	keys := slices.Sorted(maps.Keys(m))
	names := make([]string, len(keys))
	for i, k := range keys {
		name, err := formatKey(kc, k)
		if err != nil {
			e.setError(err)
			return false, e.Err()
		}
		names[i] = name
	}

	vp := p.entries()
	if err := e.ObjectBegin(key); err != nil {
		return false, err
	}
	for i, k := range keys {
		if _, err := e.Encode(memberKey(names[i]), m[k], vp); err != nil {
			return false, err
		}
	}
	if err := e.ObjectEnd(); err != nil {
		return false, err
	}
	return true, nil
}

// formatKey calls kc.FormatKey, reporting a panic as an error.
func formatKey[K any](kc KeyCodec[K], k K) (name string, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = &Error{Key: fmt.Sprint(k), Err: ErrUnsupported, Detail: fmt.Sprint(x)}
		}
	}()
	return kc.FormatKey(k), nil
}

// DecodeMap decodes the object selected by key in d into *dst, converting
// each member key with kc and decoding each value as by Decode. If *dst is
// nil, a new map is allocated; otherwise entries are added to the existing
// map. Presence is handled as for Decode. It reports whether *dst was
// written.
func DecodeMap[K comparable, V any](d *Decoder, key Key, dst *map[K]V, kc KeyCodec[K], p Policy) (bool, error) {
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
		*dst = nil
		return true, nil
	}
	it, err := c.Iter()
	if err != nil {
		return false, err
	}
	if *dst == nil {
		*dst = make(map[K]V)
	}
	for it.Next() {
		k, err := kc.ParseKey(it.Key())
		if err != nil {
			return false, it.Value().fail(ErrTypeMismatch, "invalid map key %q: %v", it.Key(), err)
		}
		var v V
		if _, err := it.Value().Decode(Self, &v, Policy{}); err != nil {
			return false, err
		}
		(*dst)[k] = v
	}
	return true, nil
}
