// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package codec converts value trees to and from serialized formats.
//
// Every codec preserves the order of object members in both directions, and
// the distinction between signed integers, unsigned integers, and
// floating-point numbers where the format makes one.
package codec

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/creachadair/jbind/value"
)

// A Codec encodes value trees to bytes and decodes them back.
type Codec interface {
	// Encode returns the encoding of v.
	Encode(v value.Value) ([]byte, error)

	// Decode decodes data, which must contain exactly one value.
	Decode(data []byte) (value.Value, error)
}

var registry = map[string]Codec{
	"json":    JSON{},
	"jwcc":    JWCC{},
	"yaml":    YAML{},
	"cbor":    CBOR{},
	"msgpack": Msgpack{},
}

// Lookup returns the codec with the given name.
func Lookup(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the names of the known codecs, in sorted order.
func Names() []string { return slices.Sorted(maps.Keys(registry)) }

// uintValue returns u as an Int if it is in range, otherwise as a Uint.
func uintValue(u uint64) value.Value {
	if u <= math.MaxInt64 {
		return value.Int(u)
	}
	return value.Uint(u)
}
