// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"math"

	"github.com/creachadair/jbind/value"
	"github.com/google/go-cmp/cmp"
)

// EquateValues is a cmp option that compares value trees with value.Equal.
var EquateValues = cmp.Comparer(func(a, b value.Value) bool { return value.Equal(a, b) })

// Mixed returns a new object with members of every kind, including the edge
// cases of each numeric kind. Its keys are not in sorted order.
func Mixed() *value.Object {
	return value.NewObject(
		value.Field("zulu", value.Int(-3)),
		value.Field("alpha", value.Uint(math.MaxUint64)),
		value.Field("mid", value.Int(200)),
		value.Field("min", value.Int(math.MinInt64)),
		value.Field("f", value.Float(2.5)),
		value.Field("g", value.Float(-0.125)),
		value.Field("s", value.String("")),
		value.Field("t", value.String("true")),
		value.Field("u", value.String("café ☃")),
		value.Field("b", value.Bool(false)),
		value.Field("n", value.Null{}),
		value.Field("arr", value.Array{value.Int(1), value.Array{}, value.NewObject()}),
		value.Field("obj", value.NewObject(value.Field("k", value.String("v")))),
	)
}
