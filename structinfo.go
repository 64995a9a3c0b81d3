// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"reflect"
	"slices"
	"sync"

	"github.com/vmihailenco/tagparser"
)

// tagName is the struct tag key consulted by the binder.
const tagName = "jbind"

// A fieldInfo describes one bound field of a struct type.
type fieldInfo struct {
	name   string // document key
	index  []int  // reflect index path from the outer struct
	policy Policy
}

// fieldCache maps reflect.Type to []fieldInfo.
var fieldCache sync.Map

// fieldsOf returns the bound fields of struct type t, in declaration order.
// Fields of exported embedded structs (not pointers) are promoted into the
// field list of the outer struct, unless the embedded field has a tag name.
//
// If the same name occurs more than once, the shallowest field wins, and the
// earliest among fields of equal depth.
func fieldsOf(t reflect.Type) []fieldInfo {
	if v, ok := fieldCache.Load(t); ok {
		return v.([]fieldInfo)
	}
	fs := appendFields(nil, t, nil)
	slices.SortStableFunc(fs, func(a, b fieldInfo) int { return len(a.index) - len(b.index) })

	seen := make(map[string]bool)
	var out []fieldInfo
	for _, f := range fs {
		if !seen[f.name] {
			seen[f.name] = true
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b fieldInfo) int { return slices.Compare(a.index, b.index) })

	v, _ := fieldCache.LoadOrStore(t, out)
	return v.([]fieldInfo)
}

func appendFields(fs []fieldInfo, t reflect.Type, index []int) []fieldInfo {
	for i := range t.NumField() {
		f := t.Field(i)
		tag, hasTag := f.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		var name string
		var p Policy
		if hasTag {
			tp := tagparser.Parse(tag)
			name = tp.Name
			p = Policy{
				Mandatory:   tp.HasOption(tagMandatory),
				OmitEmpty:   tp.HasOption(tagOmitEmpty),
				EmptyAsNull: tp.HasOption(tagEmptyAsNull),
				IgnoreNull:  tp.HasOption(tagIgnoreNull),
			}
		}
		fi := append(index[:len(index):len(index)], i)

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct && f.IsExported() {
			fs = appendFields(fs, f.Type, fi)
			continue
		} else if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fs = append(fs, fieldInfo{name: name, index: fi, policy: p})
	}
	return fs
}
