// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import "strings"

// A Policy controls how a single field is decoded and encoded. The zero
// Policy is the default: a missing field is not an error, null decodes as
// the zero value, and empty values are written as-is.
//
// All combinations of flags are valid.
type Policy struct {
	// Mandatory makes a missing key a decoding error.
	Mandatory bool

	// OmitEmpty suppresses encoding a field whose value is empty.
	OmitEmpty bool

	// EmptyAsNull encodes an empty value as null, unless OmitEmpty is set.
	EmptyAsNull bool

	// IgnoreNull leaves the target of a decode unchanged if the value is null.
	IgnoreNull bool
}

// Names of the policy flags as they appear in struct tags.
const (
	tagMandatory   = "mandatory"
	tagOmitEmpty   = "omitempty"
	tagEmptyAsNull = "emptynull"
	tagIgnoreNull  = "ignorenull"
)

// entries returns the policy applied to the values of a map encoded under p.
func (p Policy) entries() Policy {
	return Policy{OmitEmpty: p.OmitEmpty, EmptyAsNull: p.EmptyAsNull}
}

// String renders the flags set in p as a comma-separated list in struct tag
// form, for example "mandatory,omitempty".
func (p Policy) String() string {
	var flags []string
	if p.Mandatory {
		flags = append(flags, tagMandatory)
	}
	if p.OmitEmpty {
		flags = append(flags, tagOmitEmpty)
	}
	if p.EmptyAsNull {
		flags = append(flags, tagEmptyAsNull)
	}
	if p.IgnoreNull {
		flags = append(flags, tagIgnoreNull)
	}
	return strings.Join(flags, ",")
}
