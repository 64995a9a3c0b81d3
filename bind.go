// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind

import "github.com/creachadair/jbind/value"

// Marshal encodes v as a JSON value by reflection, as described by
// Encoder.Encode. If opts == nil, the output is compact.
func Marshal(v any, opts *EncodeOptions) ([]byte, error) {
	e := NewEncoder(opts)
	if _, err := e.Encode(Self, v, Policy{}); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal parses data as a single JSON value and decodes it into v, which
// must be a non-nil pointer, as described by Decoder.Decode.
func Unmarshal(data []byte, v any, opts *ParseOptions) error {
	d, err := NewDecoder(data, opts)
	if err != nil {
		return err
	}
	_, err = d.Decode(Self, v, Policy{})
	return err
}

// ToValue converts v to a value tree by encoding it and parsing the result.
func ToValue(v any) (value.Value, error) {
	e := NewEncoder(&EncodeOptions{AllowNaNInf: true})
	if _, err := e.Encode(Self, v, Policy{}); err != nil {
		return nil, err
	}
	doc, err := value.Parse(e.Bytes(), &value.ParseOptions{AllowNaNInf: true})
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// FromValue decodes the value tree v into dst, which must be a non-nil
// pointer. The tree is not copied, so dst may share nodes with v if it
// contains value.Value fields.
func FromValue(v value.Value, dst any) error {
	_, err := DecoderFor(v).Decode(Self, dst, Policy{})
	return err
}
