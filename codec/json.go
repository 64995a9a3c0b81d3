// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package codec

import (
	"github.com/creachadair/jbind/syntax"
	"github.com/creachadair/jbind/value"
	"github.com/tailscale/hujson"
)

// JSON is a Codec for JSON text.
type JSON struct {
	// If Indent > 0, output is indented by this many spaces per level.
	// Otherwise it is compact.
	Indent int

	// Options control the grammar accepted by Decode. NaN and infinite
	// values are written only if Options.AllowNaNInf is set.
	Options value.ParseOptions
}

// Encode implements part of Codec.
func (c JSON) Encode(v value.Value) ([]byte, error) {
	layout := syntax.Compact
	if c.Indent > 0 {
		layout = syntax.Indent(' ', c.Indent)
	}
	w := syntax.NewWriter(layout)
	w.AllowNaNInf(c.Options.AllowNaNInf)
	value.Write(w, v)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements part of Codec.
func (c JSON) Decode(data []byte) (value.Value, error) {
	doc, err := value.Parse(data, &c.Options)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// JWCC is a Codec for JSON With Commas and Comments. Decode accepts comments
// and trailing commas. Encode writes standard JSON laid out in the
// canonical JWCC format.
type JWCC struct{}

// Encode implements part of Codec.
func (JWCC) Encode(v value.Value) ([]byte, error) {
	text, err := JSON{}.Encode(v)
	if err != nil {
		return nil, err
	}
	return hujson.Format(text)
}

// Decode implements part of Codec.
func (JWCC) Decode(data []byte) (value.Value, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	return JSON{}.Decode(std)
}

// Reformat lays out JWCC text in the canonical format, preserving its
// comments.
func Reformat(data []byte) ([]byte, error) { return hujson.Format(data) }
