// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/creachadair/jbind/value"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Msgpack is a Codec for MessagePack. Integers are written in the smallest
// encoding that holds them. Binary strings decode as base64 strings, and
// timestamps as RFC 3339 strings. Map keys must be strings.
type Msgpack struct{}

// Encode implements part of Codec.
func (Msgpack) Encode(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := encodeMsgpack(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, v value.Value) error {
	switch t := v.(type) {
	case nil, value.Null:
		return enc.EncodeNil()
	case value.Bool:
		return enc.EncodeBool(bool(t))
	case value.Int:
		return enc.EncodeInt(int64(t))
	case value.Uint:
		return enc.EncodeUint(uint64(t))
	case value.Float:
		return enc.EncodeFloat64(float64(t))
	case value.String:
		return enc.EncodeString(string(t))
	case value.Array:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, elt := range t {
			if err := encodeMsgpack(enc, elt); err != nil {
				return err
			}
		}
		return nil
	case *value.Object:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		for key, val := range t.All() {
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, val); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("msgpack: unknown value type %T", v)
	}
}

// Decode implements part of Codec.
func (Msgpack) Decode(data []byte) (value.Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r) // r is a ByteScanner, so dec does not buffer
	v, err := decodeMsgpack(dec)
	if err != nil {
		return nil, err
	} else if r.Len() != 0 {
		return nil, fmt.Errorf("msgpack: %d bytes of trailing data", r.Len())
	}
	return v, nil
}

func decodeMsgpack(dec *msgpack.Decoder) (value.Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		arr := make(value.Array, 0, min(n, 1024))
		for range n {
			elt, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elt)
		}
		return arr, nil

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := value.NewObject()
		for range n {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("msgpack: map key: %w", err)
			}
			val, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	}

	x, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	switch t := x.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(t), nil
	case int64:
		return value.Int(t), nil
	case uint64:
		return uintValue(t), nil
	case float64:
		return value.Float(t), nil
	case string:
		return value.String(t), nil
	case []byte:
		return value.String(base64.StdEncoding.EncodeToString(t)), nil
	case time.Time:
		return value.String(t.Format(time.RFC3339Nano)), nil
	}
	return nil, fmt.Errorf("msgpack: unsupported item of type %T", x)
}
