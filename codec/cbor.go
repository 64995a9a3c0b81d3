// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/creachadair/jbind/value"
	"github.com/fxamacker/cbor/v2"
)

// CBOR is a Codec for CBOR (RFC 8949). Encode writes arrays and maps with
// indefinite length so that members keep their order. Decode accepts
// definite and indefinite lengths; byte strings decode as base64 strings,
// timestamps as RFC 3339 strings, and bignums as floating-point numbers.
// Other tags are discarded, keeping their content. Map keys must be text
// strings, and items may be nested at most 32 deep.
type CBOR struct{}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.PreferredUnsortedEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		IntDec:       cbor.IntDecConvertNone,
		TimeTagToAny: cbor.TimeTagToTime,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode implements part of Codec.
func (CBOR) Encode(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := cborEnc.NewEncoder(&buf)
	if err := encodeCBOR(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCBOR(enc *cbor.Encoder, v value.Value) error {
	switch t := v.(type) {
	case nil, value.Null:
		return enc.Encode(nil)
	case value.Bool:
		return enc.Encode(bool(t))
	case value.Int:
		return enc.Encode(int64(t))
	case value.Uint:
		return enc.Encode(uint64(t))
	case value.Float:
		return enc.Encode(float64(t))
	case value.String:
		return enc.Encode(string(t))
	case value.Array:
		if err := enc.StartIndefiniteArray(); err != nil {
			return err
		}
		for _, elt := range t {
			if err := encodeCBOR(enc, elt); err != nil {
				return err
			}
		}
		return enc.EndIndefinite()
	case *value.Object:
		if err := enc.StartIndefiniteMap(); err != nil {
			return err
		}
		for key, val := range t.All() {
			if err := enc.Encode(key); err != nil {
				return err
			}
			if err := encodeCBOR(enc, val); err != nil {
				return err
			}
		}
		return enc.EndIndefinite()
	default:
		return fmt.Errorf("cbor: unknown value type %T", v)
	}
}

// Decode implements part of Codec.
func (CBOR) Decode(data []byte) (value.Value, error) {
	v, rest, err := decodeCBOR(data, 0)
	if err != nil {
		return nil, err
	} else if len(rest) != 0 {
		return nil, fmt.Errorf("cbor: %d bytes of trailing data", len(rest))
	}
	return v, nil
}

const (
	cborArray = 4
	cborMap   = 5
	cborTag   = 6
	cborBreak = 0xff

	// Matches the default MaxNestedLevels of the library decoder.
	cborMaxDepth = 32
)

// decodeCBOR decodes the first item of data, and returns the remainder.
// Arrays and maps, and tags enclosing them, are traversed here to keep their
// order; all other items are delegated to the library decoder.
func decodeCBOR(data []byte, depth int) (value.Value, []byte, error) {
	if len(data) == 0 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	major := data[0] >> 5
	switch major {
	case cborArray, cborMap, cborTag:
		if depth >= cborMaxDepth {
			return nil, nil, fmt.Errorf("cbor: exceeded max nesting level %d", cborMaxDepth)
		}
	}
	switch major {
	case cborTag:
		_, body, err := cborArg(data)
		if err != nil {
			return nil, nil, err
		} else if len(body) == 0 {
			return nil, nil, io.ErrUnexpectedEOF
		}
		switch body[0] >> 5 {
		case cborArray, cborMap, cborTag:
			return decodeCBOR(body, depth+1)
		}

	case cborArray:
		n, rest, err := cborHead(data)
		if err != nil {
			return nil, nil, err
		}
		arr := value.Array{}
		for i := 0; n < 0 || i < n; i++ {
			if n < 0 {
				if len(rest) == 0 {
					return nil, nil, io.ErrUnexpectedEOF
				} else if rest[0] == cborBreak {
					rest = rest[1:]
					break
				}
			}
			var elt value.Value
			elt, rest, err = decodeCBOR(rest, depth+1)
			if err != nil {
				return nil, nil, err
			}
			arr = append(arr, elt)
		}
		return arr, rest, nil

	case cborMap:
		n, rest, err := cborHead(data)
		if err != nil {
			return nil, nil, err
		}
		obj := value.NewObject()
		for i := 0; n < 0 || i < n; i++ {
			if n < 0 {
				if len(rest) == 0 {
					return nil, nil, io.ErrUnexpectedEOF
				} else if rest[0] == cborBreak {
					rest = rest[1:]
					break
				}
			}
			var key string
			rest, err = cborDec.UnmarshalFirst(rest, &key)
			if err != nil {
				return nil, nil, fmt.Errorf("cbor: map key: %w", err)
			}
			var val value.Value
			val, rest, err = decodeCBOR(rest, depth+1)
			if err != nil {
				return nil, nil, err
			}
			obj.Set(key, val)
		}
		return obj, rest, nil
	}

	var x any
	rest, err := cborDec.UnmarshalFirst(data, &x)
	if err != nil {
		return nil, nil, err
	}
	v, err := fromCBOR(x)
	return v, rest, err
}

// cborHead decodes the length from the head of an array or map item. It
// returns -1 for an indefinite length.
func cborHead(data []byte) (int, []byte, error) {
	if data[0]&0x1f == 31 {
		return -1, data[1:], nil
	}
	n, rest, err := cborArg(data)
	if err != nil {
		return 0, nil, err
	}

	// Each element occupies at least one byte.
	if n > uint64(len(rest)) {
		return 0, nil, errors.New("cbor: length exceeds input")
	}
	return int(n), rest, nil
}

// cborArg decodes the argument from the head of a definite-length item, and
// returns the remainder following the head.
func cborArg(data []byte) (uint64, []byte, error) {
	info, rest := data[0]&0x1f, data[1:]
	var size int
	switch {
	case info < 24:
		return uint64(info), rest, nil
	case info == 24:
		size = 1
	case info == 25:
		size = 2
	case info == 26:
		size = 4
	case info == 27:
		size = 8
	default:
		return 0, nil, fmt.Errorf("cbor: invalid length encoding %d", info)
	}
	if len(rest) < size {
		return 0, nil, io.ErrUnexpectedEOF
	}
	var buf [8]byte
	copy(buf[8-size:], rest[:size])
	return binary.BigEndian.Uint64(buf[:]), rest[size:], nil
}

func fromCBOR(x any) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(t), nil
	case uint64:
		return uintValue(t), nil
	case int64:
		return value.Int(t), nil
	case float64:
		return value.Float(t), nil
	case string:
		return value.String(t), nil
	case []byte:
		return value.String(base64.StdEncoding.EncodeToString(t)), nil
	case time.Time:
		return value.String(t.Format(time.RFC3339Nano)), nil
	case big.Int:
		f, _ := new(big.Float).SetInt(&t).Float64()
		return value.Float(f), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(t).Float64()
		return value.Float(f), nil
	case cbor.Tag:
		return fromCBOR(t.Content)
	default:
		return nil, fmt.Errorf("cbor: unsupported item of type %T", x)
	}
}
