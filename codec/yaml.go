// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jbind/syntax"
	"github.com/creachadair/jbind/value"
	"gopkg.in/yaml.v3"
)

// YAML is a Codec for YAML documents. Decode accepts a single document whose
// mapping keys are scalars; aliases are expanded. Scalars are typed by their
// resolved tag, and scalars of other tags such as timestamps decode as
// strings.
type YAML struct{}

// Encode implements part of Codec.
func (YAML) Encode(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode implements part of Codec.
func (YAML) Decode(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	} else if doc.Kind == 0 {
		return nil, errors.New("yaml: empty document")
	}
	return fromYAML(&doc)
}

func toYAML(v value.Value) *yaml.Node {
	scalar := func(tag, text string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	}
	switch t := v.(type) {
	case nil, value.Null:
		return scalar("!!null", "null")
	case value.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(t)))
	case value.Int:
		return scalar("!!int", strconv.FormatInt(int64(t), 10))
	case value.Uint:
		return scalar("!!int", strconv.FormatUint(uint64(t), 10))
	case value.Float:
		f := float64(t)
		switch {
		case math.IsNaN(f):
			return scalar("!!float", ".nan")
		case math.IsInf(f, 1):
			return scalar("!!float", ".inf")
		case math.IsInf(f, -1):
			return scalar("!!float", "-.inf")
		}
		return scalar("!!float", string(syntax.AppendFloat(nil, f, 64, -1)))
	case value.String:
		return scalar("!!str", string(t))
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elt := range t {
			n.Content = append(n.Content, toYAML(elt))
		}
		return n
	case *value.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, val := range t.All() {
			n.Content = append(n.Content, scalar("!!str", key), toYAML(val))
		}
		return n
	default:
		panic(fmt.Sprintf("codec: unknown value type %T", v))
	}
}

func fromYAML(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("yaml: line %d: document has %d nodes", n.Line, len(n.Content))
		}
		return fromYAML(n.Content[0])

	case yaml.AliasNode:
		return fromYAML(n.Alias)

	case yaml.SequenceNode:
		arr := make(value.Array, len(n.Content))
		for i, elt := range n.Content {
			v, err := fromYAML(elt)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil

	case yaml.MappingNode:
		obj := value.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind == yaml.AliasNode {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml: line %d: mapping key is not a scalar", key.Line)
			}
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, fmt.Errorf("yaml: line %d: unexpected node kind %v", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var z int64
		if err := n.Decode(&z); err == nil {
			return value.Int(z), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return uintValue(u), nil
		}
		fallthrough
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	}
	return value.String(n.Value), nil
}
