package node

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse decodes a JSON document into a Node tree, preserving object key
// order and the original textual form of numbers (so re-marshalling an
// unmodified document is byte-stable for number formatting).
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeValue(dec)
	if err != nil {
		return nil, errors.Wrap(err, "parse json")
	}
	return n, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Node, error) {
	return Parse([]byte(s))
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.Errorf("unexpected delimiter %q", v)
	case bool:
		return NewBool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "number %q", v.String())
		}
		return NewNumberRepr(f, v.String()), nil
	case string:
		return NewText(v), nil
	case nil:
		return NewNull(), nil
	}
	return nil, errors.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (*Node, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (*Node, error) {
	arr := NewArray()
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(val)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// Marshal renders a Node tree as compact JSON text.
func Marshal(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if n.boolv {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(formatNumber(n))
	case Text:
		writeJSONString(b, n.textv)
	case Array:
		b.WriteByte('[')
		for i, e := range n.arrv {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, e)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, m := range n.objv {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, m.Key)
			b.WriteByte(':')
			writeNode(b, m.Value)
		}
		b.WriteByte('}')
	}
}

func writeJSONString(b *strings.Builder, s string) {
	raw, _ := json.Marshal(s)
	b.Write(raw)
}

// FromMapOfText builds an object node from a name->text mapping, as used by
// the string-based dataset registry constructor.
func FromMapOfText(m map[string]string) *Node {
	obj := NewObject()
	for k, v := range m {
		obj.Set(k, NewText(v))
	}
	return obj
}

// FromMapOfInt builds an object node from a name->int mapping.
func FromMapOfInt(m map[string]int64) *Node {
	obj := NewObject()
	for k, v := range m {
		obj.Set(k, NewNumberRepr(float64(v), strconv.FormatInt(v, 10)))
	}
	return obj
}
