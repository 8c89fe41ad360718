package formwire

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the value variants that appear in the embedded form
// blob. The blob is a schema-less tree of JSON arrays whose meaning is
// carried entirely by position, so every consumer goes through Node instead
// of raw interface{} casts.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindList
)

// Node is one value in the positional tree.
type Node struct {
	kind Kind
	num  float64
	text string
	list []Node
}

// DecodeBlob parses the raw JSON blob extracted from the form page into a
// Node tree. Booleans and objects never appear in the wire format; if one
// does, decoding fails rather than guessing.
func DecodeBlob(data []byte) (Node, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Node{}, fmt.Errorf("decode form blob: %w", err)
	}
	return fromValue(raw)
}

func fromValue(v interface{}) (Node, error) {
	switch val := v.(type) {
	case nil:
		return Node{}, nil
	case float64:
		return Node{kind: KindNumber, num: val}, nil
	case string:
		return Node{kind: KindText, text: val}, nil
	case []interface{}:
		list := make([]Node, len(val))
		for i, item := range val {
			node, err := fromValue(item)
			if err != nil {
				return Node{}, err
			}
			list[i] = node
		}
		return Node{kind: KindList, list: list}, nil
	default:
		return Node{}, fmt.Errorf("unexpected value of type %T in form blob", v)
	}
}

// Null reports whether the node is absent or JSON null.
func (n Node) Null() bool { return n.kind == KindNull }

// IsList reports whether the node is an ordered list.
func (n Node) IsList() bool { return n.kind == KindList }

// Len returns the list length, or 0 for non-lists.
func (n Node) Len() int {
	if n.kind != KindList {
		return 0
	}
	return len(n.list)
}

// Index returns the i-th element of a list node. Out-of-range indices and
// non-list nodes yield a null node, never a panic: the wire format omits
// trailing slots freely.
func (n Node) Index(i int) Node {
	if n.kind != KindList || i < 0 || i >= len(n.list) {
		return Node{}
	}
	return n.list[i]
}

// Number returns the numeric value, if the node holds one.
func (n Node) Number() (float64, bool) {
	if n.kind != KindNumber {
		return 0, false
	}
	return n.num, true
}

// Int returns the node's value as an integer.
func (n Node) Int() (int64, bool) {
	f, ok := n.Number()
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Text returns the string value, if the node holds one.
func (n Node) Text() (string, bool) {
	if n.kind != KindText {
		return "", false
	}
	return n.text, true
}

// Stringify renders numbers and strings the way the form platform does when
// labels are reused as submission values. Integral floats drop the decimal
// point. Null and lists stringify to "".
func (n Node) Stringify() string {
	switch n.kind {
	case KindText:
		return n.text
	case KindNumber:
		if n.num == float64(int64(n.num)) {
			return strconv.FormatInt(int64(n.num), 10)
		}
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	default:
		return ""
	}
}

// List constructs a list node. Used by tests to build fixtures without going
// through JSON.
func List(items ...Node) Node { return Node{kind: KindList, list: items} }

// Num constructs a number node.
func Num(v float64) Node { return Node{kind: KindNumber, num: v} }

// Str constructs a text node.
func Str(s string) Node { return Node{kind: KindText, text: s} }

// Null node constructor, for explicit fixture slots.
func NullNode() Node { return Node{} }
