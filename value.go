package xmlbind

import (
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/jacoelho/xmlbind/internal/xmldom"
)

// Attr is one attribute of a dynamic Value, order preserved.
type Attr struct {
	Name  string
	Value string
}

// Value is the dynamic representation used for untyped ("any") slots: a
// wildcard field captures one Value per unbound element occurrence, and the
// same shape is re-emitted verbatim on marshal. A Value with an empty Name
// has no element to be emitted under and is dropped by the marshal engine.
type Value struct {
	Name     string
	Attrs    []Attr
	Children []*Value
	Text     string
}

var valueType = reflect.TypeOf(Value{})

// Attr returns the named attribute's value and whether it is present.
func (v *Value) Attr(name string) (string, bool) {
	for _, a := range v.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child element with the given raw name, or nil.
func (v *Value) Child(name string) *Value {
	for _, c := range v.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ParseValue parses an XML document into its dynamic form. No registered
// metadata is consulted, so any well-formed document can be inspected.
func ParseValue(data []byte) (*Value, error) {
	doc, err := xmldom.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	v := valueFromNode(doc.Root)
	return &v, nil
}

// valueFromNode converts a parsed element subtree into its dynamic form.
// Namespace declarations stay in Attrs so the subtree re-emits verbatim.
func valueFromNode(n *xmldom.Node) Value {
	v := Value{Name: n.Name, Text: n.Text}
	for _, a := range n.Attrs {
		v.Attrs = append(v.Attrs, Attr{Name: a.Name, Value: a.Value})
	}
	for _, c := range n.Children {
		if c.Kind != xmldom.KindElement {
			continue
		}
		child := valueFromNode(c)
		v.Children = append(v.Children, &child)
	}
	return v
}

// valueToNode converts a dynamic value back into a tree node, or nil when the
// value has no name to emit it under.
func valueToNode(v *Value) *xmldom.Node {
	if v == nil || v.Name == "" {
		return nil
	}
	n := xmldom.NewElement(v.Name)
	n.Text = v.Text
	for _, a := range v.Attrs {
		n.Attrs = append(n.Attrs, xmldom.Attr{Name: a.Name, Value: a.Value})
	}
	for _, c := range v.Children {
		if cn := valueToNode(c); cn != nil {
			n.Append(cn)
		}
	}
	return n
}

type jsonValue struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*Value          `json:"children,omitempty"`
	Text       string            `json:"text,omitempty"`
}

// MarshalJSON renders the value as JSON. An unnamed pure text value
// collapses to a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Name == "" && len(v.Attrs) == 0 && len(v.Children) == 0 {
		return json.Marshal(v.Text)
	}
	out := jsonValue{Name: v.Name, Children: v.Children, Text: v.Text}
	if len(v.Attrs) > 0 {
		out.Attributes = make(map[string]string, len(v.Attrs))
		for _, a := range v.Attrs {
			out.Attributes[a.Name] = a.Value
		}
	}
	return json.Marshal(out)
}
