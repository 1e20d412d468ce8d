// Package xmldom provides the order- and comment-preserving in-memory XML
// tree the binding engines operate on. Names are kept raw (prefix included);
// namespace resolution happens above this layer.
package xmldom

import "strings"

// Kind discriminates node variants.
type Kind int

const (
	// KindElement is a named element node.
	KindElement Kind = iota
	// KindComment is a comment node. Comments are first-class ordered
	// siblings so their position survives re-serialization.
	KindComment
)

// Attr is a single attribute with its raw (possibly prefixed) name.
// Attribute order is preserved as parsed.
type Attr struct {
	Name  string
	Value string
}

// Node is an element or comment in the parsed tree. For elements, Children
// holds element and comment nodes in document order and Text holds the
// element's character data with surrounding whitespace trimmed. For comments,
// Text holds the comment body and the remaining fields are unused.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Document is a parsed XML document. LeadingComments are the comments that
// appeared before the root element, in order.
type Document struct {
	Root            *Node
	HasDeclaration  bool
	LeadingComments []string
}

// NewElement returns an element node with the given raw name.
func NewElement(name string) *Node {
	return &Node{Kind: KindElement, Name: name}
}

// NewComment returns a comment node.
func NewComment(text string) *Node {
	return &Node{Kind: KindComment, Text: text}
}

// SetAttr appends an attribute, replacing an existing attribute of the same
// name in place.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds a child node.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// Elements returns the element children in document order.
// The returned slice is freshly allocated and safe to retain.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// LocalName returns the local part of a raw, possibly prefixed name.
func LocalName(raw string) string {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// SplitName splits a raw name into its prefix and local parts. An unprefixed
// name yields an empty prefix.
func SplitName(raw string) (prefix, local string) {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}
