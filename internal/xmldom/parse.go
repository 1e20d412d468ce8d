package xmldom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse builds a Document from XML input. Raw tokenization is used so that
// prefixes and xmlns declarations survive untouched; well-formedness of
// element nesting is checked here since raw tokens bypass the decoder's own
// check.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}

	var stack []*Node
	var texts []*strings.Builder

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml read: %w", err)
		}

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" && len(stack) == 0 && doc.Root == nil {
				doc.HasDeclaration = true
			}
		case xml.Directive:
			// DOCTYPE and friends carry no binding information.
		case xml.Comment:
			text := string(t)
			if len(stack) == 0 {
				if doc.Root == nil {
					doc.LeadingComments = append(doc.LeadingComments, text)
				}
				continue
			}
			top := stack[len(stack)-1]
			top.Append(NewComment(text))
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			texts[len(texts)-1].Write(t)
		case xml.StartElement:
			if len(stack) == 0 && doc.Root != nil {
				return nil, fmt.Errorf("xml read: multiple root elements")
			}
			n := NewElement(rawName(t.Name))
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: rawName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				doc.Root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xml read: unexpected end element </%s>", rawName(t.Name))
			}
			top := stack[len(stack)-1]
			if got := rawName(t.Name); got != top.Name {
				return nil, fmt.Errorf("xml read: element <%s> closed by </%s>", top.Name, got)
			}
			top.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("xml read: unclosed element <%s>", stack[len(stack)-1].Name)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("xml read: no root element")
	}
	return doc, nil
}

// ParseBytes builds a Document from an in-memory XML document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
