package xmldom

import "strings"

const indentUnit = "  "

// Serialize renders the document as pretty-printed XML: two-space
// indentation, one element per line, self-closing tags for empty elements.
// Comment nodes are rendered in place, which keeps their captured positions
// without any post-processing of the serialized text.
func Serialize(doc *Document) string {
	var b strings.Builder
	if doc.HasDeclaration {
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		b.WriteByte('\n')
	}
	for _, c := range doc.LeadingComments {
		writeComment(&b, c, "")
	}
	if doc.Root != nil {
		writeNode(&b, doc.Root, "")
	}
	return b.String()
}

// SerializeNode renders a single element subtree.
func SerializeNode(n *Node) string {
	var b strings.Builder
	writeNode(&b, n, "")
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, indent string) {
	if n.Kind == KindComment {
		writeComment(b, n.Text, indent)
		return
	}

	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}

	switch {
	case len(n.Children) == 0 && n.Text == "":
		b.WriteString("/>\n")
	case len(n.Children) == 0:
		b.WriteByte('>')
		b.WriteString(escapeText(n.Text))
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteString(">\n")
	default:
		b.WriteString(">\n")
		child := indent + indentUnit
		for _, c := range n.Children {
			writeNode(b, c, child)
		}
		if n.Text != "" {
			b.WriteString(child)
			b.WriteString(escapeText(n.Text))
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteString(">\n")
	}
}

func writeComment(b *strings.Builder, text, indent string) {
	b.WriteString(indent)
	b.WriteString("<!--")
	b.WriteString(sanitizeComment(text))
	b.WriteString("-->\n")
}

// sanitizeComment breaks up text that would make the comment ill-formed: a
// double hyphen is forbidden anywhere inside a comment, and the body must not
// end with a hyphen.
func sanitizeComment(text string) string {
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "- -")
	}
	if strings.HasSuffix(text, "-") {
		text += " "
	}
	return text
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
