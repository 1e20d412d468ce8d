package xsdgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacoelho/xmlbind/internal/xmldom"
	"github.com/jacoelho/xmlbind/internal/xmlns"
)

// parseSchemaFile reads one schema document and returns its model plus the
// schemaLocation values of xs:include and xs:import directives, resolved
// against the file's directory. Resolution is local filesystem only.
func parseSchemaFile(path string) (*schemaDoc, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	doc, err := xmldom.ParseBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse schema %s: %w", path, err)
	}

	scope := xmlns.Collect(doc.Root, nil)
	if !isXSD(doc.Root, scope, "schema") {
		return nil, nil, fmt.Errorf("parse schema %s: root element %q is not an XML Schema document", path, doc.Root.Name)
	}

	s := newSchemaDoc()
	s.TargetNamespace, _ = doc.Root.Attr("targetNamespace")
	if form, ok := doc.Root.Attr("elementFormDefault"); ok && form == "qualified" {
		s.ElementFormQualified = true
	}
	for prefix, uri := range xmlns.Declarations(doc.Root) {
		s.Prefixes[prefix] = uri
	}

	var locations []string
	dir := filepath.Dir(path)
	for _, child := range doc.Root.Elements() {
		switch localXSD(child, scope) {
		case "include", "import":
			if loc, ok := child.Attr("schemaLocation"); ok && loc != "" {
				locations = append(locations, filepath.Join(dir, loc))
			}
		case "element":
			s.Elements = append(s.Elements, parseElement(child, scope))
		case "complexType":
			ct := parseComplexType(child, scope)
			s.ComplexTypes[ct.Name] = ct
		case "simpleType":
			st := parseSimpleType(child, scope)
			s.SimpleTypes[st.Name] = st
		case "group":
			if name, ok := child.Attr("name"); ok {
				s.Groups[name] = parseModelGroup(child, scope)
			}
		case "attributeGroup":
			if name, ok := child.Attr("name"); ok {
				s.AttrGroups[name] = parseAttributes(child, scope)
			}
		}
	}
	return s, locations, nil
}

func isXSD(n *xmldom.Node, scope xmlns.Scope, local string) bool {
	return xmldom.LocalName(n.Name) == local && scope.ResolveElement(n.Name) == XSDNamespace
}

// localXSD returns the local name of a schema-namespace element, or "".
func localXSD(n *xmldom.Node, scope xmlns.Scope) string {
	if scope.ResolveElement(n.Name) != XSDNamespace {
		return ""
	}
	return xmldom.LocalName(n.Name)
}

func resolveQName(raw string, scope xmlns.Scope) qname {
	if raw == "" {
		return qname{}
	}
	prefix, local := xmldom.SplitName(raw)
	return qname{Space: scope[prefix], Local: local}
}

func parseElement(n *xmldom.Node, scope xmlns.Scope) *elementDecl {
	e := &elementDecl{}
	e.Name, _ = n.Attr("name")
	if t, ok := n.Attr("type"); ok {
		e.Type = resolveQName(t, scope)
	}
	if ref, ok := n.Attr("ref"); ok {
		e.Ref = resolveQName(ref, scope)
	}
	if max, ok := n.Attr("maxOccurs"); ok && max != "0" && max != "1" {
		e.Plural = true
	}
	if nillable, ok := n.Attr("nillable"); ok && nillable == "true" {
		e.Nillable = true
	}
	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "complexType":
			e.Inline = parseComplexType(child, scope)
		case "simpleType":
			// Inline restrictions degrade to their base lexical form.
		}
	}
	return e
}

func parseModelGroup(n *xmldom.Node, scope xmlns.Scope) *particle {
	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "sequence", "choice", "all":
			return parseParticle(child, scope)
		}
	}
	return &particle{Kind: particleSequence}
}

func parseParticle(n *xmldom.Node, scope xmlns.Scope) *particle {
	p := &particle{}
	switch localXSD(n, scope) {
	case "sequence":
		p.Kind = particleSequence
	case "choice":
		p.Kind = particleChoice
	case "all":
		p.Kind = particleAll
	case "element":
		p.Kind = particleElement
		p.Element = parseElement(n, scope)
		return p
	case "any":
		p.Kind = particleAny
		return p
	case "group":
		p.Kind = particleGroupRef
		if ref, ok := n.Attr("ref"); ok {
			p.Ref = resolveQName(ref, scope)
		}
		return p
	default:
		p.Kind = particleSequence
	}
	if max, ok := n.Attr("maxOccurs"); ok && max != "0" && max != "1" {
		p.Plural = true
	}
	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "sequence", "choice", "all", "element", "any", "group":
			p.Children = append(p.Children, parseParticle(child, scope))
		}
	}
	return p
}

func parseAttributes(n *xmldom.Node, scope xmlns.Scope) []*attributeDecl {
	var attrs []*attributeDecl
	for _, child := range n.Elements() {
		if localXSD(child, scope) != "attribute" {
			continue
		}
		a := &attributeDecl{}
		a.Name, _ = child.Attr("name")
		if t, ok := child.Attr("type"); ok {
			a.Type = resolveQName(t, scope)
		}
		if ref, ok := child.Attr("ref"); ok {
			a.Ref = resolveQName(ref, scope)
		}
		if use, ok := child.Attr("use"); ok && use == "prohibited" {
			continue
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func parseComplexType(n *xmldom.Node, scope xmlns.Scope) *complexType {
	ct := &complexType{}
	ct.Name, _ = n.Attr("name")
	if mixed, ok := n.Attr("mixed"); ok && mixed == "true" {
		ct.Mixed = true
	}
	ct.Attributes = parseAttributes(n, scope)

	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "sequence", "choice", "all":
			ct.Particle = parseParticle(child, scope)
		case "group":
			ct.Particle = parseParticle(child, scope)
		case "anyAttribute":
			ct.AnyAttribute = true
		case "attributeGroup":
			if ref, ok := child.Attr("ref"); ok {
				ct.AttrGroupRefs = append(ct.AttrGroupRefs, resolveQName(ref, scope))
			}
		case "simpleContent":
			ct.SimpleContent = true
			parseDerivation(child, ct, scope)
		case "complexContent":
			parseDerivation(child, ct, scope)
		}
	}
	return ct
}

// parseDerivation handles the extension (or restriction) child of
// simpleContent/complexContent, folding its base, particle, and attributes
// into the owning type.
func parseDerivation(n *xmldom.Node, ct *complexType, scope xmlns.Scope) {
	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "extension", "restriction":
			if base, ok := child.Attr("base"); ok {
				ct.Base = resolveQName(base, scope)
			}
			ct.Attributes = append(ct.Attributes, parseAttributes(child, scope)...)
			for _, inner := range child.Elements() {
				switch localXSD(inner, scope) {
				case "sequence", "choice", "all", "group":
					ct.Particle = parseParticle(inner, scope)
				case "anyAttribute":
					ct.AnyAttribute = true
				case "attributeGroup":
					if ref, ok := inner.Attr("ref"); ok {
						ct.AttrGroupRefs = append(ct.AttrGroupRefs, resolveQName(ref, scope))
					}
				}
			}
		}
	}
}

func parseSimpleType(n *xmldom.Node, scope xmlns.Scope) *simpleType {
	st := &simpleType{}
	st.Name, _ = n.Attr("name")
	for _, child := range n.Elements() {
		switch localXSD(child, scope) {
		case "restriction":
			if base, ok := child.Attr("base"); ok {
				st.Base = resolveQName(base, scope)
			}
			for _, facet := range child.Elements() {
				if localXSD(facet, scope) == "enumeration" {
					if v, ok := facet.Attr("value"); ok {
						st.Enums = append(st.Enums, v)
					}
				}
			}
		case "list", "union":
			// List and union lexical forms degrade to string.
			st.Base = qname{Space: XSDNamespace, Local: "string"}
		}
	}
	return st
}
