package xmlns

import "github.com/jacoelho/xmlbind/internal/xmldom"

// Scope maps prefixes to namespace URIs for one lexical level. The empty
// prefix key holds the default namespace.
type Scope map[string]string

// Collect overlays the namespace declarations found on node over the
// inherited scope. The inherited map is not mutated; child declarations
// shadow parent declarations for the same prefix.
func Collect(node *xmldom.Node, inherited Scope) Scope {
	scope := make(Scope, len(inherited)+2)
	for prefix, uri := range inherited {
		scope[prefix] = uri
	}
	for _, a := range node.Attrs {
		switch prefix, local := xmldom.SplitName(a.Name); {
		case prefix == "" && local == XMLNSPrefix:
			scope[""] = a.Value
		case prefix == XMLNSPrefix:
			scope[local] = a.Value
		}
	}
	return scope
}

// Declarations returns the prefix->URI declarations carried by the node
// itself, excluding the default namespace. This is what populates an
// instance's runtime prefix map during unmarshal.
func Declarations(node *xmldom.Node) map[string]string {
	var decls map[string]string
	for _, a := range node.Attrs {
		if prefix, local := xmldom.SplitName(a.Name); prefix == XMLNSPrefix {
			if decls == nil {
				decls = make(map[string]string)
			}
			decls[local] = a.Value
		}
	}
	return decls
}

// ResolveElement resolves the namespace URI of a raw element name. An
// unprefixed element falls under the default namespace, if any.
func (s Scope) ResolveElement(rawName string) string {
	prefix, _ := xmldom.SplitName(rawName)
	return s[prefix]
}

// ResolveAttribute resolves the namespace URI of a raw attribute name.
// Unlike elements, an unprefixed attribute is never in the default namespace.
func (s Scope) ResolveAttribute(rawName string) string {
	prefix, _ := xmldom.SplitName(rawName)
	if prefix == "" {
		return ""
	}
	if prefix == XMLPrefix {
		return XMLNamespace
	}
	return s[prefix]
}

// ElementMatches reports whether a child element with the given raw name
// binds to a field declared with local name and namespace. An empty expected
// namespace accepts an exact unprefixed match first, then any resolution of
// the local name.
func (s Scope) ElementMatches(rawName, local, namespace string) bool {
	if namespace == "" {
		if rawName == local {
			return true
		}
		return xmldom.LocalName(rawName) == local
	}
	return xmldom.LocalName(rawName) == local && s.ResolveElement(rawName) == namespace
}

// AttributeMatches reports whether a raw attribute name binds to a field
// declared with local name and namespace. When a namespace is expected, only
// prefixed attributes can match.
func (s Scope) AttributeMatches(rawName, local, namespace string) bool {
	if IsDeclaration(rawName) {
		return false
	}
	prefix, attrLocal := xmldom.SplitName(rawName)
	if namespace == "" {
		if rawName == local {
			return true
		}
		return attrLocal == local
	}
	if prefix == "" {
		return false
	}
	return attrLocal == local && s.ResolveAttribute(rawName) == namespace
}
