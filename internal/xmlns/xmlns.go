// Package xmlns implements the two directions of namespace handling: lexical
// prefix->URI scope resolution while reading, and URI->prefix assignment with
// root-hoisted declarations while writing.
package xmlns

const (
	// XMLNSPrefix is the reserved prefix for namespace declarations.
	XMLNSPrefix = "xmlns"
	// XMLPrefix is the reserved prefix for the XML namespace.
	XMLPrefix = "xml"
	// XMLNamespace is the XML namespace URI.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XSINamespace is the XML Schema instance namespace URI.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// XSIPreferredPrefix is the conventional prefix for the instance namespace.
	XSIPreferredPrefix = "xsi"
)

// IsDeclaration reports whether a raw attribute name declares a namespace
// (either the default "xmlns" or a prefixed "xmlns:p" form).
func IsDeclaration(rawAttrName string) bool {
	if rawAttrName == XMLNSPrefix {
		return true
	}
	return len(rawAttrName) > len(XMLNSPrefix)+1 &&
		rawAttrName[:len(XMLNSPrefix)] == XMLNSPrefix &&
		rawAttrName[len(XMLNSPrefix)] == ':'
}
