// Package xmlbind implements bidirectional XML to struct data binding driven
// by declarative field metadata.
//
// Types are registered once, typically from generated init functions, with a
// root element name, namespace information, and an ordered list of field
// declarations (attribute, element, text, wildcard, or comment roles).
// Unmarshal binds a document into a typed instance; Marshal serializes it
// back to namespace-correct, order-preserving, comment-preserving XML.
//
// Binding never validates: missing content leaves fields unset, unknown
// content is captured by wildcard fields, and primitive coercion degrades
// permissively. The only fatal errors are an unregistered type and a missing
// root element; both surface as *errors.Binding.
//
// Embedding Meta in a bound struct enables round-trip preservation of
// sibling element order, comment positions, namespace prefix declarations,
// and the XML declaration. The xsdgen package and the xmlbind command derive
// registrations from XSD schema definitions.
package xmlbind
