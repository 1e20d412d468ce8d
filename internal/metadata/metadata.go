// Package metadata holds the binding metadata model: per-type root
// information and ordered field declarations, plus the process-wide registry
// and the inheritance flattening that produces a type's effective field list.
package metadata

import (
	"reflect"

	"github.com/jacoelho/xmlbind/internal/coerce"
)

// FieldKind classifies the binding role of a declared field.
type FieldKind int

const (
	// KindElement binds a child element (scalar or array).
	KindElement FieldKind = iota
	// KindAttribute binds an attribute. Attribute fields are never arrays.
	KindAttribute
	// KindText binds the element's character data. At most one per type.
	KindText
	// KindAnyElement collects child elements not bound by declared fields.
	KindAnyElement
	// KindAnyAttribute collects attributes not bound by declared fields.
	KindAnyAttribute
	// KindComments binds the level's positioned comments.
	KindComments
)

// Field is one declared binding between a Go struct field and XML content.
type Field struct {
	// Key is the Go struct field name; unique within the effective list.
	Key string
	// Name is the XML local name.
	Name string
	Kind FieldKind
	// Type optionally narrows the bound value type; the engines otherwise
	// derive it from the struct field itself.
	Type      reflect.Type
	Array     bool
	Namespace string
	Nillable  bool
	Enum      *coerce.Enum
}

// Type is the binding metadata registered for one Go type.
type Type struct {
	// Root is the XML element name used when the type is a document root.
	Root string
	// Namespace is the default namespace declared on the root element.
	Namespace string
	// Prefixes maps namespace URIs to preferred prefixes.
	Prefixes map[string]string
	// Base points at the declared ancestor type, if any. The effective
	// field list layers this type's fields over the ancestor chain's.
	Base reflect.Type
	// Fields in declaration order.
	Fields []Field
}

// TextField returns the type's text-kind field from an effective field list,
// or nil.
func TextField(fields []Field) *Field {
	return fieldOfKind(fields, KindText)
}

// AnyElementField returns the wildcard element field, or nil.
func AnyElementField(fields []Field) *Field {
	return fieldOfKind(fields, KindAnyElement)
}

// AnyAttributeField returns the wildcard attribute field, or nil.
func AnyAttributeField(fields []Field) *Field {
	return fieldOfKind(fields, KindAnyAttribute)
}

// CommentsField returns the comments-kind field, or nil.
func CommentsField(fields []Field) *Field {
	return fieldOfKind(fields, KindComments)
}

func fieldOfKind(fields []Field, kind FieldKind) *Field {
	for i := range fields {
		if fields[i].Kind == kind {
			return &fields[i]
		}
	}
	return nil
}
