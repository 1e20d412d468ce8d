package xmlbind

import (
	"reflect"

	"github.com/jacoelho/xmlbind/internal/coerce"
	"github.com/jacoelho/xmlbind/internal/metadata"
)

// FieldKind classifies the binding role of a declared field.
type FieldKind = metadata.FieldKind

// Field kinds. A type may declare at most one Text, one AnyElement, and one
// AnyAttribute field; Attribute fields are never arrays.
const (
	Element      = metadata.KindElement
	Attribute    = metadata.KindAttribute
	Text         = metadata.KindText
	AnyElement   = metadata.KindAnyElement
	AnyAttribute = metadata.KindAnyAttribute
	Comments     = metadata.KindComments
)

// Field declares one binding between a struct field and XML content.
type Field = metadata.Field

// Enum describes an enumeration target for coercion: declared values plus
// name->value pairs. Unknown input passes through unchanged rather than
// failing.
type Enum = coerce.Enum

// TypeMeta is the binding metadata registered for one Go type.
type TypeMeta struct {
	// Root is the XML root element name. Defaults to the Go type name.
	Root string
	// Namespace is the default namespace declared on the root element.
	Namespace string
	// Prefixes maps namespace URIs to preferred prefixes.
	Prefixes map[string]string
	// Base names the declared ancestor type, given as a zero value (for
	// example Base{}) or a reflect.Type. The effective field list layers
	// this type's fields over the ancestor chain's, derived keys replacing
	// ancestor keys in place.
	Base any
	// Fields in declaration order.
	Fields []Field
}

var registry = metadata.NewRegistry()

// Register associates binding metadata with T. Registration is expected at
// initialization time, typically from a generated init function, and is
// idempotent: registering again merges fields by key and never removes any.
func Register[T any](meta TypeMeta) {
	registry.Register(reflect.TypeOf((*T)(nil)).Elem(), metadata.Type{
		Root:      meta.Root,
		Namespace: meta.Namespace,
		Prefixes:  meta.Prefixes,
		Base:      baseType(meta.Base),
		Fields:    meta.Fields,
	})
}

// T returns the reflect.Type of V, for use in Field declarations.
func T[V any]() reflect.Type {
	return reflect.TypeOf((*V)(nil)).Elem()
}

func baseType(base any) reflect.Type {
	switch b := base.(type) {
	case nil:
		return nil
	case reflect.Type:
		return b
	default:
		return reflect.TypeOf(base)
	}
}

// metaType is the embedded side-channel field looked up by the engines.
var metaType = reflect.TypeOf(Meta{})

// metaOf returns the addressable embedded Meta of a struct value, searching
// through embedded base types, or nil.
func metaOf(v reflect.Value) *Meta {
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == metaType {
			if !v.Field(i).CanAddr() {
				m := v.Field(i).Interface().(Meta)
				return &m
			}
			return v.Field(i).Addr().Interface().(*Meta)
		}
		if f.Type.Kind() == reflect.Struct {
			if m := metaOf(v.Field(i)); m != nil {
				return m
			}
		}
	}
	return nil
}
