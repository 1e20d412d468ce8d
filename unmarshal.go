package xmlbind

import (
	"reflect"
	"time"

	binderr "github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/internal/coerce"
	"github.com/jacoelho/xmlbind/internal/metadata"
	"github.com/jacoelho/xmlbind/internal/xmldom"
	"github.com/jacoelho/xmlbind/internal/xmlns"
)

// Unmarshal parses an XML document into a new instance of T.
//
// Binding is permissive: missing attributes and elements leave their fields
// zero, unknown content is captured by wildcard fields when declared, and
// unparseable primitive text degrades per the coercion rules. The only hard
// failures are an unregistered T, a malformed document, and a root element
// that does not match T's declared root name.
func Unmarshal[T any](data []byte) (*T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, binderr.NewBindingf(binderr.ErrNotStruct, t.String(), "unmarshal target must be a struct type")
	}
	meta := registry.Lookup(t)
	if meta == nil {
		return nil, binderr.NewBindingf(binderr.ErrNoMetadata, t.Name(), "type is not registered")
	}

	doc, err := xmldom.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	// Tolerate an unexpected prefix on the root tag: exact match first,
	// then local-name match.
	if doc.Root.Name != meta.Root && xmldom.LocalName(doc.Root.Name) != meta.Root {
		return nil, binderr.NewBindingf(binderr.ErrRootNotFound, t.Name(),
			"no root element %q in document (found %q)", meta.Root, doc.Root.Name)
	}

	out := reflect.New(t)
	bindStruct(doc.Root, out.Elem(), nil)

	if m := metaOf(out.Elem()); m != nil {
		m.XMLDeclaration = doc.HasDeclaration
		m.LeadingComments = doc.LeadingComments
	}
	return out.Interface().(*T), nil
}

var timeType = reflect.TypeOf(time.Time{})

// bindStruct recursively binds one element node into a struct value. The
// inherited namespace scope is overlaid with the node's own declarations and
// threaded into every child binding.
func bindStruct(node *xmldom.Node, dst reflect.Value, inherited xmlns.Scope) {
	fields := registry.EffectiveFields(dst.Type())
	scope := xmlns.Collect(node, inherited)

	consumedAttrs := make(map[int]bool)
	consumedChildren := make(map[*xmldom.Node]bool)

	for i := range fields {
		f := &fields[i]
		if f.Kind != metadata.KindAttribute {
			continue
		}
		ai := matchAttr(node, f, scope, consumedAttrs)
		if ai < 0 {
			continue
		}
		consumedAttrs[ai] = true
		fv := fieldByKey(dst, f.Key)
		setField(fv, coerceFor(node.Attrs[ai].Value, fv, f))
	}

	for i := range fields {
		f := &fields[i]
		if f.Kind != metadata.KindElement {
			continue
		}
		fv := fieldByKey(dst, f.Key)
		if !fv.IsValid() {
			continue
		}
		matches := matchChildren(node, f, scope)
		if len(matches) == 0 {
			continue
		}
		// Every sibling matching the field's name belongs to this field,
		// so none of them spill into the element wildcard.
		for _, c := range matches {
			consumedChildren[c] = true
		}
		if fv.Kind() == reflect.Slice && fv.Type() != reflect.TypeOf([]byte(nil)) {
			bindArray(matches, fv, f, scope)
			continue
		}
		child := matches[0]
		if isNilMarker(child, scope) {
			// Explicit xsi:nil: the field is present-as-nil, not absent.
			fv.Set(reflect.Zero(fv.Type()))
			continue
		}
		setField(fv, bindChild(child, fv.Type(), f, scope))
	}

	if wf := metadata.AnyAttributeField(fields); wf != nil {
		bindAttrWildcard(node, dst, wf, consumedAttrs)
	}
	if wf := metadata.AnyElementField(fields); wf != nil {
		bindElemWildcard(node, dst, wf, consumedChildren)
	}

	order, comments := siblingRecord(node)
	if cf := metadata.CommentsField(fields); cf != nil && len(comments) > 0 {
		if fv := fieldByKey(dst, cf.Key); fv.IsValid() && fv.Type() == reflect.TypeOf([]Comment(nil)) {
			fv.Set(reflect.ValueOf(comments))
		}
	}
	if m := metaOf(dst); m != nil {
		if len(order) > 0 {
			m.ElementOrder = order
		}
		if len(comments) > 0 {
			m.Comments = comments
		}
		if decls := xmlns.Declarations(node); decls != nil {
			m.Prefixes = decls
		}
	}

	if tf := metadata.TextField(fields); tf != nil && node.Text != "" {
		if fv := fieldByKey(dst, tf.Key); fv.IsValid() {
			setField(fv, coerceFor(node.Text, fv, tf))
		}
	}
}

// matchAttr returns the index of the attribute bound by an attribute field,
// or -1. With no expected namespace an exact unprefixed name match is
// preferred over a prefixed local-name match, mirroring element matching.
func matchAttr(node *xmldom.Node, f *metadata.Field, scope xmlns.Scope, consumed map[int]bool) int {
	loose := -1
	for ai, a := range node.Attrs {
		if consumed[ai] || xmlns.IsDeclaration(a.Name) {
			continue
		}
		if f.Namespace == "" {
			if a.Name == f.Name {
				return ai
			}
			if loose < 0 && xmldom.LocalName(a.Name) == f.Name {
				loose = ai
			}
			continue
		}
		if scope.AttributeMatches(a.Name, f.Name, f.Namespace) {
			return ai
		}
	}
	return loose
}

// matchChildren returns the child elements bound by an element field. With no
// expected namespace an exact unprefixed name match is preferred; prefixed
// children only bind as a fallback.
func matchChildren(node *xmldom.Node, f *metadata.Field, scope xmlns.Scope) []*xmldom.Node {
	var exact, loose []*xmldom.Node
	for _, c := range node.Children {
		if c.Kind != xmldom.KindElement {
			continue
		}
		if f.Namespace == "" {
			if c.Name == f.Name {
				exact = append(exact, c)
			} else if xmldom.LocalName(c.Name) == f.Name {
				loose = append(loose, c)
			}
			continue
		}
		if scope.ElementMatches(c.Name, f.Name, f.Namespace) {
			loose = append(loose, c)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return loose
}

func bindArray(matches []*xmldom.Node, fv reflect.Value, f *metadata.Field, scope xmlns.Scope) {
	elemType := fv.Type().Elem()
	slice := reflect.MakeSlice(fv.Type(), 0, len(matches))
	for _, c := range matches {
		ev := reflect.New(elemType).Elem()
		if isNilMarker(c, scope) {
			slice = reflect.Append(slice, ev)
			continue
		}
		setField(ev, bindChild(c, elemType, f, scope))
		slice = reflect.Append(slice, ev)
	}
	fv.Set(slice)
}

// bindChild converts a child element into a value for a field of the given
// type: the dynamic Value for untyped slots, a recursive struct binding for
// registered types, or a primitive coercion of the element text.
func bindChild(child *xmldom.Node, fieldType reflect.Type, f *metadata.Field, scope xmlns.Scope) any {
	base := fieldType
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	switch {
	case base == valueType:
		return valueFromNode(child)
	case base.Kind() == reflect.Struct && base != timeType && registry.Lookup(base) != nil:
		nv := reflect.New(base)
		bindStruct(child, nv.Elem(), scope)
		return nv.Elem().Interface()
	default:
		return coerce.Cast(child.Text, base, f.Enum)
	}
}

func bindAttrWildcard(node *xmldom.Node, dst reflect.Value, wf *metadata.Field, consumed map[int]bool) {
	fv := fieldByKey(dst, wf.Key)
	if !fv.IsValid() || fv.Type() != reflect.TypeOf(map[string]string(nil)) {
		return
	}
	var extra map[string]string
	for ai, a := range node.Attrs {
		if consumed[ai] || xmlns.IsDeclaration(a.Name) {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[a.Name] = a.Value
	}
	if extra != nil {
		fv.Set(reflect.ValueOf(extra))
	}
}

func bindElemWildcard(node *xmldom.Node, dst reflect.Value, wf *metadata.Field, consumed map[*xmldom.Node]bool) {
	fv := fieldByKey(dst, wf.Key)
	if !fv.IsValid() || fv.Type() != reflect.TypeOf([]Value(nil)) {
		return
	}
	var extras []Value
	for _, c := range node.Children {
		if c.Kind != xmldom.KindElement || consumed[c] {
			continue
		}
		extras = append(extras, valueFromNode(c))
	}
	if extras != nil {
		fv.Set(reflect.ValueOf(extras))
	}
}

// siblingRecord extracts the source sibling order and positioned comments of
// one element's children. A comment's position is the number of element
// siblings seen before it.
func siblingRecord(node *xmldom.Node) ([]string, []Comment) {
	var order []string
	var comments []Comment
	elements := 0
	for _, c := range node.Children {
		switch c.Kind {
		case xmldom.KindElement:
			order = append(order, xmldom.LocalName(c.Name))
			elements++
		case xmldom.KindComment:
			comments = append(comments, Comment{Text: c.Text, Position: elements})
		}
	}
	return order, comments
}

// isNilMarker reports whether a child element carries xsi:nil="true". The
// textual content of such an element is ignored.
func isNilMarker(child *xmldom.Node, scope xmlns.Scope) bool {
	local := xmlns.Collect(child, scope)
	for _, a := range child.Attrs {
		prefix, name := xmldom.SplitName(a.Name)
		if prefix == "" || name != "nil" || a.Value != "true" {
			continue
		}
		if local.ResolveAttribute(a.Name) == xmlns.XSINamespace {
			return true
		}
		// Conventional prefix on documents that omit the declaration.
		if prefix == xmlns.XSIPreferredPrefix && local.ResolveAttribute(a.Name) == "" {
			return true
		}
	}
	return false
}

func fieldByKey(dst reflect.Value, key string) reflect.Value {
	return dst.FieldByName(key)
}

func coerceFor(raw string, fv reflect.Value, f *metadata.Field) any {
	target := f.Type
	if fv.IsValid() {
		target = fv.Type()
	}
	return coerce.Cast(raw, target, f.Enum)
}

// setField assigns a coerced value to a struct field, allocating through
// pointers and silently skipping incompatible shapes.
func setField(fv reflect.Value, val any) {
	if !fv.IsValid() || val == nil {
		return
	}
	v := reflect.ValueOf(val)
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if assignValue(p.Elem(), v) {
			fv.Set(p)
		}
		return
	}
	assignValue(fv, v)
}

func assignValue(dst, v reflect.Value) bool {
	if v.Type().AssignableTo(dst.Type()) {
		dst.Set(v)
		return true
	}
	// Numeric widening only; string(int) rune conversions are never wanted.
	if dst.Kind() == reflect.String && v.Kind() != reflect.String {
		return false
	}
	if v.Type().ConvertibleTo(dst.Type()) {
		dst.Set(v.Convert(dst.Type()))
		return true
	}
	return false
}
