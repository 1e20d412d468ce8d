package xmlbind

import (
	"reflect"
	"sort"

	binderr "github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/internal/coerce"
	"github.com/jacoelho/xmlbind/internal/metadata"
	"github.com/jacoelho/xmlbind/internal/xmldom"
	"github.com/jacoelho/xmlbind/internal/xmlns"
)

// Marshal serializes a registered instance to pretty-printed XML text.
//
// The instance's Meta side channel, when present, replays the source
// document's sibling order, comment positions, namespace prefixes, XML
// declaration, and leading comments. Namespace declarations are hoisted onto
// the document root and emitted identically on repeated calls.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, binderr.NewBinding(binderr.ErrNilValue, "", "cannot marshal a nil value")
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, binderr.NewBinding(binderr.ErrNilValue, "", "cannot marshal a nil value")
	}
	if rv.Kind() != reflect.Struct {
		return nil, binderr.NewBindingf(binderr.ErrNotStruct, rv.Type().String(), "marshal source must be a struct")
	}
	meta := registry.Lookup(rv.Type())
	if meta == nil {
		return nil, binderr.NewBindingf(binderr.ErrNoMetadata, rv.Type().Name(), "type is not registered")
	}

	m := metaOf(rv)
	ctx := xmlns.NewContext(meta.Namespace)
	if m != nil && len(m.Prefixes) > 0 {
		ctx.SeedRuntime(m.Prefixes)
	} else {
		ctx.SeedDeclared(meta.Prefixes)
	}

	root := xmldom.NewElement(meta.Root)
	buildInto(root, rv, ctx)

	// All namespace declarations, including prefixes synthesized during
	// the walk, land on the root ahead of its regular attributes.
	decls := ctx.Declarations()
	if len(decls) > 0 {
		attrs := make([]xmldom.Attr, 0, len(decls)+len(root.Attrs))
		for _, d := range decls {
			attrs = append(attrs, xmldom.Attr{Name: d.Name, Value: d.URI})
		}
		root.Attrs = append(attrs, root.Attrs...)
	}

	doc := &xmldom.Document{Root: root}
	if m != nil {
		doc.HasDeclaration = m.XMLDeclaration
		doc.LeadingComments = m.LeadingComments
	}
	return []byte(xmldom.Serialize(doc)), nil
}

// buildInto emits one struct value into an element node: attributes first,
// then element fields reordered per the captured sibling order with comments
// interleaved, then wildcard content, then text.
func buildInto(node *xmldom.Node, rv reflect.Value, ctx *xmlns.Context) {
	fields := registry.EffectiveFields(rv.Type())
	m := metaOf(rv)

	for i := range fields {
		f := &fields[i]
		if f.Kind != metadata.KindAttribute {
			continue
		}
		fv := rv.FieldByName(f.Key)
		if !fv.IsValid() {
			continue
		}
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		node.SetAttr(ctx.QualifyAttribute(f.Name, f.Namespace), coerce.Text(fv.Interface()))
	}

	var elemFields []*metadata.Field
	for i := range fields {
		if fields[i].Kind == metadata.KindElement {
			elemFields = append(elemFields, &fields[i])
		}
	}
	elemFields = orderFields(elemFields, m)

	pending := pendingComments(rv, fields, m)
	occurrences := 0
	flush := func(pos int) {
		rest := pending[:0]
		for _, c := range pending {
			if c.Position == pos {
				node.Append(xmldom.NewComment(c.Text))
				continue
			}
			rest = append(rest, c)
		}
		pending = rest
	}

	for _, f := range elemFields {
		fv := rv.FieldByName(f.Key)
		if !fv.IsValid() {
			continue
		}
		if fv.Kind() == reflect.Slice {
			if fv.IsNil() {
				continue
			}
			for i := 0; i < fv.Len(); i++ {
				emitElement(node, fv.Index(i), f, ctx, m, &occurrences, flush)
			}
			continue
		}
		emitElement(node, fv, f, ctx, m, &occurrences, flush)
	}

	if wf := metadata.AnyAttributeField(fields); wf != nil {
		emitAttrWildcard(node, rv, wf)
	}
	if wf := metadata.AnyElementField(fields); wf != nil {
		emitElemWildcard(node, rv, wf, &occurrences, flush)
	}

	// Trailing slot, then everything left over (including position-less
	// legacy comments) as a flat trailing block.
	flush(occurrences)
	for _, c := range pending {
		node.Append(xmldom.NewComment(c.Text))
	}

	if tf := metadata.TextField(fields); tf != nil {
		if fv := rv.FieldByName(tf.Key); fv.IsValid() {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					return
				}
				fv = fv.Elem()
			}
			node.Text = coerce.Text(fv.Interface())
		}
	}
}

// emitElement emits one occurrence of an element field. A nil pointer on a
// nillable field becomes an xsi:nil marker unless the captured order proves
// the element was absent from the source; other unset values are omitted.
func emitElement(parent *xmldom.Node, ev reflect.Value, f *metadata.Field, ctx *xmlns.Context, m *Meta, occurrences *int, flush func(int)) {
	name := ctx.QualifyElement(f.Name, f.Namespace)

	if ev.Kind() == reflect.Pointer {
		if ev.IsNil() {
			if f.Nillable && (!m.HasOrder() || m.orderedIn(f.Name)) {
				flush(*occurrences)
				nilNode := xmldom.NewElement(name)
				nilNode.SetAttr(ctx.EnsurePrefix(xmlns.XSINamespace)+":nil", "true")
				parent.Append(nilNode)
				*occurrences++
			}
			return
		}
		ev = ev.Elem()
	}
	// A zero value for an element absent from the captured source order is
	// treated as unset, which keeps repeated round trips byte-stable.
	if m.HasOrder() && !m.orderedIn(f.Name) && ev.IsZero() {
		return
	}

	child := elementNode(name, ev, f, ctx)
	if child == nil {
		return
	}
	flush(*occurrences)
	parent.Append(child)
	*occurrences++
}

func elementNode(name string, ev reflect.Value, f *metadata.Field, ctx *xmlns.Context) *xmldom.Node {
	t := ev.Type()
	switch {
	case t == valueType:
		v := ev.Interface().(Value)
		if v.Name == "" {
			if v.Text == "" && len(v.Attrs) == 0 && len(v.Children) == 0 {
				return nil
			}
			v.Name = name
		}
		return valueToNode(&v)
	case t.Kind() == reflect.Struct && t != timeType && registry.Lookup(t) != nil:
		n := xmldom.NewElement(name)
		if nested := registry.Lookup(t); nested != nil {
			ctx.Merge(nested.Prefixes)
		}
		buildInto(n, ev, ctx)
		return n
	case t.Kind() == reflect.Struct && t != timeType:
		// Unregistered nested shape: nothing to bind, emit the bare element.
		return xmldom.NewElement(name)
	default:
		n := xmldom.NewElement(name)
		n.Text = coerce.Text(ev.Interface())
		return n
	}
}

func emitAttrWildcard(node *xmldom.Node, rv reflect.Value, wf *metadata.Field) {
	fv := rv.FieldByName(wf.Key)
	if !fv.IsValid() || fv.Type() != reflect.TypeOf(map[string]string(nil)) || fv.IsNil() {
		return
	}
	extras := fv.Interface().(map[string]string)
	names := make([]string, 0, len(extras))
	for name := range extras {
		// Declarations stay under namespace-context control.
		if xmlns.IsDeclaration(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		node.SetAttr(name, extras[name])
	}
}

func emitElemWildcard(node *xmldom.Node, rv reflect.Value, wf *metadata.Field, occurrences *int, flush func(int)) {
	fv := rv.FieldByName(wf.Key)
	if !fv.IsValid() || fv.Type() != reflect.TypeOf([]Value(nil)) || fv.IsNil() {
		return
	}
	for _, v := range fv.Interface().([]Value) {
		n := valueToNode(&v)
		if n == nil {
			// No discoverable element name to emit under.
			continue
		}
		flush(*occurrences)
		node.Append(n)
		*occurrences++
	}
}

// pendingComments returns the comments to interleave: the Meta side channel
// when populated, otherwise a declared comments-kind field.
func pendingComments(rv reflect.Value, fields []metadata.Field, m *Meta) []Comment {
	var src []Comment
	if m != nil && len(m.Comments) > 0 {
		src = m.Comments
	} else if cf := metadata.CommentsField(fields); cf != nil {
		if fv := rv.FieldByName(cf.Key); fv.IsValid() && fv.Type() == reflect.TypeOf([]Comment(nil)) && !fv.IsNil() {
			src = fv.Interface().([]Comment)
		}
	}
	if len(src) == 0 {
		return nil
	}
	out := make([]Comment, len(src))
	copy(out, src)
	return out
}

// orderFields reorders element fields per the captured sibling order: fields
// named in the order list come first, sorted by first occurrence, the rest
// follow in declaration order.
func orderFields(fields []*metadata.Field, m *Meta) []*metadata.Field {
	if !m.HasOrder() {
		return fields
	}
	pos := make(map[string]int, len(m.ElementOrder))
	for i, name := range m.ElementOrder {
		if _, ok := pos[name]; !ok {
			pos[name] = i
		}
	}
	var recorded, rest []*metadata.Field
	for _, f := range fields {
		if _, ok := pos[f.Name]; ok {
			recorded = append(recorded, f)
		} else {
			rest = append(rest, f)
		}
	}
	sort.SliceStable(recorded, func(i, j int) bool {
		return pos[recorded[i].Name] < pos[recorded[j].Name]
	})
	return append(recorded, rest...)
}
