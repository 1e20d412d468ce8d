package xsdgen

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// genModel is the flattened, emission-ready view of a schema.
type genModel struct {
	Package   string
	Namespace string
	Prefixes  map[string]string
	Types     []*genType
	Enums     []*genEnum
}

type genType struct {
	GoName     string
	XMLRoot    string
	Namespace  string
	BaseGoName string
	Fields     []genField
	// Root marks a type reachable from a global element declaration.
	Root bool
	// Prefixes carries the schema's xmlns declarations for root types,
	// keyed by URI the way the runtime expects them.
	Prefixes map[string]string
}

type genField struct {
	GoName  string
	XMLName string
	GoType  string
	// Kind is the xmlbind field kind identifier (Element, Attribute, ...).
	Kind      string
	Array     bool
	Nillable  bool
	Namespace string
	// EnumVar names the generated enum descriptor variable, if any.
	EnumVar string
}

type genEnum struct {
	GoName string
	// Base is the underlying Go type: string or int64.
	Base    string
	VarName string
	Values  []genEnumValue
}

type genEnumValue struct {
	ConstName string
	Literal   string
}

type flattener struct {
	cfg    Config
	schema *schemaDoc
	model  *genModel
	byName map[string]*genType
	enums  map[string]*genEnum
}

// flatten turns a merged schema document into the generation model:
// compositors collapse into ordered field lists, references resolve to Go
// type names, and enumeration restrictions become named enum types.
func flatten(cfg Config, s *schemaDoc) (*genModel, error) {
	f := &flattener{
		cfg:    cfg,
		schema: s,
		model: &genModel{
			Package:   cfg.Package,
			Namespace: s.TargetNamespace,
			Prefixes:  s.Prefixes,
		},
		byName: map[string]*genType{},
		enums:  map[string]*genEnum{},
	}

	for name, st := range s.SimpleTypes {
		if len(st.Enums) > 0 {
			f.addEnum(name, st)
		}
	}
	for name, ct := range s.ComplexTypes {
		if _, err := f.addComplexType(name, ct); err != nil {
			return nil, err
		}
	}
	for _, el := range s.Elements {
		if err := f.addGlobalElement(el); err != nil {
			return nil, err
		}
	}

	sort.Slice(f.model.Types, func(i, j int) bool { return f.model.Types[i].GoName < f.model.Types[j].GoName })
	sort.Slice(f.model.Enums, func(i, j int) bool { return f.model.Enums[i].GoName < f.model.Enums[j].GoName })
	return f.model, nil
}

func (f *flattener) goName(schemaName string) string {
	return f.cfg.TypePrefix + exportName(schemaName) + f.cfg.TypeSuffix
}

func (f *flattener) addEnum(name string, st *simpleType) *genEnum {
	if e, ok := f.enums[name]; ok {
		return e
	}
	base := "string"
	if bt, ok := builtinGoType(st.Base); ok && bt == "int64" {
		base = "int64"
	}
	e := &genEnum{
		GoName:  f.goName(name),
		Base:    base,
		VarName: unexportName(f.goName(name)) + "Enum",
	}
	for _, v := range st.Enums {
		e.Values = append(e.Values, genEnumValue{
			ConstName: e.GoName + exportName(v),
			Literal:   v,
		})
	}
	f.enums[name] = e
	f.model.Enums = append(f.model.Enums, e)
	return e
}

func (f *flattener) addGlobalElement(el *elementDecl) error {
	switch {
	case el.Inline != nil:
		t, err := f.buildType(f.goName(el.Name), el.Inline)
		if err != nil {
			return err
		}
		t.XMLRoot = el.Name
		f.markRoot(t)
		return nil
	case !el.Type.isZero():
		if ct, ok := f.schema.ComplexTypes[el.Type.Local]; ok && el.Type.Space != XSDNamespace {
			t, err := f.addComplexType(el.Type.Local, ct)
			if err != nil {
				return err
			}
			if t.XMLRoot == "" {
				t.XMLRoot = el.Name
			}
			f.markRoot(t)
			return nil
		}
		// Global element of a simple type: a struct with a text field.
		goType, _ := f.fieldGoType(el.Type)
		t := &genType{GoName: f.goName(el.Name), XMLRoot: el.Name, Namespace: f.schema.TargetNamespace}
		t.Fields = append(t.Fields, genField{GoName: "Value", GoType: goType, Kind: "Text"})
		f.register(t)
		f.markRoot(t)
		return nil
	default:
		t := &genType{GoName: f.goName(el.Name), XMLRoot: el.Name, Namespace: f.schema.TargetNamespace}
		f.register(t)
		f.markRoot(t)
		return nil
	}
}

// markRoot flags a type as a document root and hands it the schema's
// instance-relevant prefix declarations, inverted to the URI-keyed form the
// runtime consumes. Schema-machinery namespaces are not instance prefixes.
func (f *flattener) markRoot(t *genType) {
	t.Root = true
	for prefix, uri := range f.schema.Prefixes {
		if prefix == "" || uri == XSDNamespace {
			continue
		}
		if t.Prefixes == nil {
			t.Prefixes = map[string]string{}
		}
		if existing, ok := t.Prefixes[uri]; !ok || prefix < existing {
			t.Prefixes[uri] = prefix
		}
	}
}

func (f *flattener) addComplexType(name string, ct *complexType) (*genType, error) {
	if t, ok := f.byName[f.goName(name)]; ok {
		return t, nil
	}
	return f.buildType(f.goName(name), ct)
}

func (f *flattener) register(t *genType) {
	if _, ok := f.byName[t.GoName]; ok {
		return
	}
	f.byName[t.GoName] = t
	f.model.Types = append(f.model.Types, t)
}

func (f *flattener) buildType(goName string, ct *complexType) (*genType, error) {
	t := &genType{GoName: goName, Namespace: f.schema.TargetNamespace}
	// Register before walking fields so recursive element references
	// resolve to the type under construction.
	f.register(t)

	if !ct.Base.isZero() && ct.Base.Space != XSDNamespace {
		if baseCT, ok := f.schema.ComplexTypes[ct.Base.Local]; ok {
			base, err := f.addComplexType(ct.Base.Local, baseCT)
			if err != nil {
				return nil, err
			}
			t.BaseGoName = base.GoName
		}
	}

	for _, a := range append(f.resolveAttrGroups(ct), ct.Attributes...) {
		name := a.Name
		if name == "" && !a.Ref.isZero() {
			name = a.Ref.Local
		}
		if name == "" {
			continue
		}
		goType, enumVar := f.fieldGoType(a.Type)
		t.Fields = append(t.Fields, genField{
			GoName:  exportName(name),
			XMLName: name,
			GoType:  goType,
			Kind:    "Attribute",
			EnumVar: enumVar,
		})
	}

	if ct.Particle != nil {
		if err := f.flattenParticle(t, ct.Particle, ct.Particle.Plural); err != nil {
			return nil, err
		}
	}

	if ct.SimpleContent {
		goType := "string"
		if bt, ok := builtinGoType(ct.Base); ok {
			goType = bt
		}
		t.Fields = append(t.Fields, genField{GoName: "Value", GoType: goType, Kind: "Text"})
	} else if ct.Mixed {
		t.Fields = append(t.Fields, genField{GoName: "Value", GoType: "string", Kind: "Text"})
	}

	if ct.AnyAttribute {
		t.Fields = append(t.Fields, genField{GoName: "OtherAttrs", GoType: "map[string]string", Kind: "AnyAttribute"})
	}

	dedupFields(t)
	return t, nil
}

func (f *flattener) resolveAttrGroups(ct *complexType) []*attributeDecl {
	var attrs []*attributeDecl
	for _, ref := range ct.AttrGroupRefs {
		attrs = append(attrs, f.schema.AttrGroups[ref.Local]...)
	}
	return attrs
}

// flattenParticle walks a content model and appends one field per element
// leaf, in declaration order. Choice members become ordinary optional
// fields; a plural compositor makes every nested leaf an array.
func (f *flattener) flattenParticle(t *genType, p *particle, plural bool) error {
	switch p.Kind {
	case particleSequence, particleChoice, particleAll:
		for _, child := range p.Children {
			if err := f.flattenParticle(t, child, plural || child.Plural); err != nil {
				return err
			}
		}
	case particleGroupRef:
		group, ok := f.schema.Groups[p.Ref.Local]
		if !ok {
			return fmt.Errorf("flatten %s: unresolved group reference %q", t.GoName, p.Ref.Local)
		}
		return f.flattenParticle(t, group, plural || group.Plural)
	case particleAny:
		t.Fields = append(t.Fields, genField{GoName: "Extra", GoType: "[]xmlbind.Value", Kind: "AnyElement"})
	case particleElement:
		return f.flattenElement(t, p.Element, plural || p.Plural)
	}
	return nil
}

func (f *flattener) flattenElement(t *genType, el *elementDecl, plural bool) error {
	name := el.Name
	typeRef := el.Type
	if !el.Ref.isZero() {
		name = el.Ref.Local
		for _, global := range f.schema.Elements {
			if global.Name == name {
				typeRef = global.Type
				if global.Inline != nil {
					nested, err := f.addComplexType(name, global.Inline)
					if err != nil {
						return err
					}
					f.appendElementField(t, name, nested.GoName, el, plural, "")
					return nil
				}
				break
			}
		}
	}

	switch {
	case el.Inline != nil:
		nested, err := f.buildType(t.GoName+exportName(name), el.Inline)
		if err != nil {
			return err
		}
		f.appendElementField(t, name, nested.GoName, el, plural, "")
	case !typeRef.isZero():
		if ct, ok := f.schema.ComplexTypes[typeRef.Local]; ok && typeRef.Space != XSDNamespace {
			nested, err := f.addComplexType(typeRef.Local, ct)
			if err != nil {
				return err
			}
			f.appendElementField(t, name, nested.GoName, el, plural, "")
			return nil
		}
		goType, enumVar := f.fieldGoType(typeRef)
		f.appendElementField(t, name, goType, el, plural, enumVar)
	default:
		// No declared type: an untyped slot bound to the dynamic value.
		f.appendElementField(t, name, "xmlbind.Value", el, plural, "")
	}
	return nil
}

func (f *flattener) appendElementField(t *genType, name, goType string, el *elementDecl, plural bool, enumVar string) {
	field := genField{
		GoName:   exportName(name),
		XMLName:  name,
		GoType:   goType,
		Kind:     "Element",
		Array:    plural || el.Plural,
		Nillable: el.Nillable,
		EnumVar:  enumVar,
	}
	if f.schema.ElementFormQualified {
		field.Namespace = f.schema.TargetNamespace
	}
	if field.Array {
		field.GoType = "[]" + field.GoType
	} else if field.Nillable {
		field.GoType = "*" + field.GoType
	}
	t.Fields = append(t.Fields, field)
}

// fieldGoType maps a type reference to a Go type plus the enum descriptor
// variable when the reference names an enumerated simple type.
func (f *flattener) fieldGoType(ref qname) (string, string) {
	if ref.isZero() {
		return "string", ""
	}
	if goType, ok := builtinGoType(ref); ok {
		return goType, ""
	}
	if st, ok := f.schema.SimpleTypes[ref.Local]; ok {
		if len(st.Enums) > 0 {
			e := f.addEnum(ref.Local, st)
			return e.GoName, e.VarName
		}
		return f.fieldGoType(st.Base)
	}
	return "string", ""
}

func dedupFields(t *genType) {
	seen := map[string]int{}
	for i := range t.Fields {
		name := t.Fields[i].GoName
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			t.Fields[i].GoName = fmt.Sprintf("%s%d", name, n+1)
			continue
		}
		seen[name] = 1
	}
}

// builtinGoType maps XML Schema builtin types onto Go types.
func builtinGoType(q qname) (string, bool) {
	if q.Space != XSDNamespace {
		return "", false
	}
	switch q.Local {
	case "boolean":
		return "bool", true
	case "byte", "short", "int", "long", "integer",
		"nonNegativeInteger", "nonPositiveInteger", "negativeInteger", "positiveInteger",
		"unsignedByte", "unsignedShort", "unsignedInt", "unsignedLong":
		return "int64", true
	case "decimal", "float", "double":
		return "float64", true
	case "date", "dateTime", "time":
		return "time.Time", true
	default:
		// String kinds, binary kinds, QName, anyURI, duration, and the
		// gregorian fragments all keep their lexical form.
		return "string", true
	}
}

func exportName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, p := range parts {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

func unexportName(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
