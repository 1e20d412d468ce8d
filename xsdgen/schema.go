package xsdgen

// The schema model is the small slice of XSD structure the generator
// consumes: global elements and types, compositors, attributes, groups, and
// enumeration facets. Identity constraints, facets beyond enumeration, and
// substitution groups are outside the binding surface and are skipped during
// parsing.

// XSDNamespace is the XML Schema definition namespace.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// qname is a resolved schema reference.
type qname struct {
	Space string
	Local string
}

func (q qname) isZero() bool { return q.Local == "" }

type schemaDoc struct {
	TargetNamespace string
	// ElementFormQualified places local elements in the target namespace.
	ElementFormQualified bool
	// Prefixes are the root xmlns declarations, URI keyed by prefix.
	Prefixes map[string]string

	Elements     []*elementDecl
	ComplexTypes map[string]*complexType
	SimpleTypes  map[string]*simpleType
	Groups       map[string]*particle
	AttrGroups   map[string][]*attributeDecl
}

func newSchemaDoc() *schemaDoc {
	return &schemaDoc{
		Prefixes:     map[string]string{},
		ComplexTypes: map[string]*complexType{},
		SimpleTypes:  map[string]*simpleType{},
		Groups:       map[string]*particle{},
		AttrGroups:   map[string][]*attributeDecl{},
	}
}

type elementDecl struct {
	Name     string
	Type     qname
	Ref      qname
	Plural   bool // maxOccurs > 1 or unbounded
	Nillable bool
	Inline   *complexType
}

type attributeDecl struct {
	Name string
	Type qname
	Ref  qname
}

type particleKind int

const (
	particleSequence particleKind = iota
	particleChoice
	particleAll
	particleElement
	particleAny
	particleGroupRef
)

// particle is one node of a content model. Compositors carry children;
// element and group-ref leaves carry their declaration or target.
type particle struct {
	Kind     particleKind
	Children []*particle
	Element  *elementDecl
	Ref      qname
	Plural   bool
}

type complexType struct {
	Name          string
	Base          qname
	SimpleContent bool
	Mixed         bool
	Particle      *particle
	Attributes    []*attributeDecl
	AttrGroupRefs []qname
	AnyAttribute  bool
}

type simpleType struct {
	Name  string
	Base  qname
	Enums []string
}

// merge folds other's global declarations into s. Same-name declarations
// keep the first definition seen, matching include semantics for schemas
// split across files.
func (s *schemaDoc) merge(other *schemaDoc) {
	if s.TargetNamespace == "" {
		s.TargetNamespace = other.TargetNamespace
	}
	for prefix, uri := range other.Prefixes {
		if _, ok := s.Prefixes[prefix]; !ok {
			s.Prefixes[prefix] = uri
		}
	}
	s.Elements = append(s.Elements, other.Elements...)
	for name, t := range other.ComplexTypes {
		if _, ok := s.ComplexTypes[name]; !ok {
			s.ComplexTypes[name] = t
		}
	}
	for name, t := range other.SimpleTypes {
		if _, ok := s.SimpleTypes[name]; !ok {
			s.SimpleTypes[name] = t
		}
	}
	for name, g := range other.Groups {
		if _, ok := s.Groups[name]; !ok {
			s.Groups[name] = g
		}
	}
	for name, a := range other.AttrGroups {
		if _, ok := s.AttrGroups[name]; !ok {
			s.AttrGroups[name] = a
		}
	}
}
