package xmlbind

// Comment is a comment captured from the source document. Position is the
// number of element siblings that preceded the comment at its level, so 0
// places it before the first child element. A negative Position marks a
// position-less comment, which marshals as a trailing block after all
// elements.
type Comment struct {
	Text     string
	Position int
}

// Meta is the order and comment side channel. Embed it in a bound struct to
// have unmarshal record the source document's sibling element order, comment
// positions, and namespace prefix declarations, and to have marshal replay
// them. Types that do not embed Meta bind correctly but lose preservation.
//
// All fields are exported so the side channel survives plain struct copying.
// A freshly constructed instance has the zero Meta, which makes marshal fall
// back to declaration order and type-declared prefixes.
type Meta struct {
	// ElementOrder lists the local names of child elements as they
	// appeared in the source, one entry per occurrence.
	ElementOrder []string
	// Comments are the level's comments with their captured positions.
	Comments []Comment
	// Prefixes maps prefix to namespace URI from the element's own xmlns
	// declarations. When non-empty it is authoritative for marshal: the
	// declarations are emitted exactly as given and type-declared prefixes
	// are not consulted.
	Prefixes map[string]string
	// XMLDeclaration records whether the source document carried an XML
	// declaration. Root level only.
	XMLDeclaration bool
	// LeadingComments are document-level comments that preceded the root
	// element. Root level only.
	LeadingComments []string
}

// HasOrder reports whether a sibling order was captured.
func (m *Meta) HasOrder() bool {
	return m != nil && len(m.ElementOrder) > 0
}

// orderedIn reports whether an element with the given local name was present
// in the captured source order.
func (m *Meta) orderedIn(local string) bool {
	if m == nil {
		return false
	}
	for _, name := range m.ElementOrder {
		if name == local {
			return true
		}
	}
	return false
}
