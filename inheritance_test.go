package xmlbind_test

import (
	"strings"
	"testing"

	"github.com/jacoelho/xmlbind"
)

type annotated struct {
	xmlbind.Meta
	Annotation string
}

type extension struct {
	annotated
	ComplexContent string
}

type redeclaring struct {
	annotated
	Annotation string
}

func init() {
	xmlbind.Register[annotated](xmlbind.TypeMeta{
		Root: "annotated",
		Fields: []xmlbind.Field{
			{Key: "Annotation", Name: "annotation", Kind: xmlbind.Element},
		},
	})
	xmlbind.Register[extension](xmlbind.TypeMeta{
		Root: "extension",
		Base: annotated{},
		Fields: []xmlbind.Field{
			{Key: "ComplexContent", Name: "complexContent", Kind: xmlbind.Element},
		},
	})
	xmlbind.Register[redeclaring](xmlbind.TypeMeta{
		Root: "redeclaring",
		Base: annotated{},
		Fields: []xmlbind.Field{
			{Key: "Annotation", Name: "note", Kind: xmlbind.Element},
		},
	})
}

// Scenario D: the effective field list layers derived fields after the
// ancestor's, base fields first.
func TestInheritedFieldsBind(t *testing.T) {
	const doc = `<extension>
  <annotation>base doc</annotation>
  <complexContent>derived body</complexContent>
</extension>
`
	e, err := xmlbind.Unmarshal[extension]([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.Annotation != "base doc" {
		t.Errorf("Annotation = %q, want inherited binding", e.Annotation)
	}
	if e.ComplexContent != "derived body" {
		t.Errorf("ComplexContent = %q", e.ComplexContent)
	}

	out, err := xmlbind.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != doc {
		t.Errorf("Marshal() = %q, want %q", out, doc)
	}
}

// Default ordering without source-order data: annotation before
// complexContent, matching the base-first flattening.
func TestInheritedDeclarationOrder(t *testing.T) {
	e := extension{}
	e.Annotation = "a"
	e.ComplexContent = "c"
	out, err := xmlbind.Marshal(&e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(out)
	if strings.Index(body, "<annotation>") > strings.Index(body, "<complexContent>") {
		t.Errorf("Marshal() = %s, want annotation before complexContent", body)
	}
}

// A derived redeclaration of an ancestor key replaces it outright.
func TestDerivedKeyOverride(t *testing.T) {
	const doc = `<redeclaring>
  <note>overridden</note>
</redeclaring>
`
	r, err := xmlbind.Unmarshal[redeclaring]([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Annotation != "overridden" {
		t.Errorf("Annotation = %q, want bound via the derived name", r.Annotation)
	}

	out, err := xmlbind.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(out), "<annotation>") {
		t.Errorf("Marshal() = %s, ancestor declaration should be discarded", out)
	}
	if !strings.Contains(string(out), "<note>overridden</note>") {
		t.Errorf("Marshal() = %s, want the derived declaration", out)
	}
}
