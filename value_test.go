package xmlbind

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/jacoelho/xmlbind/internal/xmldom"
)

func TestValueFromNodeRoundTrip(t *testing.T) {
	doc, err := xmldom.Parse(strings.NewReader(`<extra kind="a"><inner>deep</inner></extra>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	v := valueFromNode(doc.Root)
	if v.Name != "extra" {
		t.Errorf("Name = %q", v.Name)
	}
	if got, _ := v.Attr("kind"); got != "a" {
		t.Errorf("Attr(kind) = %q", got)
	}
	if c := v.Child("inner"); c == nil || c.Text != "deep" {
		t.Errorf("Child(inner) = %+v", c)
	}
	if v.Child("missing") != nil {
		t.Error("Child(missing) != nil")
	}

	n := valueToNode(&v)
	if got := xmldom.SerializeNode(n); got != "<extra kind=\"a\">\n  <inner>deep</inner>\n</extra>\n" {
		t.Errorf("SerializeNode() = %q", got)
	}
}

func TestValueToNodeDropsUnnamed(t *testing.T) {
	if valueToNode(&Value{Text: "orphan"}) != nil {
		t.Error("unnamed value produced a node")
	}
	if valueToNode(nil) != nil {
		t.Error("nil value produced a node")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	v := Value{
		Name:  "extra",
		Attrs: []Attr{{Name: "kind", Value: "a"}},
		Children: []*Value{
			{Name: "inner", Text: "deep"},
		},
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"name":"extra"`, `"kind":"a"`, `"inner"`, `"deep"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() = %s, missing %q", data, want)
		}
	}

	// An unnamed pure text value collapses to a string.
	data, err = json.Marshal(Value{Text: "plain"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"plain"` {
		t.Errorf("Marshal(text) = %s, want %q", data, `"plain"`)
	}
}
