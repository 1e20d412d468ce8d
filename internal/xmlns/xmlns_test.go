package xmlns

import (
	"strings"
	"testing"

	"github.com/jacoelho/xmlbind/internal/xmldom"
)

func parseRoot(t *testing.T, input string) *xmldom.Node {
	t.Helper()
	doc, err := xmldom.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc.Root
}

func TestCollectShadowsInherited(t *testing.T) {
	root := parseRoot(t, `<a xmlns="http://outer" xmlns:p="http://p-outer"><b xmlns:p="http://p-inner"/></a>`)
	outer := Collect(root, nil)
	if outer[""] != "http://outer" || outer["p"] != "http://p-outer" {
		t.Fatalf("outer scope = %v", outer)
	}
	inner := Collect(root.Elements()[0], outer)
	if inner["p"] != "http://p-inner" {
		t.Errorf("inner p = %q, want shadowed %q", inner["p"], "http://p-inner")
	}
	if inner[""] != "http://outer" {
		t.Errorf("inner default = %q, want inherited %q", inner[""], "http://outer")
	}
	if outer["p"] != "http://p-outer" {
		t.Error("Collect mutated the inherited scope")
	}
}

func TestResolveAttributeIgnoresDefaultNamespace(t *testing.T) {
	root := parseRoot(t, `<a xmlns="http://ns" xmlns:q="http://q"/>`)
	scope := Collect(root, nil)

	if got := scope.ResolveElement("child"); got != "http://ns" {
		t.Errorf("ResolveElement(child) = %q, want default namespace", got)
	}
	if got := scope.ResolveAttribute("id"); got != "" {
		t.Errorf("ResolveAttribute(id) = %q, want empty", got)
	}
	if got := scope.ResolveAttribute("q:id"); got != "http://q" {
		t.Errorf("ResolveAttribute(q:id) = %q, want %q", got, "http://q")
	}
	if got := scope.ResolveAttribute("xml:lang"); got != XMLNamespace {
		t.Errorf("ResolveAttribute(xml:lang) = %q, want xml namespace", got)
	}
}

func TestAttributeMatchesRequiresPrefixForNamespace(t *testing.T) {
	scope := Scope{"q": "http://q"}
	if scope.AttributeMatches("id", "id", "http://q") {
		t.Error("unprefixed attribute matched an expected namespace")
	}
	if !scope.AttributeMatches("q:id", "id", "http://q") {
		t.Error("prefixed attribute did not match its namespace")
	}
	if !scope.AttributeMatches("id", "id", "") {
		t.Error("plain attribute did not match without namespace")
	}
	if scope.AttributeMatches("xmlns:q", "q", "") {
		t.Error("namespace declaration treated as a bindable attribute")
	}
}

func TestContextQualify(t *testing.T) {
	ctx := NewContext("http://default")
	if got := ctx.QualifyElement("name", "http://default"); got != "name" {
		t.Errorf("default-namespace element = %q, want unprefixed", got)
	}
	if got := ctx.QualifyElement("name", ""); got != "name" {
		t.Errorf("no-namespace element = %q, want unprefixed", got)
	}
	if got := ctx.QualifyAttribute("id", "http://default"); got != "ns1:id" {
		t.Errorf("default-namespace attribute = %q, want synthesized prefix", got)
	}
	if got := ctx.QualifyElement("other", "http://other"); got != "ns2:other" {
		t.Errorf("foreign element = %q, want ns2:other", got)
	}
	// Reuse, not re-synthesis.
	if got := ctx.QualifyElement("other", "http://other"); got != "ns2:other" {
		t.Errorf("second qualify = %q, want stable prefix", got)
	}
}

func TestContextSeedRuntimeIsAuthoritative(t *testing.T) {
	ctx := NewContext("")
	ctx.SeedRuntime(map[string]string{"b": "http://b", "a": "http://a", "": "ignored"})
	ctx.Merge(map[string]string{"http://c": "c"})

	decls := ctx.Declarations()
	if len(decls) != 2 {
		t.Fatalf("Declarations() = %v, want exactly the runtime entries", decls)
	}
	if decls[0].Name != "xmlns:a" || decls[1].Name != "xmlns:b" {
		t.Errorf("declaration order = %v, want sorted [xmlns:a xmlns:b]", decls)
	}
}

func TestContextMergeDoesNotOverwrite(t *testing.T) {
	ctx := NewContext("http://default")
	ctx.SeedDeclared(map[string]string{"http://a": "a"})
	ctx.Merge(map[string]string{"http://a": "other", "http://b": "b"})

	if got := ctx.EnsurePrefix("http://a"); got != "a" {
		t.Errorf("EnsurePrefix(a) = %q, want original binding", got)
	}
	if got := ctx.EnsurePrefix("http://b"); got != "b" {
		t.Errorf("EnsurePrefix(b) = %q, want merged binding", got)
	}
	decls := ctx.Declarations()
	if decls[0].Name != XMLNSPrefix || decls[0].URI != "http://default" {
		t.Errorf("first declaration = %v, want default xmlns", decls[0])
	}
}

func TestContextPrefersXSIPrefix(t *testing.T) {
	ctx := NewContext("")
	if got := ctx.EnsurePrefix(XSINamespace); got != XSIPreferredPrefix {
		t.Errorf("EnsurePrefix(xsi) = %q, want %q", got, XSIPreferredPrefix)
	}
}
