package xsdgen

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by xmlbind gen. DO NOT EDIT.
// Source schemas: {{.Sources}}

package {{.Package}}

import (
	"time"

	"github.com/jacoelho/xmlbind"
)
{{range $e := .Enums}}
// {{$e.GoName}} is generated from an enumeration restriction.
type {{$e.GoName}} {{$e.Base}}

const (
{{- range $v := $e.Values}}
	{{$e.ConstDecl $v}}
{{- end}}
)

var {{$e.VarName}} = &xmlbind.Enum{
	Values: []any{{"{"}}{{$e.ValuesExpr}}{{"}"}},
	Names:  map[string]any{{"{"}}{{$e.NamesExpr}}{{"}"}},
}
{{end}}
{{- range $t := .Types}}
type {{$t.GoName}} struct {
{{- if $t.BaseGoName}}
	{{$t.BaseGoName}}
{{- else}}
	xmlbind.Meta
{{- end}}
{{- range $f := $t.Fields}}
	{{$f.GoName}} {{$f.GoType}}
{{- end}}
}

func init() {
	xmlbind.Register[{{$t.GoName}}](xmlbind.TypeMeta{
{{- if $t.XMLRoot}}
		Root: {{printf "%q" $t.XMLRoot}},
{{- end}}
{{- if and $t.Root $t.Namespace}}
		Namespace: {{printf "%q" $t.Namespace}},
{{- end}}
{{- if $t.PrefixesExpr}}
		Prefixes: map[string]string{{"{"}}{{$t.PrefixesExpr}}{{"}"}},
{{- end}}
{{- if $t.BaseGoName}}
		Base: {{$t.BaseGoName}}{{"{}"}},
{{- end}}
		Fields: []xmlbind.Field{
{{- range $f := $t.Fields}}
			{{"{"}}{{$f.Literal}}{{"}"}},
{{- end}}
		},
	})
}
{{end}}`))

type fileView struct {
	Package string
	Sources string
	Enums   []*genEnum
	Types   []*genType
}

// emit renders one Go source file for the model and formats it with
// goimports so unused imports (time, typically) drop out.
func emit(model *genModel, sources []string) ([]byte, error) {
	view := fileView{
		Package: model.Package,
		Sources: strings.Join(sources, ", "),
		Enums:   model.Enums,
		Types:   model.Types,
	}
	var b strings.Builder
	if err := fileTemplate.Execute(&b, view); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	out, err := imports.Process(model.Package+".go", []byte(b.String()), nil)
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return out, nil
}

// ConstDecl renders one enum constant declaration.
func (e *genEnum) ConstDecl(v genEnumValue) string {
	if e.Base == "int64" {
		return fmt.Sprintf("%s %s = %s", v.ConstName, e.GoName, v.Literal)
	}
	return fmt.Sprintf("%s %s = %q", v.ConstName, e.GoName, v.Literal)
}

// ValuesExpr renders the enum descriptor's declared values.
func (e *genEnum) ValuesExpr() string {
	var parts []string
	for _, v := range e.Values {
		parts = append(parts, e.valueExpr(v))
	}
	return strings.Join(parts, ", ")
}

// NamesExpr renders the enum descriptor's name->value pairs.
func (e *genEnum) NamesExpr() string {
	var parts []string
	for _, v := range e.Values {
		parts = append(parts, fmt.Sprintf("%q: %s", v.Literal, e.valueExpr(v)))
	}
	return strings.Join(parts, ", ")
}

func (e *genEnum) valueExpr(v genEnumValue) string {
	if e.Base == "int64" {
		return fmt.Sprintf("int64(%s)", v.Literal)
	}
	return fmt.Sprintf("%q", v.Literal)
}

// PrefixesExpr renders the URI->prefix entries for a root type, sorted for
// deterministic output.
func (t *genType) PrefixesExpr() string {
	if !t.Root || len(t.Prefixes) == 0 {
		return ""
	}
	uris := make([]string, 0, len(t.Prefixes))
	for uri := range t.Prefixes {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	var parts []string
	for _, uri := range uris {
		parts = append(parts, fmt.Sprintf("%q: %q", uri, t.Prefixes[uri]))
	}
	return strings.Join(parts, ", ")
}

// Literal renders the xmlbind.Field literal body for one field.
func (f genField) Literal() string {
	parts := []string{fmt.Sprintf("Key: %q", f.GoName)}
	if f.XMLName != "" {
		parts = append(parts, fmt.Sprintf("Name: %q", f.XMLName))
	}
	parts = append(parts, fmt.Sprintf("Kind: xmlbind.%s", f.Kind))
	if f.Array {
		parts = append(parts, "Array: true")
	}
	if f.Nillable {
		parts = append(parts, "Nillable: true")
	}
	if f.Namespace != "" {
		parts = append(parts, fmt.Sprintf("Namespace: %q", f.Namespace))
	}
	if f.EnumVar != "" {
		parts = append(parts, fmt.Sprintf("Enum: %s", f.EnumVar))
	}
	return strings.Join(parts, ", ")
}
