package xsdgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xmlbind/xsdgen"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const orderSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:po="http://example.com/po"
           targetNamespace="http://example.com/po"
           elementFormDefault="qualified">
  <xs:include schemaLocation="common.xsd"/>
  <xs:element name="purchaseOrder" type="po:PurchaseOrderType"/>
  <xs:complexType name="PurchaseOrderType">
    <xs:sequence>
      <xs:element name="shipTo" type="po:AddressType"/>
      <xs:element name="comment" type="xs:string" minOccurs="0" nillable="true"/>
      <xs:element name="item" type="po:ItemType" maxOccurs="unbounded"/>
    </xs:sequence>
    <xs:attribute name="orderDate" type="xs:date"/>
  </xs:complexType>
  <xs:complexType name="ItemType">
    <xs:sequence>
      <xs:element name="productName" type="xs:string"/>
      <xs:element name="quantity" type="xs:int"/>
      <xs:element name="status" type="po:StatusType"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

const commonSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="http://example.com/po">
  <xs:simpleType name="StatusType">
    <xs:restriction base="xs:string">
      <xs:enumeration value="pending"/>
      <xs:enumeration value="shipped"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:complexType name="AddressType">
    <xs:sequence>
      <xs:element name="street" type="xs:string"/>
      <xs:element name="city" type="xs:string"/>
    </xs:sequence>
    <xs:attribute name="country" type="xs:string"/>
  </xs:complexType>
</xs:schema>`

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "order.xsd", orderSchema)
	writeFile(t, dir, "common.xsd", commonSchema)

	out := filepath.Join(dir, "gen")
	written, err := xsdgen.Generate(xsdgen.Config{Package: "po", Output: out}, schema)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(out, "order.go"), written[0])

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	src := string(data)

	assert.Contains(t, src, "// Code generated by xmlbind gen. DO NOT EDIT.")
	assert.Contains(t, src, "package po")

	assert.Contains(t, src, "type PurchaseOrderType struct")
	assert.Contains(t, src, "type AddressType struct")
	assert.Contains(t, src, "type ItemType struct")
	assert.Contains(t, src, "xmlbind.Meta")
	assert.Regexp(t, `ShipTo\s+AddressType`, src)
	assert.Regexp(t, `Comment\s+\*string`, src)
	assert.Regexp(t, `Item\s+\[\]ItemType`, src)
	assert.Regexp(t, `OrderDate\s+time\.Time`, src)

	assert.Contains(t, src, "type StatusType string")
	assert.Contains(t, src, `StatusTypePending StatusType = "pending"`)
	assert.Contains(t, src, `StatusTypeShipped StatusType = "shipped"`)
	assert.Contains(t, src, "var statusTypeEnum = &xmlbind.Enum{")
	assert.Regexp(t, `Status\s+StatusType`, src)

	assert.Contains(t, src, "xmlbind.Register[PurchaseOrderType]")
	assert.Regexp(t, `Root:\s+"purchaseOrder"`, src)
	assert.Regexp(t, `Namespace:\s+"http://example.com/po"`, src)
	assert.Contains(t, src, `"http://example.com/po": "po"`)
	assert.Contains(t, src, `{Key: "OrderDate", Name: "orderDate", Kind: xmlbind.Attribute}`)
	assert.Contains(t, src, `{Key: "ShipTo", Name: "shipTo", Kind: xmlbind.Element, Namespace: "http://example.com/po"}`)
	assert.Contains(t, src, `{Key: "Comment", Name: "comment", Kind: xmlbind.Element, Nillable: true, Namespace: "http://example.com/po"}`)
	assert.Contains(t, src, `{Key: "Item", Name: "item", Kind: xmlbind.Element, Array: true, Namespace: "http://example.com/po"}`)
	assert.Contains(t, src, `Enum: statusTypeEnum`)
}

func TestGenerateFileNameMapping(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "order.xsd", orderSchema)
	writeFile(t, dir, "common.xsd", commonSchema)

	out := filepath.Join(dir, "gen")
	written, err := xsdgen.Generate(xsdgen.Config{
		Package:   "po",
		Output:    out,
		FileNames: map[string]string{"http://example.com/po": "purchase.go"},
	}, schema)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(out, "purchase.go"), written[0])
}

func TestGenerateExtension(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "derived.xsd", `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Annotated">
    <xs:sequence>
      <xs:element name="annotation" type="xs:string" minOccurs="0"/>
    </xs:sequence>
    <xs:attribute name="id" type="xs:string"/>
  </xs:complexType>
  <xs:complexType name="TopLevel">
    <xs:complexContent>
      <xs:extension base="Annotated">
        <xs:sequence>
          <xs:element name="name" type="xs:string"/>
        </xs:sequence>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:element name="topLevel" type="TopLevel"/>
</xs:schema>`)

	out := filepath.Join(dir, "gen")
	written, err := xsdgen.Generate(xsdgen.Config{Package: "derived", Output: out}, schema)
	require.NoError(t, err)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	src := string(data)

	assert.Regexp(t, `type TopLevel struct \{\n\tAnnotated\n`, src)
	assert.Regexp(t, `Base:\s+Annotated\{\}`, src)
	assert.Contains(t, src, `{Key: "Name", Name: "name", Kind: xmlbind.Element}`)
	// Derived types embed the base instead of a second metadata anchor.
	assert.NotRegexp(t, `type TopLevel struct \{\n\tAnnotated\n\txmlbind\.Meta`, src)
}

func TestGenerateIntEnumAndWildcards(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "host.xsd", `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:simpleType name="Priority">
    <xs:restriction base="xs:int">
      <xs:enumeration value="1"/>
      <xs:enumeration value="2"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:element name="host">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="priority" type="Priority"/>
        <xs:any minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:anyAttribute/>
    </xs:complexType>
  </xs:element>
</xs:schema>`)

	model, err := xsdgen.DebugModel(xsdgen.Config{Package: "host"}, schema)
	require.NoError(t, err)

	out := filepath.Join(dir, "gen")
	written, err := xsdgen.Generate(xsdgen.Config{Package: "host", Output: out}, schema)
	require.NoError(t, err, spew.Sdump(model))

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	src := string(data)

	assert.Contains(t, src, "type Priority int64")
	assert.Contains(t, src, "PriorityX1 Priority = 1")
	assert.Contains(t, src, "PriorityX2 Priority = 2")
	assert.Contains(t, src, `Values: []any{int64(1), int64(2)}`)
	assert.Contains(t, src, `"1": int64(1)`)
	assert.Regexp(t, `Extra\s+\[\]xmlbind\.Value`, src)
	assert.Regexp(t, `OtherAttrs\s+map\[string\]string`, src)
	assert.Contains(t, src, `{Key: "Extra", Kind: xmlbind.AnyElement}`)
	assert.Contains(t, src, `{Key: "OtherAttrs", Kind: xmlbind.AnyAttribute}`)
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := xsdgen.Generate(xsdgen.Config{Output: dir})
	assert.ErrorContains(t, err, "no schema files")

	_, err = xsdgen.Generate(xsdgen.Config{Output: dir}, filepath.Join(dir, "missing.xsd"))
	assert.Error(t, err)

	notSchema := writeFile(t, dir, "plain.xml", `<root/>`)
	_, err = xsdgen.Generate(xsdgen.Config{Output: dir}, notSchema)
	assert.ErrorContains(t, err, "not an XML Schema document")

	badGroup := writeFile(t, dir, "badgroup.xsd", `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Broken">
    <xs:group ref="nowhere"/>
  </xs:complexType>
  <xs:element name="broken" type="Broken"/>
</xs:schema>`)
	_, err = xsdgen.Generate(xsdgen.Config{Output: dir}, badGroup)
	assert.ErrorContains(t, err, "unresolved group reference")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "xmlbind.yaml", "package: invoices\noutput: ./gen\ntype_suffix: XML\n")

	cfg, err := xsdgen.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "invoices", cfg.Package)
	assert.Equal(t, "./gen", cfg.Output)
	assert.Equal(t, "XML", cfg.TypeSuffix)

	_, err = xsdgen.LoadConfig(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "package: [oops\n")
	_, err = xsdgen.LoadConfig(bad)
	assert.Error(t, err)
}
