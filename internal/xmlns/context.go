package xmlns

import (
	"fmt"
	"sort"
)

// Context carries the URI->prefix assignments for a single marshal call. It
// is created at the root, threaded through the whole recursive walk, and
// discarded afterwards. All declarations it accumulates are hoisted onto the
// document root.
type Context struct {
	Default string

	prefixByURI map[string]string
	declared    []string // prefixes in declaration order
	uriOf       map[string]string
	counter     int

	// authoritative is set when the context was seeded from an instance
	// runtime prefix map; nested types' declared prefixes are then ignored.
	authoritative bool
}

// NewContext returns an empty context with the given default namespace.
func NewContext(defaultNamespace string) *Context {
	return &Context{
		Default:     defaultNamespace,
		prefixByURI: make(map[string]string),
		uriOf:       make(map[string]string),
	}
}

// SeedRuntime seeds the context from an instance's prefix->URI map, declaring
// every entry exactly as given. The empty prefix is skipped: the default
// namespace is governed by the type metadata, not the runtime map. Prefixes
// are sorted so repeated marshals declare them identically.
func (c *Context) SeedRuntime(prefixes map[string]string) {
	keys := make([]string, 0, len(prefixes))
	for prefix := range prefixes {
		if prefix == "" {
			continue
		}
		keys = append(keys, prefix)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		c.declare(prefix, prefixes[prefix])
	}
	c.authoritative = true
}

// SeedDeclared seeds the context from a type's declared URI->prefix map.
func (c *Context) SeedDeclared(prefixes map[string]string) {
	uris := make([]string, 0, len(prefixes))
	for uri := range prefixes {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		c.declare(prefixes[uri], uri)
	}
}

// Merge adds a nested type's declared URI->prefix bindings without
// overwriting existing ones. It is a no-op when the context was seeded from a
// runtime prefix map, whose declarations are authoritative.
func (c *Context) Merge(prefixes map[string]string) {
	if c.authoritative || len(prefixes) == 0 {
		return
	}
	uris := make([]string, 0, len(prefixes))
	for uri := range prefixes {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if _, ok := c.prefixByURI[uri]; ok {
			continue
		}
		if _, taken := c.uriOf[prefixes[uri]]; taken {
			continue
		}
		c.declare(prefixes[uri], uri)
	}
}

func (c *Context) declare(prefix, uri string) {
	if _, ok := c.uriOf[prefix]; ok {
		c.uriOf[prefix] = uri
		c.prefixByURI[uri] = prefix
		return
	}
	c.uriOf[prefix] = uri
	if _, ok := c.prefixByURI[uri]; !ok {
		c.prefixByURI[uri] = prefix
	}
	c.declared = append(c.declared, prefix)
}

// EnsurePrefix returns the prefix bound to uri, synthesizing and declaring a
// fresh one on first need. The xsi namespace prefers its conventional prefix
// when free.
func (c *Context) EnsurePrefix(uri string) string {
	if prefix, ok := c.prefixByURI[uri]; ok {
		return prefix
	}
	if uri == XSINamespace {
		if _, taken := c.uriOf[XSIPreferredPrefix]; !taken {
			c.declare(XSIPreferredPrefix, uri)
			return XSIPreferredPrefix
		}
	}
	for {
		c.counter++
		prefix := fmt.Sprintf("ns%d", c.counter)
		if _, taken := c.uriOf[prefix]; taken {
			continue
		}
		c.declare(prefix, uri)
		return prefix
	}
}

// QualifyElement returns the raw element name for a local name in a
// namespace. Elements in the default namespace stay unprefixed.
func (c *Context) QualifyElement(local, namespace string) string {
	if namespace == "" || namespace == c.Default {
		return local
	}
	return c.EnsurePrefix(namespace) + ":" + local
}

// QualifyAttribute returns the raw attribute name for a local name in a
// namespace. Attributes never benefit from the default namespace shortcut.
func (c *Context) QualifyAttribute(local, namespace string) string {
	if namespace == "" {
		return local
	}
	return c.EnsurePrefix(namespace) + ":" + local
}

// Declarations returns the xmlns declarations to place on the document root:
// the default namespace first, then prefixed declarations in declaration
// order.
func (c *Context) Declarations() []Declaration {
	out := make([]Declaration, 0, len(c.declared)+1)
	if c.Default != "" {
		out = append(out, Declaration{Name: XMLNSPrefix, URI: c.Default})
	}
	for _, prefix := range c.declared {
		out = append(out, Declaration{Name: XMLNSPrefix + ":" + prefix, URI: c.uriOf[prefix]})
	}
	return out
}

// Declaration is a single xmlns attribute to emit on the root element.
type Declaration struct {
	Name string
	URI  string
}
