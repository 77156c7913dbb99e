package feed

import (
	"encoding/xml"
	"strings"
)

// element is a generic XML node. Any child, bare or namespaced, stays addressable by its
// qualified name, so job board extensions like job_listing:company need no fixed schema.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

// children returns direct children with the given local name
func (e *element) children(local string) []element {
	var res []element
	for _, c := range e.Children {
		if c.XMLName.Local == local {
			res = append(res, c)
		}
	}
	return res
}

// namespaces maps namespace URIs to the prefixes declared in the document
type namespaces struct {
	prefixes  map[string]string
	defaultNS string
}

func newNamespaces() *namespaces {
	return &namespaces{prefixes: map[string]string{}}
}

// collect registers xmlns declarations found on the element
func (n *namespaces) collect(e *element) {
	for _, a := range e.Attrs {
		switch {
		case a.Name.Space == "xmlns":
			n.prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			n.defaultNS = a.Value
		}
	}
}

// qname returns "prefix:local" for namespaced names and "local" for bare ones
func (n *namespaces) qname(name xml.Name) string {
	if name.Space == "" || name.Space == n.defaultNS {
		return name.Local
	}
	if prefix, ok := n.prefixes[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	// undeclared prefix, encoding/xml keeps it as the space
	return name.Space + ":" + name.Local
}

// itemFields indexes item children by qualified name, first non-empty value wins
type itemFields map[string]string

func newItemFields(item *element, ns *namespaces) itemFields {
	ns.collect(item)
	res := itemFields{}
	for _, c := range item.Children {
		key := ns.qname(c.XMLName)
		if _, ok := res[key]; ok {
			continue
		}
		if v := strings.TrimSpace(c.Text); v != "" {
			res[key] = v
		}
	}
	return res
}

// first returns the first non-empty value among the keys
func (f itemFields) first(keys ...string) string {
	for _, k := range keys {
		if v := f[k]; v != "" {
			return v
		}
	}
	return ""
}
