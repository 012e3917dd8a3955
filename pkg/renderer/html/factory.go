package html

import (
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/recera/domgen/pkg/dom"
)

// foreignNamespaces maps namespace URIs to the short names x/net/html uses
// on element nodes.
var foreignNamespaces = map[string]string{
	dom.SVGNamespace:    "svg",
	dom.MathMLNamespace: "math",
}

// attrPrefixes are the attribute prefixes that x/net/html keeps in
// Attribute.Namespace for foreign content.
var attrPrefixes = map[string]bool{
	"xlink": true,
	"xml":   true,
	"xmlns": true,
}

// Factory builds x/net/html node trees. It satisfies dom.Factory[*nethtml.Node]
// so generated template builders can render on the server.
type Factory struct{}

var _ dom.Factory[*nethtml.Node] = (*Factory)(nil)

// NewFactory creates a new HTML node factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateDocumentFragment returns a parentless document node used as a fragment.
func (f *Factory) CreateDocumentFragment() *nethtml.Node {
	return &nethtml.Node{Type: nethtml.DocumentNode}
}

// CreateElement creates an HTML element with an optional class list
func (f *Factory) CreateElement(tag, class string) *nethtml.Node {
	n := &nethtml.Node{
		Type:     nethtml.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		n.Attr = append(n.Attr, nethtml.Attribute{Key: "class", Val: class})
	}
	return n
}

// CreateElementNS creates an element in the given namespace. Unknown
// namespace URIs are stored verbatim.
func (f *Factory) CreateElementNS(namespace, tag, class string) *nethtml.Node {
	if namespace == "" || namespace == dom.HTMLNamespace {
		return f.CreateElement(tag, class)
	}
	ns, ok := foreignNamespaces[namespace]
	if !ok {
		ns = namespace
	}
	n := &nethtml.Node{
		Type:      nethtml.ElementNode,
		Data:      tag,
		Namespace: ns,
	}
	if class != "" {
		n.Attr = append(n.Attr, nethtml.Attribute{Key: "class", Val: class})
	}
	return n
}

// CreateTextNode creates a text node
func (f *Factory) CreateTextNode(text string) *nethtml.Node {
	return &nethtml.Node{Type: nethtml.TextNode, Data: text}
}

// SetAttribute sets or replaces an attribute on an element
func (f *Factory) SetAttribute(el *nethtml.Node, name, value string) {
	if el == nil || el.Type != nethtml.ElementNode {
		return
	}

	var prefix string
	key := name
	if el.Namespace != "" {
		if p, local, ok := strings.Cut(name, ":"); ok && attrPrefixes[p] {
			prefix, key = p, local
		}
	}

	for i := range el.Attr {
		if el.Attr[i].Namespace == prefix && el.Attr[i].Key == key {
			el.Attr[i].Val = value
			return
		}
	}
	el.Attr = append(el.Attr, nethtml.Attribute{Namespace: prefix, Key: key, Val: value})
}

// Append appends children to parent, moving nodes that already have a parent
// and unwrapping fragments.
func (f *Factory) Append(parent *nethtml.Node, children ...*nethtml.Node) {
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.Type == nethtml.DocumentNode {
			for c := child.FirstChild; c != nil; {
				next := c.NextSibling
				child.RemoveChild(c)
				parent.AppendChild(c)
				c = next
			}
			continue
		}
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		parent.AppendChild(child)
	}
}

// RenderToString serializes a node built by the factory. Fragments render
// as the concatenation of their children.
func RenderToString(n *nethtml.Node) (string, error) {
	var buf strings.Builder
	if n == nil {
		return "", nil
	}
	if err := nethtml.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
