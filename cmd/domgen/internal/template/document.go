package template

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/recera/domgen/pkg/dom"
)

var (
	// ErrMissingID is returned for a <template> without a usable id attribute
	ErrMissingID = errors.New("template is missing an id attribute")
	// ErrInvalidID is returned when an id has no characters usable in a Go identifier
	ErrInvalidID = errors.New("template id cannot form a Go identifier")
	// ErrDuplicateID is returned when two templates share an id
	ErrDuplicateID = errors.New("duplicate template id")
	// ErrNameCollision is returned when an id derives a Go name that is already taken
	ErrNameCollision = errors.New("template id derives a Go name that is already taken")
)

// namespaceURIs maps the short namespace names x/net/html assigns to foreign
// elements onto their namespace URIs.
var namespaceURIs = map[string]string{
	"svg":  dom.SVGNamespace,
	"math": dom.MathMLNamespace,
}

// Document is a parsed template source document
type Document struct {
	Source string // path or label used in generated headers and errors
	root   *html.Node
}

// Definition is one <template> element of a Document
type Definition struct {
	ID      string
	Content *html.Node // the <template> element; its children are the content
}

// Load reads and parses the document at path
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template document: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Parse parses an HTML document from r
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Templates returns every <template> in the document sorted by id.
// Templates nested inside other templates are included.
func (d *Document) Templates() ([]*Definition, error) {
	var defs []*Definition
	seen := make(map[string]bool)
	names := make(map[string]string)

	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode && n.DataAtom == atom.Template && n.Namespace == "" {
			id, ok := attr(n, "id")
			id = strings.TrimSpace(id)
			if !ok || id == "" {
				return fmt.Errorf("%w: %s", ErrMissingID, describe(n))
			}
			if seen[id] {
				return fmt.Errorf("%w: %q", ErrDuplicateID, id)
			}
			seen[id] = true

			name, err := templateName(id)
			if err != nil {
				return err
			}
			if other, clash := names[name]; clash {
				return fmt.Errorf("%w: %q and %q", ErrNameCollision, other, id)
			}
			names[name] = id

			defs = append(defs, &Definition{ID: id, Content: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(d.root); err != nil {
		return nil, err
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

// attr looks up an attribute without a namespace prefix
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// namespaceURI returns the namespace URI of an element, empty for HTML
func namespaceURI(n *html.Node) string {
	if n.Namespace == "" {
		return ""
	}
	if uri, ok := namespaceURIs[n.Namespace]; ok {
		return uri
	}
	return n.Namespace
}

// describe renders a short start tag for error messages
func describe(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteString(" ")
		if a.Namespace != "" {
			b.WriteString(a.Namespace + ":")
		}
		fmt.Fprintf(&b, "%s=%q", a.Key, a.Val)
	}
	b.WriteString(">")
	return b.String()
}
