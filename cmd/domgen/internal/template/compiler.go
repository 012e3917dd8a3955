package template

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// htmlSpace is the HTML definition of ASCII whitespace. U+00A0 is content.
const htmlSpace = " \t\n\f\r"

var whitespaceRun = regexp.MustCompile(`[ \t\n\f\r]+`)

// Whitespace configures which text nodes survive compilation
type Whitespace struct {
	// InlineTags keep a whitespace-only text node alive when one of its
	// element neighbours has one of these tags.
	InlineTags []string
	// LiteralTags disable whitespace collapsing for all text beneath them.
	LiteralTags []string
}

// DefaultWhitespace returns the whitespace rules used when none are configured
func DefaultWhitespace() Whitespace {
	return Whitespace{
		InlineTags:  []string{"span"},
		LiteralTags: []string{"pre", "textarea"},
	}
}

// Compiled is the construction program for one template
type Compiled struct {
	ID        string
	FuncName  string // unexported builder function, e.g. buildCardHeaderTemplate
	ConstName string // TemplateID constant, e.g. TemplateCardHeader
	Stmts     []Stmt
	Vars      int // number of variables the statements bind
}

// compiler holds the state of one template compilation. Variable handles
// are keyed by node identity and die with the compiler.
type compiler struct {
	vars    map[*html.Node]Var
	next    Var
	stmts   []Stmt
	inline  map[string]bool
	literal map[string]bool
}

func newCompiler(ws Whitespace) *compiler {
	return &compiler{
		vars:    make(map[*html.Node]Var),
		inline:  tagSet(ws.InlineTags),
		literal: tagSet(ws.LiteralTags),
	}
}

// Compile turns one template definition into construction statements
func Compile(def *Definition, ws Whitespace) (*Compiled, error) {
	if def == nil || def.Content == nil {
		return nil, fmt.Errorf("nil template definition")
	}
	if strings.TrimSpace(def.ID) == "" {
		return nil, ErrMissingID
	}
	name, err := templateName(def.ID)
	if err != nil {
		return nil, err
	}

	c := newCompiler(ws)
	frag, _ := c.bind(def.Content)
	c.emit(Stmt{Op: OpFragment, Var: frag})

	for child := def.Content.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			v := c.element(child, false)
			c.emit(Stmt{Op: OpAppend, Var: frag, Args: []Arg{{Var: v}}})
		case html.TextNode:
			if text, ok := c.text(child, false); ok {
				c.emit(Stmt{Op: OpAppend, Var: frag, Args: []Arg{{Text: text, IsText: true}}})
			}
		}
	}
	c.emit(Stmt{Op: OpReturn, Var: frag})

	return &Compiled{
		ID:        def.ID,
		FuncName:  "build" + name + "Template",
		ConstName: "Template" + name,
		Stmts:     c.stmts,
		Vars:      int(c.next),
	}, nil
}

// CompileAll compiles definitions in the given order
func CompileAll(defs []*Definition, ws Whitespace) ([]*Compiled, error) {
	out := make([]*Compiled, 0, len(defs))
	for _, def := range defs {
		c, err := Compile(def, ws)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", def.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// bind returns the variable for n, allocating one on first sight
func (c *compiler) bind(n *html.Node) (Var, bool) {
	if v, ok := c.vars[n]; ok {
		return v, false
	}
	v := c.next
	c.next++
	c.vars[n] = v
	return v, true
}

func (c *compiler) emit(s Stmt) {
	c.stmts = append(c.stmts, s)
}

// element emits the creation, attributes and children of n and returns
// its variable. A node that already has a variable is not compiled again.
func (c *compiler) element(n *html.Node, literal bool) Var {
	v, fresh := c.bind(n)
	if !fresh {
		return v
	}

	class := classList(n)
	if ns := namespaceURI(n); isSVG(ns) {
		c.emit(Stmt{Op: OpElementNS, Var: v, Namespace: ns, Tag: n.Data, Class: class})
	} else {
		c.emit(Stmt{Op: OpElement, Var: v, Tag: n.Data, Class: class})
	}

	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			continue
		}
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		c.emit(Stmt{Op: OpSetAttribute, Var: v, Name: name, Value: a.Val})
	}

	literal = literal || (n.Namespace == "" && c.literal[n.Data])

	var args []Arg
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			args = append(args, Arg{Var: c.element(child, literal)})
		case html.TextNode:
			if text, ok := c.text(child, literal); ok {
				args = append(args, Arg{Text: text, IsText: true})
			}
		}
	}
	if len(args) > 0 {
		c.emit(Stmt{Op: OpAppend, Var: v, Args: args})
	}
	return v
}

// text applies the whitespace rules to a text node
func (c *compiler) text(n *html.Node, literal bool) (string, bool) {
	if !c.significant(n) {
		return "", false
	}
	if literal {
		return n.Data, true
	}
	return whitespaceRun.ReplaceAllString(n.Data, " "), true
}

// significant reports whether a text node must be kept. Whitespace-only
// text survives only between two elements where one is an inline tag.
func (c *compiler) significant(n *html.Node) bool {
	if strings.Trim(n.Data, htmlSpace) != "" {
		return true
	}
	prev, next := n.PrevSibling, n.NextSibling
	if prev == nil || next == nil {
		return false
	}
	if prev.Type != html.ElementNode || next.Type != html.ElementNode {
		return false
	}
	return c.isInline(prev) || c.isInline(next)
}

func (c *compiler) isInline(n *html.Node) bool {
	return n.Namespace == "" && c.inline[n.Data]
}

// classList returns the class tokens of n joined by single spaces, with
// duplicates removed in first-seen order.
func classList(n *html.Node) string {
	raw, ok := attr(n, "class")
	if !ok {
		return ""
	}
	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(htmlSpace, r)
	}) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

func isSVG(namespace string) bool {
	return namespace != "" && strings.HasSuffix(namespace, "/svg")
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return set
}

// reservedNames are derived names whose constants would redeclare the
// TemplateID type or the TemplateIDs slice of the generated file.
var reservedNames = map[string]string{
	"ID":  "TemplateID",
	"IDs": "TemplateIDs",
}

// templateName derives the identifier stem shared by a template's builder
// function and TemplateID constant.
func templateName(id string) (string, error) {
	name := camelCase(id)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if decl, ok := reservedNames[name]; ok {
		return "", fmt.Errorf("%w: %q derives %s, which every generated file declares", ErrNameCollision, id, decl)
	}
	return name, nil
}

// camelCase upper-cases the first letter of every letter/digit run of id
// and drops everything else: "card-header" becomes "CardHeader".
func camelCase(id string) string {
	var b strings.Builder
	upper := true
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
