package template

import (
	"fmt"
	"sort"

	"github.com/recera/domgen/pkg/dom"
)

// Execute runs the construction statements of c against a factory and
// returns the built fragment. It performs the same calls as the generated
// builder function, which makes it usable for previews and tests without
// compiling generated code.
func Execute[N any](c *Compiled, d dom.Factory[N]) (N, error) {
	var zero N
	if c == nil {
		return zero, fmt.Errorf("nil compiled template")
	}

	vars := make([]N, c.Vars)
	bound := make([]bool, c.Vars)

	get := func(v Var) (N, error) {
		if int(v) < 0 || int(v) >= len(vars) || !bound[v] {
			return zero, fmt.Errorf("template %q: variable %s used before definition", c.ID, v.Name())
		}
		return vars[v], nil
	}
	set := func(v Var, n N) error {
		if int(v) < 0 || int(v) >= len(vars) {
			return fmt.Errorf("template %q: variable %s out of range", c.ID, v.Name())
		}
		vars[v] = n
		bound[v] = true
		return nil
	}

	for _, s := range c.Stmts {
		switch s.Op {
		case OpFragment:
			if err := set(s.Var, d.CreateDocumentFragment()); err != nil {
				return zero, err
			}
		case OpElement:
			if err := set(s.Var, d.CreateElement(s.Tag, s.Class)); err != nil {
				return zero, err
			}
		case OpElementNS:
			if err := set(s.Var, d.CreateElementNS(s.Namespace, s.Tag, s.Class)); err != nil {
				return zero, err
			}
		case OpSetAttribute:
			el, err := get(s.Var)
			if err != nil {
				return zero, err
			}
			d.SetAttribute(el, s.Name, s.Value)
		case OpAppend:
			parent, err := get(s.Var)
			if err != nil {
				return zero, err
			}
			children := make([]N, 0, len(s.Args))
			for _, a := range s.Args {
				if a.IsText {
					children = append(children, d.CreateTextNode(a.Text))
					continue
				}
				child, err := get(a.Var)
				if err != nil {
					return zero, err
				}
				children = append(children, child)
			}
			d.Append(parent, children...)
		case OpReturn:
			return get(s.Var)
		default:
			return zero, fmt.Errorf("template %q: unsupported statement %s", c.ID, s.Op)
		}
	}
	return zero, fmt.Errorf("template %q: no return statement", c.ID)
}

// Dispatch finds the template with the given id among compiled templates
// sorted by id and executes it. Unknown ids fail with dom.ErrUnknownTemplate,
// exactly like the generated Build function.
func Dispatch[N any](compiled []*Compiled, d dom.Factory[N], id string) (N, error) {
	i := sort.Search(len(compiled), func(i int) bool { return compiled[i].ID >= id })
	if i < len(compiled) && compiled[i].ID == id {
		return Execute(compiled[i], d)
	}
	var zero N
	return zero, fmt.Errorf("%w: %q", dom.ErrUnknownTemplate, id)
}
