package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Construction statements emitted by the compiler

// Op identifies a construction statement
type Op uint8

const (
	// OpFragment binds Var to a new document fragment
	OpFragment Op = iota
	// OpElement binds Var to a new HTML element
	OpElement
	// OpElementNS binds Var to a new namespaced element
	OpElementNS
	// OpSetAttribute sets Name=Value on Var
	OpSetAttribute
	// OpAppend appends Args to Var
	OpAppend
	// OpReturn returns Var
	OpReturn
)

func (op Op) String() string {
	switch op {
	case OpFragment:
		return "fragment"
	case OpElement:
		return "element"
	case OpElementNS:
		return "elementNS"
	case OpSetAttribute:
		return "setAttribute"
	case OpAppend:
		return "append"
	case OpReturn:
		return "return"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// Var is a per-template variable handle
type Var int

// Name returns the Go identifier for the variable
func (v Var) Name() string {
	return "n" + strconv.Itoa(int(v))
}

// Arg is one append argument: a variable reference or a text literal
type Arg struct {
	Var    Var
	Text   string
	IsText bool
}

// Stmt is a single construction statement
type Stmt struct {
	Op        Op
	Var       Var
	Tag       string
	Namespace string
	Class     string
	Name      string
	Value     string
	Args      []Arg
}

// Go renders the statement as a line of Go source using d as the factory
// receiver. Every literal goes through strconv.Quote so any input yields a
// valid statement.
func (s Stmt) Go() string {
	switch s.Op {
	case OpFragment:
		return fmt.Sprintf("%s := d.CreateDocumentFragment()", s.Var.Name())
	case OpElement:
		return fmt.Sprintf("%s := d.CreateElement(%s, %s)",
			s.Var.Name(), strconv.Quote(s.Tag), strconv.Quote(s.Class))
	case OpElementNS:
		return fmt.Sprintf("%s := d.CreateElementNS(%s, %s, %s)",
			s.Var.Name(), strconv.Quote(s.Namespace), strconv.Quote(s.Tag), strconv.Quote(s.Class))
	case OpSetAttribute:
		return fmt.Sprintf("d.SetAttribute(%s, %s, %s)",
			s.Var.Name(), strconv.Quote(s.Name), strconv.Quote(s.Value))
	case OpAppend:
		args := make([]string, 0, len(s.Args)+1)
		args = append(args, s.Var.Name())
		for _, a := range s.Args {
			if a.IsText {
				args = append(args, "d.CreateTextNode("+strconv.Quote(a.Text)+")")
			} else {
				args = append(args, a.Var.Name())
			}
		}
		return "d.Append(" + strings.Join(args, ", ") + ")"
	case OpReturn:
		return "return " + s.Var.Name()
	default:
		return fmt.Sprintf("// unsupported %s", s.Op)
	}
}
