package template

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// DefaultRuntimeImport is the import path of the dom.Factory contract
const DefaultRuntimeImport = "github.com/recera/domgen/pkg/dom"

// Options controls compilation and emission
type Options struct {
	Package       string // package clause of the generated file
	RuntimeImport string // import path providing Factory and ErrUnknownTemplate
	Whitespace    Whitespace
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Package:       "templates",
		RuntimeImport: DefaultRuntimeImport,
		Whitespace:    DefaultWhitespace(),
	}
}

// Output is the result of compiling a whole document
type Output struct {
	Compiled []*Compiled // sorted by id
	Code     []byte      // gofmt-ed Go source
}

// Source renders the builder function for one template
func (c *Compiled) Source() string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s builds the %s template.\n", c.FuncName, strconv.Quote(c.ID))
	fmt.Fprintf(&b, "func %s[N any](d dom.Factory[N]) N {\n", c.FuncName)
	for _, s := range c.Stmts {
		b.WriteString("\t")
		b.WriteString(s.Go())
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// Dispatcher renders the exported Build function that routes a TemplateID
// to its builder. Unknown ids return an error wrapping ErrUnknownTemplate.
func Dispatcher(compiled []*Compiled) string {
	var b strings.Builder
	b.WriteString("// Build constructs the template identified by id using d.\n")
	b.WriteString("func Build[N any](d dom.Factory[N], id TemplateID) (N, error) {\n")
	b.WriteString("\tswitch id {\n")
	for _, c := range compiled {
		fmt.Fprintf(&b, "\tcase %s:\n", c.ConstName)
		fmt.Fprintf(&b, "\t\treturn %s(d), nil\n", c.FuncName)
	}
	b.WriteString("\t}\n")
	b.WriteString("\tvar zero N\n")
	b.WriteString("\treturn zero, fmt.Errorf(\"%w: %q\", dom.ErrUnknownTemplate, id)\n")
	b.WriteString("}\n")
	return b.String()
}

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Code generated by domgen from {{ .Source }}. DO NOT EDIT.

package {{ .Package }}

import (
	"fmt"

	{{ if .RuntimeAlias }}{{ .RuntimeAlias }} {{ end }}{{ quote .RuntimeImport }}
)

// TemplateID identifies a template compiled into this file.
type TemplateID string

const (
{{- range .Templates }}
	{{ .ConstName }} TemplateID = {{ quote .ID }}
{{- end }}
)

// TemplateIDs lists every TemplateID in ascending order.
var TemplateIDs = []TemplateID{
{{- range .Templates }}
	{{ .ConstName }},
{{- end }}
}
{{ range .Templates }}
{{ .Source }}{{ end }}
{{ .Dispatcher }}`))

// Emit assembles the generated file for compiled templates. source names
// the input document in the header comment.
func Emit(compiled []*Compiled, source string, opts Options) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	runtimeImport := opts.RuntimeImport
	if runtimeImport == "" {
		runtimeImport = DefaultRuntimeImport
	}
	var alias string
	if path.Base(runtimeImport) != "dom" {
		alias = "dom"
	}
	if source == "" {
		source = "<stdin>"
	}

	data := struct {
		Source        string
		Package       string
		RuntimeImport string
		RuntimeAlias  string
		Templates     []*Compiled
		Dispatcher    string
	}{
		Source:        filepath.ToSlash(filepath.Base(source)),
		Package:       opts.Package,
		RuntimeImport: runtimeImport,
		RuntimeAlias:  alias,
		Templates:     compiled,
		Dispatcher:    Dispatcher(compiled),
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render generated file: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w", err)
	}
	return formatted, nil
}

// Generate enumerates, compiles and emits every template of doc
func Generate(doc *Document, opts Options) (*Output, error) {
	defs, err := doc.Templates()
	if err != nil {
		return nil, err
	}
	compiled, err := CompileAll(defs, opts.Whitespace)
	if err != nil {
		return nil, err
	}
	code, err := Emit(compiled, doc.Source, opts)
	if err != nil {
		return nil, err
	}
	return &Output{Compiled: compiled, Code: code}, nil
}
