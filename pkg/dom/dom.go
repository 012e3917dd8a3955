// Package dom defines the construction surface that domgen-generated template
// builders call at runtime.
//
// Generated code never parses HTML. Each template becomes a function that
// creates nodes through a Factory and returns a document fragment holding the
// template content. Factories exist for the browser (renderer/dom, js/wasm
// only) and for server-side trees (renderer/html).
package dom

import "errors"

// Namespace URIs understood by factories.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// ErrUnknownTemplate is wrapped by generated dispatchers when asked for a
// template id they were not compiled with.
var ErrUnknownTemplate = errors.New("unknown template")

// Factory creates and links nodes of type N.
//
// The method set mirrors the browser DOM: CreateElement and CreateElementNS
// take the space-joined class list so that generated code never emits a
// separate class attribute.
type Factory[N any] interface {
	CreateDocumentFragment() N
	CreateElement(tag, class string) N
	CreateElementNS(namespace, tag, class string) N
	CreateTextNode(text string) N
	SetAttribute(el N, name, value string)
	// Append adds children to parent in order. Appending a fragment moves
	// its children, as in the DOM.
	Append(parent N, children ...N)
}
