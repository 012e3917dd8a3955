//go:build js && wasm
// +build js,wasm

package dom

import (
	"fmt"
	"syscall/js"

	domapi "github.com/recera/domgen/pkg/dom"
)

// Factory creates browser DOM nodes through syscall/js. It satisfies
// domapi.Factory for js.Value nodes.
type Factory struct {
	document js.Value
}

var _ domapi.Factory[js.Value] = (*Factory)(nil)

// NewFactory creates a factory bound to the global document
func NewFactory() (*Factory, error) {
	document := js.Global().Get("document")
	if document.IsUndefined() || document.IsNull() {
		return nil, fmt.Errorf("no global document available")
	}
	return &Factory{document: document}, nil
}

// CreateDocumentFragment creates an empty DocumentFragment
func (f *Factory) CreateDocumentFragment() js.Value {
	return f.document.Call("createDocumentFragment")
}

// CreateElement creates an HTML element and assigns its class list
func (f *Factory) CreateElement(tag, class string) js.Value {
	el := f.document.Call("createElement", tag)
	if class != "" {
		el.Set("className", class)
	}
	return el
}

// CreateElementNS creates a namespaced element. className is read-only on
// SVG elements, so the class goes through setAttribute.
func (f *Factory) CreateElementNS(namespace, tag, class string) js.Value {
	el := f.document.Call("createElementNS", namespace, tag)
	if class != "" {
		el.Call("setAttribute", "class", class)
	}
	return el
}

// CreateTextNode creates a text node
func (f *Factory) CreateTextNode(text string) js.Value {
	return f.document.Call("createTextNode", text)
}

// SetAttribute sets an attribute on an element
func (f *Factory) SetAttribute(el js.Value, name, value string) {
	el.Call("setAttribute", name, value)
}

// Append appends all children in a single ParentNode.append call
func (f *Factory) Append(parent js.Value, children ...js.Value) {
	if len(children) == 0 {
		return
	}
	args := make([]any, len(children))
	for i, c := range children {
		args[i] = c
	}
	parent.Call("append", args...)
}
