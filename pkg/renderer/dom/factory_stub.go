//go:build !js || !wasm
// +build !js !wasm

package dom

import "fmt"

// Factory creates browser DOM nodes (stub for non-WASM builds)
type Factory struct{}

// NewFactory creates a browser DOM factory (stub)
func NewFactory() (*Factory, error) {
	return nil, fmt.Errorf("DOM factory is only available in WASM builds")
}
