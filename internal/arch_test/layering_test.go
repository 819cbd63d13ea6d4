package arch_test

import "testing"

// layers places every internal package in the dependency order. A package
// may import packages on its own layer or below.
var layers = map[string]int{
	"graph":     0,
	"telemetry": 0,
	"ui":        0,
	"watch":     0,

	"corpus": 1,
	"rank":   1,

	"config": 2,
	"report": 2,
	"store":  2,
}

func TestLayering(t *testing.T) {
	t.Parallel()

	for _, name := range packageNames(t) {
		layer, ok := layers[name]
		if !ok {
			t.Errorf("package %s has no layer; add it to layers", name)
			continue
		}
		for _, imp := range loadPackage(t, name).internalImports() {
			if l, ok := layers[imp]; ok && l > layer {
				t.Errorf("%s (layer %d) imports %s (layer %d)", name, layer, imp, l)
			}
		}
	}
}

func TestLayering_NoStaleEntries(t *testing.T) {
	t.Parallel()

	present := make(map[string]bool)
	for _, name := range packageNames(t) {
		present[name] = true
	}
	for name := range layers {
		if !present[name] {
			t.Errorf("layers lists %s, which no longer exists", name)
		}
	}
}
