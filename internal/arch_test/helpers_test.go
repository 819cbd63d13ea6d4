// Package arch_test checks structural rules across internal/: the package
// layering, documentation of exported API, package-level state, interface
// placement and file size.
package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/papapumpkin/linkrank/internal/"

// pkgSource is one parsed internal package, test files excluded.
type pkgSource struct {
	name  string
	dir   string
	fset  *token.FileSet
	files map[string]*ast.File // keyed by path
}

// internalDir locates internal/ relative to this file.
func internalDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate arch_test source")
	}
	return filepath.Dir(filepath.Dir(file))
}

// packageNames lists the internal packages with Go source, arch_test aside.
func packageNames(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(internalDir(t))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		if len(goFiles(t, filepath.Join(internalDir(t), e.Name()), false)) > 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// goFiles returns the .go files in dir, with or without _test.go files.
func goFiles(t *testing.T, dir string, withTests bool) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !withTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// loadPackage parses the non-test sources of an internal package.
func loadPackage(t *testing.T, name string) pkgSource {
	t.Helper()
	p := pkgSource{
		name:  name,
		dir:   filepath.Join(internalDir(t), name),
		fset:  token.NewFileSet(),
		files: make(map[string]*ast.File),
	}
	for _, path := range goFiles(t, p.dir, false) {
		f, err := parser.ParseFile(p.fset, path, nil, parser.ParseComments)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		p.files[path] = f
	}
	return p
}

// internalImports returns the internal packages p imports, by name.
func (p pkgSource) internalImports() []string {
	seen := make(map[string]bool)
	for _, f := range p.files {
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rest, ok := strings.CutPrefix(path, internalImportPrefix); ok {
				name, _, _ := strings.Cut(rest, "/")
				seen[name] = true
			}
		}
	}
	var names []string
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// position formats a node position relative to internal/.
func (p pkgSource) position(pos token.Pos) string {
	at := p.fset.Position(pos)
	return filepath.Join(p.name, filepath.Base(at.Filename)) + ":" + strconv.Itoa(at.Line)
}

// parseSource parses an in-memory file with comments.
func parseSource(fset *token.FileSet, src string) (*ast.File, error) {
	return parser.ParseFile(fset, "snippet.go", src, parser.ParseComments)
}
