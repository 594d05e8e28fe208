// Package testhelpers provides shared test utilities for codegen packages.
package testhelpers

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/require"
	gcodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen"
	"goa.design/contractgen/contract"
)

// Load parses raw as a contract read from "test.json".
func Load(t *testing.T, raw string) (contract.Meta, *contract.Contract) {
	t.Helper()
	c, meta, err := contract.LoadBytes("test.json", []byte(raw))
	require.NoError(t, err)
	return meta, c
}

// RenderAll renders the contract raw and returns the artifacts keyed by file
// name.
func RenderAll(t *testing.T, raw string, opts codegen.Options) map[string]string {
	t.Helper()
	meta, c := Load(t, raw)
	artifacts, err := codegen.RenderAll(meta, c, opts)
	require.NoError(t, err)
	out := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		out[a.Name] = string(a.Content)
	}
	return out
}

// FindFile locates a file description by path (slash-normalized).
func FindFile(files []*gcodegen.File, wantPath string) *gcodegen.File {
	normWant := filepath.ToSlash(wantPath)
	for _, f := range files {
		if filepath.ToSlash(f.Path) == normWant {
			return f
		}
	}
	return nil
}

// SectionNames returns the section names of f in order.
func SectionNames(f *gcodegen.File) []string {
	names := make([]string, len(f.SectionTemplates))
	for i, s := range f.SectionTemplates {
		names[i] = s.Name
	}
	return names
}

// SectionContent executes the named section of f without formatting.
func SectionContent(t *testing.T, f *gcodegen.File, name string) string {
	t.Helper()
	for _, s := range f.SectionTemplates {
		if s.Name != name {
			continue
		}
		tmpl, err := template.New(s.Name).Funcs(template.FuncMap(s.FuncMap)).Parse(s.Source)
		require.NoErrorf(t, err, "parse section %s", s.Name)
		var buf bytes.Buffer
		require.NoErrorf(t, tmpl.Execute(&buf, s.Data), "execute section %s", s.Name)
		return buf.String()
	}
	require.Failf(t, "not found", "section %s not found in %s", name, f.Path)
	return ""
}

// ParseGo parses src as a Go file, keeping comments.
func ParseGo(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ParseComments)
	require.NoError(t, err)
	return f
}

// FieldSet describes the fields of a struct type.
type FieldSet struct {
	// Types maps field names to their type expressions.
	Types map[string]string
	// Tags maps field names to their raw struct tags.
	Tags map[string]string
	// Order lists the field names in declaration order.
	Order []string
}

// StructFields returns the fields of the struct type name declared in src.
func StructFields(t *testing.T, src, name string) FieldSet {
	t.Helper()
	f := ParseGo(t, src)
	set := FieldSet{Types: map[string]string{}, Tags: map[string]string{}}
	found := false
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != name {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		require.True(t, ok, "%s is not a struct", name)
		found = true
		for _, field := range st.Fields.List {
			for _, n := range field.Names {
				set.Types[n.Name] = types.ExprString(field.Type)
				set.Order = append(set.Order, n.Name)
				if field.Tag != nil {
					set.Tags[n.Name] = strings.Trim(field.Tag.Value, "`")
				}
			}
		}
		return false
	})
	require.True(t, found, "struct %s not found", name)
	return set
}

// FuncNames returns the names of the functions and methods declared in src.
// Methods are reported as "Recv.Name".
func FuncNames(t *testing.T, src string) []string {
	t.Helper()
	var names []string
	for _, decl := range ParseGo(t, src).Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		name := fd.Name.Name
		if fd.Recv != nil && len(fd.Recv.List) == 1 {
			recv := types.ExprString(fd.Recv.List[0].Type)
			name = strings.TrimPrefix(recv, "*") + "." + name
		}
		names = append(names, name)
	}
	return names
}
