// Package analyzer extracts class descriptors from Go source code: named
// struct and interface types become classes, embedded types become bases,
// and NewT functions act as constructors.
package analyzer

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/logger"
	"github.com/don7panic/classgen/models"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

type GoAnalyzer struct {
	Input             string
	IncludeUnexported bool
	Descriptors       []models.ClassDescriptor

	log *zap.SugaredLogger
}

func NewGoAnalyzer(input string, includeUnexported bool) *GoAnalyzer {
	return &GoAnalyzer{
		Input:             input,
		IncludeUnexported: includeUnexported,
		log:               logger.Named("analyzer"),
	}
}

// Load analyzes the configured input and returns its class descriptors.
func (a *GoAnalyzer) Load(ctx context.Context) ([]models.ClassDescriptor, error) {
	if err := a.Analyze(ctx); err != nil {
		return nil, err
	}
	return a.Descriptors, nil
}

// Analyze loads the packages named by Input and collects descriptors in
// package path order, then file order, then declaration order.
func (a *GoAnalyzer) Analyze(ctx context.Context) error {
	dir, pattern, err := resolveInput(a.Input)
	if err != nil {
		return err
	}

	cfg := &packages.Config{Context: ctx, Mode: loadMode, Dir: dir}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return errors.Wrapf(err, "failed to load packages %s", a.Input)
	}
	if len(pkgs) == 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidInput, "no packages found for %s", a.Input),
			"pass a Go package directory, a pattern such as ./..., or a .yaml/.json descriptor file",
		)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	a.Descriptors = a.Descriptors[:0]
	for _, pkg := range pkgs {
		// Only structure is needed, so type errors (for example missing
		// dependencies) are reported but do not stop extraction.
		for _, e := range pkg.Errors {
			a.log.Warnw("package error", "package", pkg.PkgPath, "error", e.Msg)
		}
		descs := a.analyzePackage(pkg)
		a.log.Debugw("analyzed package", "package", pkg.PkgPath, "classes", len(descs))
		a.Descriptors = append(a.Descriptors, descs...)
	}
	a.log.Infow("extracted class descriptors", "input", a.Input, "count", len(a.Descriptors))
	return nil
}

// resolveInput maps a directory, a .go file or a package pattern to a
// packages.Load working directory and pattern.
func resolveInput(input string) (string, string, error) {
	if input == "" {
		return "", "", errors.NewInvalidInputError("no input given")
	}
	if strings.HasSuffix(input, "/...") {
		return strings.TrimSuffix(input, "/..."), "./...", nil
	}
	info, err := os.Stat(input)
	if err != nil {
		// Not a path: hand it to the go tool as an import path pattern.
		return "", input, nil
	}
	if info.IsDir() {
		return input, ".", nil
	}
	if filepath.Ext(input) != ".go" {
		return "", "", errors.NewInvalidInputError("unsupported input file %s", input)
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to resolve %s", input)
	}
	return filepath.Dir(abs), "file=" + abs, nil
}

type packageScan struct {
	pkg        *packages.Package
	unexported bool
	classes    []*models.ClassDescriptor
	byName     map[string]*models.ClassDescriptor
}

func (s *packageScan) include(ident *ast.Ident) bool {
	return s.unexported || ident.IsExported()
}

func (a *GoAnalyzer) analyzePackage(pkg *packages.Package) []models.ClassDescriptor {
	scan := &packageScan{
		pkg:        pkg,
		unexported: a.IncludeUnexported,
		byName:     make(map[string]*models.ClassDescriptor),
	}

	// First pass: collect classes (structs and interfaces)
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					scan.visitTypeSpec(ts)
				}
			}
		}
	}

	// Second pass: attach methods and constructors, which may be declared
	// before or in a different file than their type.
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok {
				scan.visitFuncDecl(fn)
			}
		}
	}

	out := make([]models.ClassDescriptor, 0, len(scan.classes))
	for _, c := range scan.classes {
		out = append(out, *c)
	}
	return out
}

func (s *packageScan) visitTypeSpec(ts *ast.TypeSpec) {
	if !s.include(ts.Name) {
		return
	}

	desc := &models.ClassDescriptor{
		Name:    ts.Name.Name,
		Package: s.pkg.PkgPath,
		File:    s.pkg.Fset.Position(ts.Pos()).Filename,
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			if len(field.Names) == 0 {
				desc.Bases = append(desc.Bases, erasedName(field.Type))
				continue
			}
			raw := s.rawType(field.Type)
			for _, name := range field.Names {
				if !s.include(name) {
					continue
				}
				desc.Fields = append(desc.Fields, models.RawField{Name: name.Name, Type: raw})
			}
		}
	case *ast.InterfaceType:
		for _, m := range t.Methods.List {
			ft, ok := m.Type.(*ast.FuncType)
			if !ok || len(m.Names) == 0 {
				// Embedded interface or type-set element.
				desc.Bases = append(desc.Bases, erasedName(m.Type))
				continue
			}
			for _, name := range m.Names {
				if s.include(name) {
					desc.Methods = append(desc.Methods, s.rawMethod(name.Name, ft))
				}
			}
		}
	default:
		return
	}

	s.classes = append(s.classes, desc)
	if _, ok := s.byName[desc.Name]; !ok {
		s.byName[desc.Name] = desc
	}
}

func (s *packageScan) visitFuncDecl(fn *ast.FuncDecl) {
	if fn.Recv != nil {
		if len(fn.Recv.List) == 0 {
			return
		}
		owner, ok := s.byName[receiverName(fn.Recv.List[0].Type)]
		if !ok || !s.include(fn.Name) {
			return
		}
		owner.Methods = append(owner.Methods, s.rawMethod(fn.Name.Name, fn.Type))
		return
	}

	owner, ok := s.constructorOwner(fn)
	if !ok || owner.HasConstructor {
		return
	}
	owner.HasConstructor = true
	owner.Constructor = s.rawParams(fn.Type.Params)
}

// constructorOwner matches a function NewT whose first result is T or *T.
func (s *packageScan) constructorOwner(fn *ast.FuncDecl) (*models.ClassDescriptor, bool) {
	name, ok := strings.CutPrefix(fn.Name.Name, "New")
	if !ok || name == "" {
		return nil, false
	}
	owner, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	if s.pkg.Types != nil {
		if obj, ok := s.pkg.Types.Scope().Lookup(fn.Name.Name).(*types.Func); ok {
			res := obj.Type().(*types.Signature).Results()
			return owner, res.Len() > 0 && namedName(res.At(0).Type()) == name
		}
	}
	results := fn.Type.Results
	return owner, results != nil && len(results.List) > 0 && receiverName(results.List[0].Type) == name
}

func namedName(t types.Type) string {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := t.(*types.Named); ok {
		return n.Obj().Name()
	}
	return ""
}

func (s *packageScan) rawMethod(name string, ft *ast.FuncType) models.RawMethod {
	m := models.RawMethod{Name: name, Params: paramNames(ft.Params)}
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return m
	}

	var results []ast.Expr
	for _, r := range ft.Results.List {
		n := max(len(r.Names), 1)
		for i := 0; i < n; i++ {
			results = append(results, r.Type)
		}
	}
	if len(results) == 1 {
		ret := s.rawType(results[0])
		m.Returns = &ret
		return m
	}

	// Several results render as one comma-separated return text; generic
	// results are erased individually so the text stays renderable.
	parts := make([]string, 0, len(results))
	for _, r := range results {
		text := typeToString(r)
		if strings.Contains(text, "<") && strings.Contains(text, ">") {
			text = erasedName(r)
		}
		parts = append(parts, text)
	}
	ret := models.RawType{Text: strings.Join(parts, ", ")}
	m.Returns = &ret
	return m
}

func (s *packageScan) rawParams(list *ast.FieldList) []models.RawField {
	var out []models.RawField
	if list == nil {
		return out
	}
	for i, p := range list.List {
		raw := s.rawType(p.Type)
		if len(p.Names) == 0 {
			out = append(out, models.RawField{Name: unnamedParam(i), Type: raw})
			continue
		}
		for _, name := range p.Names {
			out = append(out, models.RawField{Name: name.Name, Type: raw})
		}
	}
	return out
}

// rawType describes expr. A bare identifier that the type checker could not
// resolve is kept as a forward reference by name.
func (s *packageScan) rawType(expr ast.Expr) models.RawType {
	if ident, ok := expr.(*ast.Ident); ok && s.pkg.TypesInfo != nil {
		if s.pkg.TypesInfo.Uses[ident] == nil && s.pkg.TypesInfo.Defs[ident] == nil {
			return models.RawType{Text: ident.Name, Forward: true}
		}
	}
	return models.RawType{Text: typeToString(expr), Base: erasedName(expr)}
}

func paramNames(list *ast.FieldList) []string {
	params := []string{}
	if list == nil {
		return params
	}
	for i, p := range list.List {
		if len(p.Names) == 0 {
			params = append(params, unnamedParam(i))
			continue
		}
		for _, name := range p.Names {
			params = append(params, name.Name)
		}
	}
	return params
}

// unnamedParam names the i-th parameter of a signature without parameter
// names. Go does not mix named and unnamed parameters, so i is its position.
func unnamedParam(i int) string {
	return fmt.Sprintf("arg%d", i)
}

// receiverName strips pointers and type parameters from a receiver type.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}
