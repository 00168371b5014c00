package analyzer

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Analyze loads Go packages from dir and builds the class model: interfaces,
// named types with their fields and methods, and the relations between them.
func Analyze(ctx context.Context, dir string, opts AnalyzeOptions, logger *slog.Logger) (*Result, error) {
	logger = logger.With("component", "analyzer")

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving dir: %w", err)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo | packages.NeedImports | packages.NeedModule,
		Dir:     dir,
		Context: ctx,
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	logger.Info("packages loaded", "packages_count", len(pkgs), "patterns", patterns)

	// Log packages with errors but continue
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Warn("package load error", "package", pkg.PkgPath, "error", e.Msg)
		}
	}

	c := &collector{
		dir:        dir,
		logger:     logger,
		seenIfaces: make(map[string]bool),
		seenTypes:  make(map[string]bool),
		known:      make(map[string]NodeRef),
	}

	result := &Result{}
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		if result.ModulePath == "" && pkg.Module != nil {
			result.ModulePath = pkg.Module.Path
		}
		c.collectScope(pkg.Types, pkg.Fset, false)
	}

	// Imported interfaces are only useful to show which stdlib (or other
	// external) contracts the loaded types satisfy.
	if opts.IncludeStdlib {
		for _, pkg := range pkgs {
			for _, imp := range pkg.Imports {
				if imp.Types == nil {
					continue
				}
				c.collectScope(imp.Types, imp.Fset, true)
			}
		}
		c.addUniverseError()
	}

	logger.Info("types collected", "interfaces", len(c.ifaces), "types", len(c.types))

	result.Interfaces = c.ifaces
	result.Types = c.types
	result.Relations = c.relations()

	logger.Info("analysis complete", "relations", len(result.Relations))

	return result, nil
}

type collector struct {
	dir        string
	logger     *slog.Logger
	ifaces     []InterfaceDef
	types      []TypeDef
	seenIfaces map[string]bool
	seenTypes  map[string]bool
	known      map[string]NodeRef // objKey -> node
}

func (c *collector) collectScope(pkg *types.Package, fset *token.FileSet, external bool) {
	qual := relativeTo(pkg)
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		key := pkg.Path() + "." + tn.Name()

		if iface, ok := named.Underlying().(*types.Interface); ok {
			if c.seenIfaces[key] {
				continue
			}
			c.seenIfaces[key] = true
			c.ifaces = append(c.ifaces, InterfaceDef{
				Name:       tn.Name(),
				PkgPath:    pkg.Path(),
				PkgName:    pkg.Name(),
				Methods:    extractIfaceMethods(iface, qual),
				SourceFile: resolveSourceFile(fset, tn.Pos(), c.dir),
				External:   external,
				TypeObj:    iface,
			})
			c.known[key] = c.ifaces[len(c.ifaces)-1].Ref()
			c.logger.Debug("found interface", "name", tn.Name(), "package", pkg.Path(), "methods", iface.NumMethods())
			continue
		}

		if external || c.seenTypes[key] {
			continue
		}
		c.seenTypes[key] = true
		typeDef := TypeDef{
			Name:       tn.Name(),
			PkgPath:    pkg.Path(),
			PkgName:    pkg.Name(),
			IsStruct:   isStruct(named),
			Methods:    extractTypeMethods(named, qual),
			SourceFile: resolveSourceFile(fset, tn.Pos(), c.dir),
			TypeObj:    named,
		}
		if st, ok := named.Underlying().(*types.Struct); ok {
			typeDef.Fields = extractFields(st, qual)
		} else {
			typeDef.Underlying = types.TypeString(named.Underlying(), qual)
		}
		c.types = append(c.types, typeDef)
		c.known[key] = typeDef.Ref()
		c.logger.Debug("found type", "name", tn.Name(), "package", pkg.Path(),
			"fields", len(typeDef.Fields), "methods", len(typeDef.Methods))
	}
}

// addUniverseError adds the built-in error interface.
func (c *collector) addUniverseError() {
	key := "builtin.error"
	if c.seenIfaces[key] {
		return
	}
	tn, ok := types.Universe.Lookup("error").(*types.TypeName)
	if !ok {
		return
	}
	iface, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return
	}
	c.seenIfaces[key] = true
	c.ifaces = append(c.ifaces, InterfaceDef{
		Name:     "error",
		PkgPath:  "builtin",
		PkgName:  "builtin",
		Methods:  extractIfaceMethods(iface, nil),
		External: true,
		TypeObj:  iface,
	})
	c.known[key] = c.ifaces[len(c.ifaces)-1].Ref()
}

func (c *collector) relations() []Relation {
	var rels []Relation

	// Interface embedding
	for i := range c.ifaces {
		iface := &c.ifaces[i]
		for j := 0; j < iface.TypeObj.NumEmbeddeds(); j++ {
			emb, ok := types.Unalias(iface.TypeObj.EmbeddedType(j)).(*types.Named)
			if !ok {
				continue
			}
			to, ok := c.known[objKey(emb.Obj())]
			if !ok {
				continue
			}
			rels = append(rels, Relation{Kind: Embeds, From: iface.Ref(), To: to})
		}
	}

	for i := range c.types {
		t := &c.types[i]

		// Struct embedding and aggregation
		if st, ok := t.TypeObj.Underlying().(*types.Struct); ok {
			seen := make(map[string]bool)
			for k := 0; k < st.NumFields(); k++ {
				f := st.Field(k)
				target, many := unwrapNamed(f.Type())
				if target == nil {
					continue
				}
				to, ok := c.known[objKey(target.Obj())]
				if !ok || to == t.Ref() {
					continue
				}
				rel := Relation{Kind: Aggregates, From: t.Ref(), To: to, Label: f.Name()}
				if f.Embedded() && !many {
					rel = Relation{Kind: Embeds, From: t.Ref(), To: to}
				} else if many {
					rel.Cardinality = "*"
				}
				dedup := string(rel.Kind) + rel.To.Key() + rel.Label
				if seen[dedup] {
					continue
				}
				seen[dedup] = true
				rels = append(rels, rel)
				c.logger.Debug("field relation", "kind", rel.Kind, "from", t.Name, "to", to.Name, "field", f.Name())
			}
		}

		// Interface satisfaction. Uninstantiated generic types cannot be checked.
		if t.TypeObj.TypeParams().Len() > 0 {
			continue
		}
		for j := range c.ifaces {
			iface := &c.ifaces[j]

			// Skip empty interfaces
			if iface.TypeObj.NumMethods() == 0 {
				continue
			}

			switch {
			case types.Implements(t.TypeObj, iface.TypeObj):
				rels = append(rels, Relation{Kind: Implements, From: t.Ref(), To: iface.Ref()})
				c.logger.Debug("match found", "type", t.Name, "interface", iface.Name, "via_pointer", false)
			case types.Implements(types.NewPointer(t.TypeObj), iface.TypeObj):
				rels = append(rels, Relation{Kind: Implements, From: t.Ref(), To: iface.Ref(), ViaPointer: true})
				c.logger.Debug("match found", "type", t.Name, "interface", iface.Name, "via_pointer", true)
			}
		}
	}

	return rels
}

func objKey(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return "builtin." + obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// unwrapNamed strips aliases, pointers, slices, arrays, maps and channels
// from t and returns the named type underneath, if any. many reports whether a
// collection was stripped on the way.
func unwrapNamed(t types.Type) (named *types.Named, many bool) {
	for {
		switch tt := types.Unalias(t).(type) {
		case *types.Named:
			return tt, many
		case *types.Pointer:
			t = tt.Elem()
		case *types.Slice:
			t, many = tt.Elem(), true
		case *types.Array:
			t, many = tt.Elem(), true
		case *types.Map:
			t, many = tt.Elem(), true
		case *types.Chan:
			t, many = tt.Elem(), true
		default:
			return nil, many
		}
	}
}

func extractIfaceMethods(iface *types.Interface, qual types.Qualifier) []MethodSig {
	methods := make([]MethodSig, iface.NumMethods())
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		methods[i] = MethodSig{
			Name:      m.Name(),
			Signature: formatSignature(m, qual),
		}
	}
	return methods
}

// extractTypeMethods returns the methods declared on named, value and
// pointer receivers alike, sorted by name. Promoted methods are left to the
// embedded type.
func extractTypeMethods(named *types.Named, qual types.Qualifier) []MethodSig {
	var methods []MethodSig
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		methods = append(methods, MethodSig{
			Name:      m.Name(),
			Signature: formatSignature(m, qual),
		})
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods
}

func extractFields(st *types.Struct, qual types.Qualifier) []FieldDef {
	fields := make([]FieldDef, 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		fields = append(fields, FieldDef{
			Name:     f.Name(),
			Type:     types.TypeString(f.Type(), qual),
			Exported: f.Exported(),
			Embedded: f.Embedded(),
		})
	}
	return fields
}

func formatSignature(fn *types.Func, qual types.Qualifier) string {
	sig := fn.Type().(*types.Signature)
	var b strings.Builder
	b.WriteString(fn.Name())
	b.WriteString("(")
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		p := params.At(i)
		if sig.Variadic() && i == params.Len()-1 {
			b.WriteString("...")
			b.WriteString(types.TypeString(p.Type().(*types.Slice).Elem(), qual))
			continue
		}
		b.WriteString(types.TypeString(p.Type(), qual))
	}
	b.WriteString(")")
	results := sig.Results()
	if results.Len() > 0 {
		b.WriteString(" ")
		if results.Len() == 1 {
			b.WriteString(types.TypeString(results.At(0).Type(), qual))
		} else {
			b.WriteString("(")
			for i := 0; i < results.Len(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(types.TypeString(results.At(i).Type(), qual))
			}
			b.WriteString(")")
		}
	}
	return b.String()
}

// relativeTo qualifies types from other packages by package name and leaves
// types of pkg itself unqualified.
func relativeTo(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if pkg == other || (pkg != nil && other != nil && pkg.Path() == other.Path()) {
			return ""
		}
		return other.Name()
	}
}

func isStruct(named *types.Named) bool {
	_, ok := named.Underlying().(*types.Struct)
	return ok
}

// resolveSourceFile resolves a token position to a file path relative to moduleRoot.
func resolveSourceFile(fset *token.FileSet, pos token.Pos, moduleRoot string) string {
	if fset == nil || !pos.IsValid() {
		return ""
	}
	position := fset.Position(pos)
	if !position.IsValid() || position.Filename == "" {
		return ""
	}
	rel, err := filepath.Rel(moduleRoot, position.Filename)
	if err != nil {
		return position.Filename
	}
	return filepath.ToSlash(rel)
}
