package analyzer

import (
	"go/token"
	"strings"
)

// Filter applies filtering options to the analysis result. Types and
// interfaces are kept even without relations; relations are kept only when
// both ends survive. Hidden fields do not hide the relations they produce,
// so a class holding unexported collections still shows its aggregation.
func Filter(result *Result, opts AnalyzeOptions) *Result {
	filtered := &Result{ModulePath: result.ModulePath}
	kept := make(map[string]bool)

	keepPkg := func(pkgPath string) bool {
		if !opts.IncludeStdlib && isStdlib(pkgPath) {
			return false
		}
		if opts.Filter != "" && !strings.HasPrefix(pkgPath, opts.Filter) {
			return false
		}
		return true
	}

	for _, iface := range result.Interfaces {
		// External interfaces survive the prefix filter so that loaded types
		// can still point at the stdlib contracts they satisfy.
		if iface.External {
			if !opts.IncludeStdlib && isStdlib(iface.PkgPath) {
				continue
			}
		} else if !keepPkg(iface.PkgPath) {
			continue
		}
		if !opts.IncludeUnexported && isUnexported(iface.Name) {
			continue
		}
		if !opts.IncludeUnexported {
			iface.Methods = exportedMethods(iface.Methods)
		}
		filtered.Interfaces = append(filtered.Interfaces, iface)
		kept[iface.Ref().Key()] = true
	}

	for _, typ := range result.Types {
		if !keepPkg(typ.PkgPath) {
			continue
		}
		if !opts.IncludeUnexported {
			if isUnexported(typ.Name) {
				continue
			}
			typ.Fields = exportedFields(typ.Fields)
			typ.Methods = exportedMethods(typ.Methods)
		}
		filtered.Types = append(filtered.Types, typ)
		kept[typ.Ref().Key()] = true
	}

	for _, rel := range result.Relations {
		if kept[rel.From.Key()] && kept[rel.To.Key()] {
			filtered.Relations = append(filtered.Relations, rel)
		}
	}

	// External interfaces nobody implements are noise.
	used := make(map[string]bool)
	for _, rel := range filtered.Relations {
		used[rel.To.Key()] = true
	}
	ifaces := filtered.Interfaces[:0]
	for _, iface := range filtered.Interfaces {
		if iface.External && !used[iface.Ref().Key()] {
			continue
		}
		ifaces = append(ifaces, iface)
	}
	filtered.Interfaces = ifaces

	return filtered
}

func exportedFields(fields []FieldDef) []FieldDef {
	var out []FieldDef
	for _, f := range fields {
		if f.Exported {
			out = append(out, f)
		}
	}
	return out
}

func exportedMethods(methods []MethodSig) []MethodSig {
	var out []MethodSig
	for _, m := range methods {
		if !isUnexported(m.Name) {
			out = append(out, m)
		}
	}
	return out
}

func isStdlib(pkgPath string) bool {
	if pkgPath == "builtin" {
		return true
	}
	// Stdlib packages have no dot in the first path element
	firstSlash := strings.IndexByte(pkgPath, '/')
	firstPart := pkgPath
	if firstSlash >= 0 {
		firstPart = pkgPath[:firstSlash]
	}
	return !strings.Contains(firstPart, ".")
}

func isUnexported(name string) bool {
	if name == "" {
		return true
	}
	// Built-in types like 'error' are lowercase but considered exported
	if name == "error" {
		return false
	}
	return !token.IsExported(name)
}
