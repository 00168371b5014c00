package diagram

import (
	"fmt"
	"go/token"
	"regexp"
	"sort"
	"strings"

	"github.com/olehluchkiv/pets/internal/analyzer"
)

// DiagramOptions controls Mermaid diagram generation.
type DiagramOptions struct {
	MaxMembersPerBox int    // 0 means unlimited
	IncludeInit      bool   // include %%{init:}%% directive (for standalone .mmd files)
	SourceComments   bool   // add a "%% file:" comment to each block
	Direction        string // TB, BT, LR or RL
}

// DefaultDiagramOptions returns sensible defaults for diagram generation.
func DefaultDiagramOptions() DiagramOptions {
	return DiagramOptions{SourceComments: true, Direction: "LR"}
}

const initDirective = "%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ffffff', 'primaryBorderColor': '#cccccc', 'primaryTextColor': '#000000', 'lineColor': '#555555'}}}%%"

// GenerateMermaid produces a Mermaid classDiagram string from analysis results.
func GenerateMermaid(result *analyzer.Result, opts DiagramOptions) string {
	var b strings.Builder

	ifaces := sortedInterfaces(result.Interfaces)
	typs := sortedTypes(result.Types)
	rels := sortedRelations(result.Relations)

	// Embedded fields are drawn as inheritance arrows, not member lines.
	embedded := make(map[string]bool)
	for _, rel := range rels {
		if rel.Kind == analyzer.Embeds {
			embedded[rel.From.Key()+"/"+rel.To.Name] = true
		}
	}

	// Header + style definitions.
	if opts.IncludeInit {
		b.WriteString(initDirective + "\n")
	}
	b.WriteString("classDiagram")
	if len(ifaces) > 0 || len(typs) > 0 {
		direction := opts.Direction
		if direction == "" {
			direction = "LR"
		}
		b.WriteString("\n")
		b.WriteString("    direction " + direction + "\n")
		b.WriteString("    classDef interfaceStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px,font-weight:bold\n")
		b.WriteString("    classDef implStyle fill:#4a9c6d,stroke:#357a50,color:#fff,stroke-width:2px")
	}

	// Interfaces section.
	for _, iface := range ifaces {
		b.WriteString("\n")
		writeInterfaceBlock(&b, iface, opts)
	}

	// Types section (separated by blank line from interfaces if both exist).
	if len(ifaces) > 0 && len(typs) > 0 {
		b.WriteString("\n")
	}
	for _, typ := range typs {
		b.WriteString("\n")
		writeTypeBlock(&b, typ, embedded, opts)
	}

	// Relations section (separated by blank line from classes if both exist).
	if (len(ifaces) > 0 || len(typs) > 0) && len(rels) > 0 {
		b.WriteString("\n")
	}
	for _, rel := range rels {
		b.WriteString("\n")
		b.WriteString("    " + RelationLine(rel))
	}

	// Style assignments section.
	if len(ifaces) > 0 || len(typs) > 0 {
		b.WriteString("\n")
		for _, iface := range ifaces {
			fmt.Fprintf(&b, "\n    cssClass \"%s\" interfaceStyle", NodeID(iface.PkgName, iface.Name))
		}
		for _, typ := range typs {
			fmt.Fprintf(&b, "\n    cssClass \"%s\" implStyle", NodeID(typ.PkgName, typ.Name))
		}
	}

	return b.String()
}

// RelationLine renders a relation as a Mermaid class-diagram edge.
func RelationLine(rel analyzer.Relation) string {
	from := NodeID(rel.From.PkgName, rel.From.Name)
	to := NodeID(rel.To.PkgName, rel.To.Name)
	switch rel.Kind {
	case analyzer.Embeds:
		return fmt.Sprintf("%s <|-- %s", to, from)
	case analyzer.Aggregates:
		line := from + " o-- "
		if rel.Cardinality != "" {
			line += fmt.Sprintf("%q ", rel.Cardinality)
		}
		line += to
		if rel.Label != "" {
			line += " : " + rel.Label
		}
		return line
	default:
		return fmt.Sprintf("%s ..|> %s", from, to)
	}
}

var simpleIdent = regexp.MustCompile(`^\w+$`)

// SanitizeSignature removes characters in member signatures that break Mermaid syntax.
// Mermaid treats {}, <>, and ~ as special in class diagram labels.
// Uses only ASCII-safe replacements that work in both mmdc CLI and browser Mermaid.js.
func SanitizeSignature(sig string) string {
	// Replace <-chan with chan (drop direction indicator, Mermaid can't handle <).
	sig = strings.ReplaceAll(sig, "<-chan", "chan")
	sig = strings.ReplaceAll(sig, "chan<-", "chan")
	// Replace interface{} with "any" before stripping braces: bare "interface"
	// is a reserved keyword in browser Mermaid.js (<<interface>> tag parsing).
	sig = strings.ReplaceAll(sig, "interface{}", "any")
	// Strip remaining empty braces, the empty type literals like struct{}.
	sig = strings.ReplaceAll(sig, "{}", "")
	sig = strings.ReplaceAll(sig, "~", "-")
	return sig
}

// sanitizeID replaces /, ., - with _ in node identifiers.
func sanitizeID(s string) string {
	r := strings.NewReplacer("/", "_", ".", "_", "-", "_")
	return r.Replace(s)
}

// NodeID builds a sanitized node ID from pkgName and type/interface name.
func NodeID(pkgName, name string) string {
	return sanitizeID(pkgName + "_" + name)
}

// writeInterfaceBlock writes a Mermaid class block for an interface.
func writeInterfaceBlock(b *strings.Builder, iface analyzer.InterfaceDef, opts DiagramOptions) {
	fmt.Fprintf(b, "    class %s {\n", NodeID(iface.PkgName, iface.Name))
	b.WriteString("        <<interface>>\n")
	if opts.SourceComments && iface.SourceFile != "" {
		b.WriteString("        %% file: " + iface.SourceFile + "\n")
	}
	var members []string
	for _, m := range iface.Methods {
		members = append(members, "+"+SanitizeSignature(m.Signature))
	}
	writeMemberLines(b, members, opts)
	b.WriteString("    }")
}

// writeTypeBlock writes a Mermaid class block for a concrete type: its own
// fields first, then its declared methods.
func writeTypeBlock(b *strings.Builder, typ analyzer.TypeDef, embedded map[string]bool, opts DiagramOptions) {
	fmt.Fprintf(b, "    class %s {\n", NodeID(typ.PkgName, typ.Name))
	if !typ.IsStruct && simpleIdent.MatchString(typ.Underlying) {
		b.WriteString("        <<" + typ.Underlying + ">>\n")
	}
	if opts.SourceComments && typ.SourceFile != "" {
		b.WriteString("        %% file: " + typ.SourceFile + "\n")
	}

	key := typ.Ref().Key()
	var members []string
	for _, f := range typ.Fields {
		if f.Embedded && embedded[key+"/"+embeddedName(f.Name)] {
			continue
		}
		members = append(members, visibility(f.Exported)+f.Name+" "+SanitizeSignature(f.Type))
	}
	for _, m := range typ.Methods {
		members = append(members, visibility(isExported(m.Name))+SanitizeSignature(m.Signature))
	}
	writeMemberLines(b, members, opts)
	b.WriteString("    }")
}

// writeMemberLines writes member lines with optional truncation.
func writeMemberLines(b *strings.Builder, members []string, opts DiagramOptions) {
	limit := len(members)
	truncated := false
	if opts.MaxMembersPerBox > 0 && limit > opts.MaxMembersPerBox {
		limit = opts.MaxMembersPerBox
		truncated = true
	}

	for i := 0; i < limit; i++ {
		b.WriteString("        " + members[i] + "\n")
	}
	if truncated {
		b.WriteString("        ...\n")
	}
}

func visibility(exported bool) string {
	if exported {
		return "+"
	}
	return "-"
}

func isExported(name string) bool {
	return token.IsExported(name)
}

// embeddedName strips a generic instantiation so Box[int] matches Box.
func embeddedName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// Sort interfaces deterministically by (pkgName, name).
func sortedInterfaces(in []analyzer.InterfaceDef) []analyzer.InterfaceDef {
	out := make([]analyzer.InterfaceDef, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PkgName != out[j].PkgName {
			return out[i].PkgName < out[j].PkgName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Sort types deterministically by (pkgName, name).
func sortedTypes(in []analyzer.TypeDef) []analyzer.TypeDef {
	out := make([]analyzer.TypeDef, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PkgName != out[j].PkgName {
			return out[i].PkgName < out[j].PkgName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Sort relations deterministically by (kind, from, to, label).
func sortedRelations(in []analyzer.Relation) []analyzer.Relation {
	out := make([]analyzer.Relation, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		fa, fb := NodeID(a.From.PkgName, a.From.Name), NodeID(b.From.PkgName, b.From.Name)
		if fa != fb {
			return fa < fb
		}
		ta, tb := NodeID(a.To.PkgName, a.To.Name), NodeID(b.To.PkgName, b.To.Name)
		if ta != tb {
			return ta < tb
		}
		return a.Label < b.Label
	})
	return out
}
