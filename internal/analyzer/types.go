package analyzer

import "go/types"

// InterfaceDef represents a discovered Go interface.
type InterfaceDef struct {
	Name       string           `json:"name" yaml:"name"`
	PkgPath    string           `json:"pkg_path" yaml:"pkg_path"`
	PkgName    string           `json:"pkg_name" yaml:"pkg_name"`
	Methods    []MethodSig      `json:"methods,omitempty" yaml:"methods,omitempty"`
	SourceFile string           `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	External   bool             `json:"external,omitempty" yaml:"external,omitempty"` // found in an imported package, not a loaded one
	TypeObj    *types.Interface `json:"-" yaml:"-"`
}

// TypeDef represents a discovered named non-interface Go type.
type TypeDef struct {
	Name       string       `json:"name" yaml:"name"`
	PkgPath    string       `json:"pkg_path" yaml:"pkg_path"`
	PkgName    string       `json:"pkg_name" yaml:"pkg_name"`
	IsStruct   bool         `json:"is_struct" yaml:"is_struct"`
	Underlying string       `json:"underlying,omitempty" yaml:"underlying,omitempty"` // set for non-struct types, e.g. "string"
	Fields     []FieldDef   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods    []MethodSig  `json:"methods,omitempty" yaml:"methods,omitempty"`
	SourceFile string       `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	TypeObj    *types.Named `json:"-" yaml:"-"`
}

// FieldDef is a struct field.
type FieldDef struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Exported bool   `json:"exported" yaml:"exported"`
	Embedded bool   `json:"embedded,omitempty" yaml:"embedded,omitempty"`
}

// MethodSig captures a method name and its signature string.
type MethodSig struct {
	Name      string `json:"name" yaml:"name"`
	Signature string `json:"signature" yaml:"signature"`
}

// NodeRef identifies an interface or type in a Result.
type NodeRef struct {
	PkgPath string `json:"pkg_path" yaml:"pkg_path"`
	PkgName string `json:"pkg_name" yaml:"pkg_name"`
	Name    string `json:"name" yaml:"name"`
}

// Key returns "pkgPath.Name".
func (r NodeRef) Key() string {
	return r.PkgPath + "." + r.Name
}

// RelationKind classifies a Relation.
type RelationKind string

const (
	// Implements: From (or *From) satisfies the interface To.
	Implements RelationKind = "implements"
	// Embeds: From embeds To, either a struct in a struct or an interface in an interface.
	Embeds RelationKind = "embeds"
	// Aggregates: a field of From holds one or more To values.
	Aggregates RelationKind = "aggregates"
)

// Relation is an edge between two nodes of the model.
type Relation struct {
	Kind        RelationKind `json:"kind" yaml:"kind"`
	From        NodeRef      `json:"from" yaml:"from"`
	To          NodeRef      `json:"to" yaml:"to"`
	ViaPointer  bool         `json:"via_pointer,omitempty" yaml:"via_pointer,omitempty"` // Implements only: just *From satisfies To
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`             // Aggregates only: field name
	Cardinality string       `json:"cardinality,omitempty" yaml:"cardinality,omitempty"` // "*" when the field is a slice, array or map
}

// Result holds the complete analysis output.
type Result struct {
	Interfaces []InterfaceDef `json:"interfaces" yaml:"interfaces"`
	Types      []TypeDef      `json:"types" yaml:"types"`
	Relations  []Relation     `json:"relations" yaml:"relations"`
	ModulePath string         `json:"module_path,omitempty" yaml:"module_path,omitempty"`
}

// AnalyzeOptions controls analysis behavior.
type AnalyzeOptions struct {
	Patterns          []string // package patterns relative to the analyzed dir, default "./..."
	Filter            string   // package path prefix filter
	IncludeStdlib     bool
	IncludeUnexported bool
}

// Ref returns the NodeRef of the interface.
func (d *InterfaceDef) Ref() NodeRef {
	return NodeRef{PkgPath: d.PkgPath, PkgName: d.PkgName, Name: d.Name}
}

// Ref returns the NodeRef of the type.
func (d *TypeDef) Ref() NodeRef {
	return NodeRef{PkgPath: d.PkgPath, PkgName: d.PkgName, Name: d.Name}
}
