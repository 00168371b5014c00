package analyzer

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/olehluchkiv/pets/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsPkg = "github.com/olehluchkiv/pets/internal/pets"

func fixture(name string) string {
	// go test runs in the package directory.
	return filepath.Join("..", "..", "testdata", name)
}

func analyze(t *testing.T, dir string, opts AnalyzeOptions) *Result {
	t.Helper()
	result, err := Analyze(context.Background(), dir, opts, logging.Discard())
	require.NoError(t, err)
	return Filter(result, opts)
}

func sortedRelations(rels []Relation) []Relation {
	out := append([]Relation(nil), rels...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.From.Key() != b.From.Key() {
			return a.From.Key() < b.From.Key()
		}
		return a.To.Key() < b.To.Key()
	})
	return out
}

func typeNamed(t *testing.T, r *Result, name string) TypeDef {
	t.Helper()
	for _, typ := range r.Types {
		if typ.Name == name {
			return typ
		}
	}
	require.Failf(t, "type not found", "%s", name)
	return TypeDef{}
}

func names[T any](items []T, name func(T) string) []string {
	var out []string
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func TestAnalyzePetsPackage(t *testing.T) {
	opts := AnalyzeOptions{Patterns: []string{"./internal/pets"}}
	r := analyze(t, filepath.Join("..", ".."), opts)

	assert.Equal(t, "github.com/olehluchkiv/pets", r.ModulePath)
	assert.Equal(t, []string{"Animal"}, names(r.Interfaces, func(d InterfaceDef) string { return d.Name }))
	assert.Equal(t, []string{"Base", "Cat", "Dog", "Owner"}, names(r.Types, func(d TypeDef) string { return d.Name }))

	ref := func(name string) NodeRef {
		return NodeRef{PkgPath: petsPkg, PkgName: "pets", Name: name}
	}
	want := sortedRelations([]Relation{
		{Kind: Aggregates, From: ref("Owner"), To: ref("Animal"), Label: "pets", Cardinality: "*"},
		{Kind: Embeds, From: ref("Cat"), To: ref("Base")},
		{Kind: Embeds, From: ref("Dog"), To: ref("Base")},
		{Kind: Implements, From: ref("Cat"), To: ref("Animal"), ViaPointer: true},
		{Kind: Implements, From: ref("Dog"), To: ref("Animal"), ViaPointer: true},
	})
	if diff := cmp.Diff(want, sortedRelations(r.Relations)); diff != "" {
		t.Errorf("relations mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzePetsMembers(t *testing.T) {
	opts := AnalyzeOptions{Patterns: []string{"./internal/pets"}, IncludeUnexported: true}
	r := analyze(t, filepath.Join("..", ".."), opts)

	dog := typeNamed(t, r, "Dog")
	assert.True(t, dog.IsStruct)
	assert.Equal(t, "internal/pets/dog.go", dog.SourceFile)
	if diff := cmp.Diff([]FieldDef{
		{Name: "Base", Type: "Base", Exported: true, Embedded: true},
		{Name: "breed", Type: "string"},
	}, dog.Fields); diff != "" {
		t.Errorf("Dog fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []MethodSig{
		{Name: "Breed", Signature: "Breed() string"},
		{Name: "Fetch", Signature: "Fetch(string) string"},
		{Name: "Speak", Signature: "Speak() string"},
	}, dog.Methods)

	owner := typeNamed(t, r, "Owner")
	assert.Equal(t, []FieldDef{
		{Name: "name", Type: "string"},
		{Name: "pets", Type: "[]Animal"},
	}, owner.Fields)
	assert.Contains(t, owner.Methods, MethodSig{Name: "AddPet", Signature: "AddPet(Animal)"})
	assert.Contains(t, owner.Methods, MethodSig{Name: "ListPets", Signature: "ListPets() []string"})
}

func TestAnalyzePetsHidesUnexportedFields(t *testing.T) {
	r := analyze(t, filepath.Join("..", ".."), AnalyzeOptions{Patterns: []string{"./internal/pets"}})

	assert.Empty(t, typeNamed(t, r, "Owner").Fields)
	assert.Equal(t, []string{"Base"}, names(typeNamed(t, r, "Cat").Fields, func(f FieldDef) string { return f.Name }))
}

func TestAnalyzeFixtures(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		opts     AnalyzeOptions
		validate func(t *testing.T, r *Result)
	}{
		{
			name: "speakers",
			dir:  fixture("01_speakers"),
			validate: func(t *testing.T, r *Result) {
				rels := sortedRelations(r.Relations)
				require.Len(t, rels, 2)
				assert.Equal(t, "Cat", rels[0].From.Name)
				assert.Equal(t, "Dog", rels[1].From.Name)
				for _, rel := range rels {
					assert.Equal(t, Implements, rel.Kind)
					assert.Equal(t, "Speaker", rel.To.Name)
					assert.False(t, rel.ViaPointer)
				}
				// Fish implements nothing but is still a class.
				assert.Equal(t, []FieldDef{{Name: "Fins", Type: "int", Exported: true}}, typeNamed(t, r, "Fish").Fields)
			},
		},
		{
			name: "pointer receiver",
			dir:  fixture("02_pointer_receiver"),
			validate: func(t *testing.T, r *Result) {
				require.Len(t, r.Relations, 1)
				assert.True(t, r.Relations[0].ViaPointer)
				assert.Equal(t, "Connection", r.Relations[0].From.Name)
			},
		},
		{
			name: "embedding",
			dir:  fixture("03_embedding"),
			validate: func(t *testing.T, r *Result) {
				var got []string
				for _, rel := range r.Relations {
					got = append(got, string(rel.Kind)+" "+rel.From.Name+" "+rel.To.Name)
				}
				assert.ElementsMatch(t, []string{
					"embeds Shape Namer",
					"embeds Shape Sizer",
					"embeds Square Base",
					"implements Base Namer",
					"implements Square Namer",
					"implements Square Sizer",
					"implements Square Shape",
				}, got)
			},
		},
		{
			name: "aggregation",
			dir:  fixture("04_aggregation"),
			validate: func(t *testing.T, r *Result) {
				var got []string
				for _, rel := range r.Relations {
					got = append(got, rel.To.Name+" "+rel.Label+" "+rel.Cardinality)
				}
				assert.ElementsMatch(t, []string{
					"Engine Engine ",
					"Wheel Wheels *",
					"Driver Drivers *",
					"Wheel Spares *",
				}, got)
			},
		},
		{
			name: "aggregation through aliases",
			dir:  fixture("07_alias"),
			validate: func(t *testing.T, r *Result) {
				var got []string
				for _, rel := range r.Relations {
					got = append(got, string(rel.Kind)+" "+rel.From.Name+" "+rel.To.Name+" "+rel.Label+" "+rel.Cardinality)
				}
				assert.ElementsMatch(t, []string{
					"aggregates Home Pet All *",
					"aggregates Home Bowl Food ",
				}, got)
				// Aliases are not classes of their own.
				assert.Equal(t, []string{"Bowl", "Home"}, names(r.Types, func(d TypeDef) string { return d.Name }))
			},
		},
		{
			name: "unexported hidden",
			dir:  fixture("05_unexported"),
			validate: func(t *testing.T, r *Result) {
				assert.Equal(t, []string{"Runner"}, names(r.Interfaces, func(d InterfaceDef) string { return d.Name }))
				cat := typeNamed(t, r, "Cat")
				assert.Equal(t, []string{"Name"}, names(cat.Fields, func(f FieldDef) string { return f.Name }))
				assert.Equal(t, []string{"Lives", "Run"}, names(cat.Methods, func(m MethodSig) string { return m.Name }))
				require.Len(t, r.Relations, 1)
				assert.Equal(t, "Cat", r.Relations[0].From.Name)
			},
		},
		{
			name: "unexported included",
			dir:  fixture("05_unexported"),
			opts: AnalyzeOptions{IncludeUnexported: true},
			validate: func(t *testing.T, r *Result) {
				assert.Len(t, r.Interfaces, 2)
				assert.Len(t, r.Types, 2)
				var got []string
				for _, rel := range r.Relations {
					got = append(got, rel.From.Name+" "+rel.To.Name)
				}
				assert.ElementsMatch(t, []string{"Cat Runner", "dog Runner", "dog walker"}, got)
			},
		},
		{
			name: "stdlib excluded",
			dir:  fixture("06_stdlib_ifaces"),
			validate: func(t *testing.T, r *Result) {
				assert.Empty(t, r.Interfaces)
				assert.Empty(t, r.Relations)
				assert.Len(t, r.Types, 3)
			},
		},
		{
			name: "stdlib included",
			dir:  fixture("06_stdlib_ifaces"),
			opts: AnalyzeOptions{IncludeStdlib: true},
			validate: func(t *testing.T, r *Result) {
				var got []string
				for _, rel := range r.Relations {
					got = append(got, rel.From.Name+" "+rel.To.PkgName+"."+rel.To.Name)
				}
				assert.Contains(t, got, "MyError builtin.error")
				assert.Contains(t, got, "Pretty fmt.Stringer")
				assert.Contains(t, got, "Bytes io.Reader")
				for _, iface := range r.Interfaces {
					assert.True(t, iface.External, "%s should be external", iface.Name)
				}
			},
		},
		{
			name: "prefix filter excludes everything",
			dir:  fixture("01_speakers"),
			opts: AnalyzeOptions{Filter: "example.com/other"},
			validate: func(t *testing.T, r *Result) {
				assert.Empty(t, r.Interfaces)
				assert.Empty(t, r.Types)
				assert.Empty(t, r.Relations)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, analyze(t, tt.dir, tt.opts))
		})
	}
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, isStdlib("fmt"))
	assert.True(t, isStdlib("encoding/json"))
	assert.True(t, isStdlib("builtin"))
	assert.False(t, isStdlib("github.com/olehluchkiv/pets"))
	assert.False(t, isStdlib("example.com/testmod"))
}

func TestIsUnexported(t *testing.T) {
	assert.True(t, isUnexported(""))
	assert.True(t, isUnexported("walker"))
	assert.True(t, isUnexported("_hidden"))
	assert.False(t, isUnexported("error"))
	assert.False(t, isUnexported("Runner"))
	assert.False(t, isUnexported("Ñandu"))
	assert.True(t, isUnexported("ñandu"))
}
