package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/olehluchkiv/pets/internal/diagram"
	"github.com/olehluchkiv/pets/internal/logging"
	"github.com/olehluchkiv/pets/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAnalysisWithPetsPackage(t *testing.T) {
	// go test sets cwd to the package directory.
	dir := filepath.Join("..", "pets")

	page, err := RunAnalysis(context.Background(), AnalysisConfig{
		Input:   dir,
		Diagram: diagram.DefaultDiagramOptions(),
	}, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, dir, page.Source)
	assert.Len(t, page.Result.Interfaces, 1)
	assert.Len(t, page.Result.Types, 4)
	assert.Contains(t, page.Mermaid, "pets_Dog ..|> pets_Animal")
	assert.Contains(t, page.Mermaid, "pets_Cat ..|> pets_Animal")
	assert.Contains(t, page.Mermaid, "pets_Base <|-- pets_Dog")
	assert.Contains(t, page.Mermaid, "pets_Base <|-- pets_Cat")
	assert.Contains(t, page.Mermaid, `pets_Owner o-- "*" pets_Animal : pets`)
	assert.NotContains(t, page.Mermaid, "pets_Base ..|> pets_Animal")
	assert.Contains(t, page.Mermaid, "+Fetch(string) string")
	assert.Contains(t, page.Mermaid, "%% file: internal/pets/dog.go")
}

func TestRunAnalysisWithFixture(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "01_speakers")

	page, err := RunAnalysis(context.Background(), AnalysisConfig{Input: dir}, logging.Discard())
	require.NoError(t, err)

	assert.Contains(t, page.Mermaid, "animals_Dog ..|> animals_Speaker")
	assert.Contains(t, page.Mermaid, "class animals_Fish {")
}

func TestRunAnalysisRejectsURL(t *testing.T) {
	_, err := RunAnalysis(context.Background(), AnalysisConfig{Input: "https://github.com/olehluchkiv/pets"}, logging.Discard())
	require.ErrorIs(t, err, resolver.ErrRemoteInput)
}
