package diagram

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/olehluchkiv/pets/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"mmd":      FormatMermaid,
		"Mermaid":  FormatMermaid,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"JSON":     FormatJSON,
		"yaml":     FormatYAML,
		" yml ":    FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportMermaid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleResult(), FormatMermaid, DefaultDiagramOptions()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%%{init:"))
	assert.True(t, strings.HasSuffix(out, "implStyle\n"))
	_, err := Validate(out)
	assert.NoError(t, err)
}

func TestExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleResult(), FormatMarkdown, DefaultDiagramOptions()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Class diagram of example.com/zoo\n\n```mermaid\nclassDiagram\n"))
	assert.True(t, strings.HasSuffix(out, "\n```\n"))
	assert.NotContains(t, out, "%%{init:")
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleResult(), FormatJSON, DefaultDiagramOptions()))

	var got analyzer.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "example.com/zoo", got.ModulePath)
	require.Len(t, got.Relations, 2)
	assert.Equal(t, analyzer.Implements, got.Relations[0].Kind)
	assert.True(t, got.Relations[0].ViaPointer)
	assert.Contains(t, buf.String(), `"pkg_path": "example.com/zoo/pets"`)
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleResult(), FormatYAML, DefaultDiagramOptions()))

	var got analyzer.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Types, 2)
	assert.Equal(t, "Dog", got.Types[0].Name)
	assert.Equal(t, "breed", got.Types[0].Fields[1].Name)
	assert.Contains(t, buf.String(), "kind: embeds")
}

func TestExportUnsupported(t *testing.T) {
	err := Export(&bytes.Buffer{}, sampleResult(), Format("pdf"), DefaultDiagramOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatInfo(t *testing.T) {
	info, ok := FormatJSON.Info()
	require.True(t, ok)
	assert.Equal(t, "application/json", info.MimeType)
	assert.Equal(t, "json", FormatJSON.Extension())

	_, ok = Format("png").Info()
	assert.False(t, ok)
	assert.Len(t, Formats(), 4)
}
