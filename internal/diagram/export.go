package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olehluchkiv/pets/internal/analyzer"
)

// ErrUnsupportedFormat is returned for export formats other than mmd, md, json and yaml.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export format.
type Format string

const (
	FormatMermaid  Format = "mmd"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// FormatInfo describes an export format.
type FormatInfo struct {
	Value       Format `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

var formats = []FormatInfo{
	{Value: FormatMermaid, Label: "Mermaid", Description: "Mermaid source, renderable by mmdc or mermaid.live", MimeType: "text/vnd.mermaid; charset=utf-8"},
	{Value: FormatMarkdown, Label: "Markdown", Description: "Markdown document with a mermaid code fence", MimeType: "text/markdown; charset=utf-8"},
	{Value: FormatJSON, Label: "JSON", Description: "Class model as JSON", MimeType: "application/json"},
	{Value: FormatYAML, Label: "YAML", Description: "Class model as YAML", MimeType: "application/yaml"},
}

// Formats lists the supported export formats.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat maps a case-insensitive name to a Format. "mermaid" and
// "markdown" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mmd", "mermaid":
		return FormatMermaid, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Info returns the description of f.
func (f Format) Info() (FormatInfo, bool) {
	for _, fi := range formats {
		if fi.Value == f {
			return fi, true
		}
	}
	return FormatInfo{}, false
}

// Extension is the file extension used for downloads.
func (f Format) Extension() string {
	return string(f)
}

// Export writes result in format f to w.
func Export(w io.Writer, result *analyzer.Result, f Format, opts DiagramOptions) error {
	switch f {
	case FormatMermaid:
		opts.IncludeInit = true
		_, err := io.WriteString(w, GenerateMermaid(result, opts)+"\n")
		return err
	case FormatMarkdown:
		opts.IncludeInit = false
		title := "Class diagram"
		if result.ModulePath != "" {
			title += " of " + result.ModulePath
		}
		_, err := fmt.Fprintf(w, "# %s\n\n```mermaid\n%s\n```\n", title, GenerateMermaid(result, opts))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}
