package diagram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDiagram is returned by Validate for blank input.
	ErrEmptyDiagram = errors.New("empty diagram")
	// ErrUnknownDiagramType is returned by Validate when no diagram keyword leads the code.
	ErrUnknownDiagramType = errors.New("missing or unknown diagram keyword")
)

// DiagramType describes a Mermaid diagram kind.
type DiagramType struct {
	Value       string `json:"value"`
	Keyword     string `json:"keyword"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var diagramTypes = []DiagramType{
	{Value: "class", Keyword: "classDiagram", Label: "Class Diagram", Description: "UML class relationships and structure"},
	{Value: "flowchart", Keyword: "flowchart", Label: "Flowchart", Description: "Control flow and program logic"},
	{Value: "graph", Keyword: "graph", Label: "Graph", Description: "Legacy flowchart syntax"},
	{Value: "sequence", Keyword: "sequenceDiagram", Label: "Sequence Diagram", Description: "Method interactions and timing"},
	{Value: "state", Keyword: "stateDiagram", Label: "State Diagram", Description: "State transitions and behavior"},
	{Value: "er", Keyword: "erDiagram", Label: "ER Diagram", Description: "Entity-relationship database modeling"},
	{Value: "gantt", Keyword: "gantt", Label: "Gantt Chart", Description: "Project timeline and dependencies"},
}

// DiagramTypes lists the diagram kinds Validate recognizes.
func DiagramTypes() []DiagramType {
	out := make([]DiagramType, len(diagramTypes))
	copy(out, diagramTypes)
	return out
}

// Validate checks that code starts with a known diagram keyword, skipping
// blank lines, %% comments and an init directive. It returns the keyword.
func Validate(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmptyDiagram
	}

	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		first := strings.Fields(line)[0]
		for _, dt := range diagramTypes {
			// stateDiagram-v2 is a valid header too.
			if first == dt.Keyword || strings.HasPrefix(first, dt.Keyword+"-") {
				return dt.Keyword, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownDiagramType, first)
	}
	return "", ErrEmptyDiagram
}
