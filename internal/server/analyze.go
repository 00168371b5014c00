package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olehluchkiv/pets/internal/analyzer"
	"github.com/olehluchkiv/pets/internal/diagram"
	"github.com/olehluchkiv/pets/internal/resolver"
)

// AnalysisConfig holds parameters for the analysis pipeline.
type AnalysisConfig struct {
	Input             string
	Filter            string
	IncludeStdlib     bool
	IncludeUnexported bool
	Diagram           diagram.DiagramOptions
}

// RunAnalysis executes the resolve → analyze → filter → render pipeline and
// returns a Page ready to be served or exported.
func RunAnalysis(ctx context.Context, cfg AnalysisConfig, logger *slog.Logger) (Page, error) {
	logger = logger.With("component", "analysis")

	// Step 1: Resolve input to a module root and package pattern.
	logger.Info("resolving input", "input", cfg.Input)
	target, err := resolver.Resolve(cfg.Input, logger)
	if err != nil {
		return Page{}, fmt.Errorf("resolve: %w", err)
	}

	// Step 2: Analyze packages.
	logger.Info("analyzing packages", "dir", target.ModuleRoot, "pattern", target.Pattern)
	opts := analyzer.AnalyzeOptions{
		Patterns:          []string{target.Pattern},
		Filter:            cfg.Filter,
		IncludeStdlib:     cfg.IncludeStdlib,
		IncludeUnexported: cfg.IncludeUnexported,
	}
	result, err := analyzer.Analyze(ctx, target.ModuleRoot, opts, logger)
	if err != nil {
		return Page{}, fmt.Errorf("analyze: %w", err)
	}

	// Step 3: Filter results.
	result = analyzer.Filter(result, opts)

	logger.Info("analysis complete",
		"interfaces", len(result.Interfaces),
		"types", len(result.Types),
		"relations", len(result.Relations))

	// Step 4: Render.
	return Page{
		Source:  cfg.Input,
		Mermaid: diagram.GenerateMermaid(result, cfg.Diagram),
		Result:  result,
		Options: cfg.Diagram,
	}, nil
}
