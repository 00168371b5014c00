package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrRemoteInput is returned for URLs; only local directories are analyzed.
var ErrRemoteInput = errors.New("remote inputs are not supported")

// Target is a module root and the package pattern to load inside it.
type Target struct {
	ModuleRoot string
	Pattern    string // relative to ModuleRoot, e.g. "./internal/pets" or "./..."
}

// Resolve maps a local directory (optionally suffixed with "/...") to the
// enclosing module root and a package pattern relative to it.
func Resolve(input string, logger *slog.Logger) (Target, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return Target{}, fmt.Errorf("%s: %w", input, ErrRemoteInput)
	}

	recursive := false
	if input == "..." || strings.HasSuffix(input, "/...") {
		recursive = true
		input = strings.TrimSuffix(strings.TrimSuffix(input, "..."), "/")
	}
	if input == "" {
		input = "."
	}

	absPath, err := filepath.Abs(input)
	if err != nil {
		return Target{}, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return Target{}, fmt.Errorf("stat %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return Target{}, fmt.Errorf("%s is not a directory", absPath)
	}

	modRoot, err := findModuleRoot(absPath)
	if err != nil {
		// The directory may hold a module further down, e.g. a repo with backend/go.mod.
		nested, nestedErr := FindModuleRootInTree(absPath)
		if nestedErr != nil {
			return Target{}, err
		}
		logger.Info("resolved nested module", "input", input, "module_root", nested)
		return Target{ModuleRoot: nested, Pattern: "./..."}, nil
	}

	rel, err := filepath.Rel(modRoot, absPath)
	if err != nil {
		return Target{}, fmt.Errorf("relative path: %w", err)
	}
	pattern := "."
	if rel != "." {
		pattern = "./" + filepath.ToSlash(rel)
	}
	if recursive {
		if pattern == "." {
			pattern = "./..."
		} else {
			pattern += "/..."
		}
	}

	logger.Info("resolved local directory", "input", input, "module_root", modRoot, "pattern", pattern)
	return Target{ModuleRoot: modRoot, Pattern: pattern}, nil
}

func findModuleRoot(dir string) (string, error) {
	current := dir
	for {
		goMod := filepath.Join(current, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found in %s or any parent directory", dir)
		}
		current = parent
	}
}

// FindModuleRootInTree returns the shallowest directory under root holding
// a go.mod. Hidden, vendor and node_modules directories are skipped; ties at
// the same depth go to the alphabetically first path.
func FindModuleRootInTree(root string) (string, error) {
	level := []string{root}
	for depth := 0; depth <= 3 && len(level) > 0; depth++ {
		sort.Strings(level)
		var next []string
		for _, dir := range level {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				return dir, nil
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if !e.IsDir() || skipDir(e.Name()) {
					continue
				}
				next = append(next, filepath.Join(dir, e.Name()))
			}
		}
		level = next
	}
	return "", fmt.Errorf("no go.mod found in %s or its subdirectories", root)
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules"
}
