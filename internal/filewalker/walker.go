package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists the source file types that can hold a dictionary.
var SupportedExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
}

// Walker expands command line arguments into dictionary assets.
type Walker struct {
	pattern string
}

// NewWalker creates a Walker that keeps files whose base name matches
// pattern (filepath.Match syntax) when walking directories.
func NewWalker(pattern string) (*Walker, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("asset pattern %q: %w", pattern, err)
	}
	return &Walker{pattern: pattern}, nil
}

// Expand resolves every argument to absolute asset paths. Files are taken as
// given; directories are walked for supported files matching the pattern.
// A path reached twice is returned once, at its first position.
func (w *Walker) Expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat asset: %w", err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := w.Walk(abs)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// Walk discovers all matching assets under the given root directory.
func (w *Walker) Walk(root string) ([]string, error) {
	var entries []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}
		if ok, _ := filepath.Match(w.pattern, d.Name()); ok {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Debug().Int("count", len(entries)).Str("root", root).Msg("Discovered assets")
	return entries, nil
}
