// Package patchfile decodes patch files into merge requests.
//
// Every format carries the same shape: a map from section key to a map from
// entry name to either a plain string or an object with one of "value" (a
// string, written as a quoted literal) or "literal" (value text inserted
// verbatim) and an optional "after" anchor. Sections and entries keep the
// order they have in the file.
package patchfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"locpatch/internal/merge"
	"locpatch/internal/textutil"
)

var (
	// ErrUnsupportedFormat means no loader handles the file's extension.
	ErrUnsupportedFormat = errors.New("unsupported patch format")
	// ErrInvalidPatch means the file decoded but does not have the expected shape.
	ErrInvalidPatch = errors.New("invalid patch")
)

// Loader is implemented by every patch file format.
type Loader interface {
	// CanLoad returns true if this loader handles the given file extension.
	CanLoad(ext string) bool
	// Load decodes data into requests. name is only used in error messages.
	Load(name string, data []byte) ([]merge.Request, error)
}

// Registry picks a loader by file extension.
type Registry struct {
	loaders []Loader
}

// NewRegistry returns a registry with the YAML, JSON and INI loaders.
func NewRegistry() *Registry {
	return &Registry{loaders: []Loader{
		NewYAMLLoader(),
		NewJSONLoader(),
		NewINILoader(),
	}}
}

// LoaderFor returns the loader for path.
func (r *Registry) LoaderFor(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range r.loaders {
		if l.CanLoad(ext) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
}

// LoadFile reads and decodes one patch file.
func (r *Registry) LoadFile(path string) ([]merge.Request, error) {
	l, err := r.LoaderFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch file: %w", err)
	}
	return l.Load(path, data)
}

// LoadFiles decodes every file and concatenates the requests in argument order.
func (r *Registry) LoadFiles(paths ...string) ([]merge.Request, error) {
	var out []merge.Request
	for _, p := range paths {
		reqs, err := r.LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}
	return out, nil
}

// entryFields is the decoded object form of one entry.
type entryFields struct {
	value   *string
	literal *string
	after   string
}

func (f entryFields) upsert(name string) (merge.Upsert, error) {
	switch {
	case f.value != nil && f.literal != nil:
		return merge.Upsert{}, fmt.Errorf("entry %q sets both value and literal", name)
	case f.value != nil:
		return merge.Upsert{Name: name, Value: textutil.QuoteLiteral(*f.value), Anchor: f.after}, nil
	case f.literal != nil:
		return merge.Upsert{Name: name, Value: *f.literal, Anchor: f.after}, nil
	}
	return merge.Upsert{}, fmt.Errorf("entry %q has neither value nor literal", name)
}

func invalid(name string, line int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		return fmt.Errorf("%s:%d: %w: %s", name, line, ErrInvalidPatch, msg)
	}
	return fmt.Errorf("%s: %w: %s", name, ErrInvalidPatch, msg)
}
