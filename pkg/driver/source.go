package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscape   = errors.New("driver: path escape violation")
	ErrFileTooLarge = errors.New("driver: source size limit exceeded")
)

// Source is an in-memory program text and the name used in diagnostics.
type Source struct {
	Name string
	Text string
}

// Loader reads program sources from disk, jailed to Root and capped at MaxBytes.
type Loader struct {
	Root     string
	MaxBytes int
}

func NewLoader(root string, maxBytes int) *Loader {
	absRoot, _ := filepath.Abs(root)
	return &Loader{
		Root:     absRoot,
		MaxBytes: maxBytes,
	}
}

// Load reads path, relative to Root unless absolute.
func (l *Loader) Load(path string) (Source, error) {
	cleanPath := path
	if !filepath.IsAbs(cleanPath) {
		cleanPath = filepath.Join(l.Root, cleanPath)
	}
	cleanPath = filepath.Clean(cleanPath)

	if !within(l.Root, cleanPath) {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, ErrPathEscape)
	}

	// A symlink inside Root may still point outside it.
	realRoot, err := filepath.EvalSymlinks(l.Root)
	if err != nil {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, err)
	}
	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, err)
	}
	if !within(realRoot, realPath) {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, ErrPathEscape)
	}
	cleanPath = realPath

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, err)
	}
	if info.Size() > int64(l.MaxBytes) {
		return Source{}, fmt.Errorf("driver: load %s (%d bytes): %w", path, info.Size(), ErrFileTooLarge)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Source{}, fmt.Errorf("driver: load %s: %w", path, err)
	}
	return Source{Name: path, Text: string(data)}, nil
}

// Inline wraps an expression given on the command line.
func (l *Loader) Inline(expr string) (Source, error) {
	if len(expr) > l.MaxBytes {
		return Source{}, fmt.Errorf("driver: inline expression (%d bytes): %w", len(expr), ErrFileTooLarge)
	}
	return Source{Name: "<expr>", Text: expr}, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
