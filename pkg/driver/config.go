package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory when no --config is given.
const ConfigFileName = "ncalc.yml"

// Format selects how outcomes are written.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// IsValid reports whether the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatYAML:
		return true
	default:
		return false
	}
}

// Config holds driver settings decoded from ncalc.yml.
type Config struct {
	Path           string `yaml:"-"`
	Color          bool   `yaml:"color"`
	Format         Format `yaml:"format"`
	MaxSourceBytes int    `yaml:"max_source_bytes"`
	Root           string `yaml:"root"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Color:          true,
		Format:         FormatText,
		MaxSourceBytes: 1 << 20,
		Root:           ".",
	}
}

// LoadConfig decodes path over DefaultConfig and validates the result. A
// relative root is resolved against the config file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: %s is empty", absPath)
		}
		return cfg, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg.Path = absPath
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(absPath), cfg.Root)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs ValidationError
	if !c.Format.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("format %q is not one of text, yaml", c.Format))
	}
	if c.MaxSourceBytes <= 0 {
		errs.Issues = append(errs.Issues, "max_source_bytes must be positive")
	}
	if c.Root == "" {
		errs.Issues = append(errs.Issues, "root must be provided")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
