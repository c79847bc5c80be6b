package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"ncalc"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestEvalInline(t *testing.T) {
	code, out, errOut := runCLI(t, "eval", "-e", "33+4*3-4/2")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, errOut)
	}
	if out != "43\n" {
		t.Errorf("stdout = %q, want %q", out, "43\n")
	}
}

func TestSymbolsFromFile(t *testing.T) {
	root := writeProject(t, map[string]string{
		"ncalc.yml": "color: false\n",
		"prog.nc":   "mut x = 5\nimmut name = \"ada\"\nx = 10\n",
	})

	code, out, errOut := runCLI(t, "symbols", "--config", filepath.Join(root, "ncalc.yml"), "prog.nc")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, errOut)
	}
	want := "x = 10 (mut)\nname = \"ada\" (immut)\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestSymbolsYAMLFormatFlag(t *testing.T) {
	code, out, errOut := runCLI(t, "symbols", "--format", "yaml", "-e", "mut x = 5")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, errOut)
	}
	want := "- name: x\n  value: 5\n  mutable: true\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestDiagnosticRendering(t *testing.T) {
	root := writeProject(t, map[string]string{
		"ncalc.yml": "root: .\n",
		"bad.nc":    "immut y = 5\ny = 10\n",
	})

	code, out, errOut := runCLI(t, "eval", "--no-color", "--config", filepath.Join(root, "ncalc.yml"), "bad.nc")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if out != "" {
		t.Errorf("expected no stdout, got %q", out)
	}
	for _, want := range []string{
		"error: immutable variable",
		"--> bad.nc:2:1",
		" 2 | y = 10",
		"^ Trying to assign new value to immutable variable 'y'",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
	if strings.Contains(errOut, "\x1b[") {
		t.Errorf("expected no color escapes with --no-color:\n%s", errOut)
	}
}

func TestVerboseTrace(t *testing.T) {
	code, _, errOut := runCLI(t, "eval", "--verbose", "-e", "mut x = 1 x = 2")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(errOut, "ncalc: ") || !strings.Contains(errOut, "assign x = 2 (was 1)") {
		t.Errorf("expected trace on stderr, got:\n%s", errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	root := writeProject(t, map[string]string{"ncalc.yml": "root: .\n"})
	cfg := filepath.Join(root, "ncalc.yml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"NoSource", []string{"eval", "--config", cfg}, "missing source file"},
		{"BothSources", []string{"eval", "--config", cfg, "-e", "1", "x.nc"}, "either --expr or a file"},
		{"TooManyFiles", []string{"eval", "--config", cfg, "a.nc", "b.nc"}, "expected one source file, got 2"},
		{"BadFormat", []string{"eval", "--format", "json", "-e", "1"}, "format \"json\" is not one of text, yaml"},
		{"PathEscape", []string{"eval", "--config", cfg, "../escape.nc"}, "path escape violation"},
		{"MissingConfig", []string{"eval", "--config", filepath.Join(root, "nope.yml"), "-e", "1"}, "config: open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q does not mention %q", errOut, tt.want)
			}
		})
	}
}
