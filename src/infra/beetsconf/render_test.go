package beetsconf

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInterpolate(t *testing.T) {
	t.Setenv("BEETWATCH_SORTED", "/music/sorted")

	tests := []struct {
		in   string
		want string
	}{
		{"directory: ${BEETWATCH_SORTED}", "directory: /music/sorted"},
		{"directory: ${BEETWATCH_UNSET_VARIABLE}", "directory: ${BEETWATCH_UNSET_VARIABLE}"},
		{"plain: value", "plain: value"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.in); got != tt.want {
			t.Errorf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func readRendered(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read rendered config: %v", err)
	}
	doc := make(map[string]any)
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("failed to parse rendered config: %v", err)
	}
	return doc
}

func TestRender_MergesIncludes(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BEETWATCH_LIBRARY", "/data/library.db")

	main := `
directory: /music/sorted
library: ${BEETWATCH_LIBRARY}
include:
  - plugins.yaml
  - missing.yaml
`
	plugins := `
plugins: fetchart lyrics
directory: /music/override
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(main), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugins.yaml"), []byte(plugins), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "rendered", "beets.yaml")
	path, err := Render(filepath.Join(dir, "config.yaml"), out)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if path != out {
		t.Errorf("expected rendered path %s, got %s", out, path)
	}

	doc := readRendered(t, path)
	if doc["library"] != "/data/library.db" {
		t.Errorf("expected interpolated library, got %v", doc["library"])
	}
	if doc["plugins"] != "fetchart lyrics" {
		t.Errorf("expected included plugins, got %v", doc["plugins"])
	}
	if doc["directory"] != "/music/override" {
		t.Errorf("expected include to override main keys, got %v", doc["directory"])
	}
}

func TestRender_SingleStringIncludeAndTempFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("include: extra.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("threaded: yes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := Render(filepath.Join(dir, "config.yaml"), "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	defer os.Remove(path)

	if _, ok := readRendered(t, path)["threaded"]; !ok {
		t.Error("expected single string include to be merged")
	}
}

func TestRender_MissingMainConfig(t *testing.T) {
	if _, err := Render(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatal("expected error for missing main config")
	}
}
