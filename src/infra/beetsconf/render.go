package beetsconf

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var placeholder = regexp.MustCompile(`\$\{(\w+)\}`)

// Interpolate replaces ${VAR} placeholders with environment values. Unset variables keep their placeholder.
func Interpolate(content string) string {
	return placeholder.ReplaceAllStringFunc(content, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

// Render merges the main beets config with its includes, interpolates the environment
// and writes the result to outPath, or to a temporary file when outPath is empty.
// It returns the path of the written file.
func Render(mainPath, outPath string) (string, error) {
	mainPath, err := filepath.Abs(mainPath)
	if err != nil {
		return "", err
	}
	main, err := load(mainPath)
	if err != nil {
		return "", err
	}
	slog.Info("Loaded beets configuration", "file", mainPath)

	for _, include := range includes(main) {
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(filepath.Dir(mainPath), include)
		}
		if _, err := os.Stat(includePath); err != nil {
			slog.Warn("Included beets configuration file not found", "file", include, "path", includePath)
			continue
		}
		included, err := load(includePath)
		if err != nil {
			return "", err
		}
		maps.Copy(main, included)
		slog.Info("Loaded beets configuration", "file", include)
	}

	rendered, err := yaml.Marshal(main)
	if err != nil {
		return "", fmt.Errorf("failed to encode beets config: %w", err)
	}
	path, err := write(outPath, rendered)
	if err != nil {
		return "", err
	}
	slog.Debug("Rendered beets configuration", "path", path, "content", string(rendered))
	return path, nil
}

func load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beets config %s: %w", path, err)
	}
	doc := make(map[string]any)
	if err := yaml.Unmarshal([]byte(Interpolate(string(raw))), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse beets config %s: %w", path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

// includes returns the include list of a beets config; a single string is accepted too.
func includes(doc map[string]any) []string {
	switch v := doc["include"].(type) {
	case string:
		return []string{v}
	case []any:
		files := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				files = append(files, s)
			}
		}
		return files
	default:
		return nil
	}
}

func write(outPath string, content []byte) (string, error) {
	if outPath == "" {
		f, err := os.CreateTemp("", "beets-*.yaml")
		if err != nil {
			return "", fmt.Errorf("failed to create temporary beets config: %w", err)
		}
		defer f.Close()
		if _, err := f.Write(content); err != nil {
			return "", fmt.Errorf("failed to write temporary beets config: %w", err)
		}
		return f.Name(), nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create beets config directory: %w", err)
	}
	if err := os.WriteFile(outPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write beets config: %w", err)
	}
	return outPath, nil
}
