package importing

import (
	"path/filepath"
	"strings"
)

// ActionKind is the unit of work a watch event represents.
type ActionKind string

const (
	ActionImportDirectory ActionKind = "import_directory"
	ActionImportFile      ActionKind = "import_file"
	ActionIgnore          ActionKind = "ignore"
)

// Action is a classified path.
type Action struct {
	Kind ActionKind
	Path string
}

// IsDirectory reports whether the action imports a whole directory.
func (a Action) IsDirectory() bool {
	return a.Kind == ActionImportDirectory
}

// Classifier decides what a created path should trigger.
type Classifier struct {
	extensions map[string]bool
}

// NewClassifier creates a classifier recognising the given extensions.
// Extensions are matched case-insensitively; a missing leading dot is added.
func NewClassifier(extensions []string) *Classifier {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	return &Classifier{extensions: exts}
}

// Classify maps a path to an Action. Directories are always imported, files only when their extension is supported.
func (c *Classifier) Classify(path string, isDirectory bool) Action {
	if isDirectory {
		return Action{Kind: ActionImportDirectory, Path: path}
	}
	if c.IsSupportedFile(path) {
		return Action{Kind: ActionImportFile, Path: path}
	}
	return Action{Kind: ActionIgnore, Path: path}
}

// IsSupportedFile checks if the file is a supported audio format
func (c *Classifier) IsSupportedFile(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}
