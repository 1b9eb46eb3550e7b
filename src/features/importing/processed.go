package importing

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ProcessedSet tracks directories already dispatched for import, and the
// directories whose dispatch is still running. Only settled members cover
// their descendants. A single mutex covers every read and write.
type ProcessedSet struct {
	mu       sync.Mutex
	dirs     map[string]struct{}
	inFlight map[string]struct{}
}

// NewProcessedSet creates an empty set.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{
		dirs:     make(map[string]struct{}),
		inFlight: make(map[string]struct{}),
	}
}

// MarkProcessed adds dir to the set and ends its in-flight claim.
func (p *ProcessedSet) MarkProcessed(dir string) {
	dir = filepath.Clean(dir)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, dir)
	p.dirs[dir] = struct{}{}
}

// Claim registers a dispatch for dir as in flight. It returns false when
// another dispatch already claimed dir and has not finished.
// A claim does not make dir a member.
func (p *ProcessedSet) Claim(dir string) bool {
	dir = filepath.Clean(dir)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inFlight[dir]; ok {
		return false
	}
	p.inFlight[dir] = struct{}{}
	return true
}

// Unmark removes dir from the set and ends its in-flight claim.
func (p *ProcessedSet) Unmark(dir string) {
	dir = filepath.Clean(dir)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, dir)
	delete(p.dirs, dir)
}

// IsCoveredByProcessedAncestor reports whether path is a member or lies below a member.
func (p *ProcessedSet) IsCoveredByProcessedAncestor(path string) bool {
	path = filepath.Clean(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.dirs[path]; ok {
		return true
	}
	for dir := range p.dirs {
		prefix := dir
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (p *ProcessedSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.dirs)
}

// Snapshot returns the members in lexical order.
func (p *ProcessedSet) Snapshot() []string {
	p.mu.Lock()
	dirs := make([]string, 0, len(p.dirs))
	for dir := range p.dirs {
		dirs = append(dirs, dir)
	}
	p.mu.Unlock()
	sort.Strings(dirs)
	return dirs
}
