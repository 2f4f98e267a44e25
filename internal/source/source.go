// Package source provides the counter resources the samplers read: named
// blobs of text, usually files below a procfs mount.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// HostStat is the aggregate host CPU counter resource.
const HostStat = "stat"

// DefaultRoot is the procfs mount point.
const DefaultRoot = "/proc"

// ProcessStatus returns the memory accounting resource of pid.
func ProcessStatus(pid int) string {
	return filepath.Join(strconv.Itoa(pid), "status")
}

// CounterSource abstracts how counter resources are located and read.
type CounterSource interface {
	// Exists reports whether name exists and is presumed readable.
	Exists(name string) bool
	// ReadAll returns the full content of name. Failures are
	// apperrors.SourceError values.
	ReadAll(name string) ([]byte, error)
}

// FS reads resources from files below Root.
type FS struct {
	Root string
}

// NewFS returns a source rooted at root, or at DefaultRoot when root is empty.
func NewFS(root string) FS {
	if root == "" {
		root = DefaultRoot
	}
	return FS{Root: root}
}

func (s FS) path(name string) string {
	return filepath.Join(s.Root, name)
}

// Exists reports whether the resource file is readable by this process.
func (s FS) Exists(name string) bool {
	return readable(s.path(name))
}

// ReadAll reads the resource file in one call.
func (s FS) ReadAll(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, apperrors.SourceError{Resource: name, Cause: err}
	}
	return data, nil
}

// Map is an in-memory CounterSource. It is safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMap returns a Map holding a copy of files.
func NewMap(files map[string]string) *Map {
	m := &Map{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		m.files[name] = []byte(content)
	}
	return m
}

// Set replaces the content of name.
func (m *Map) Set(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = []byte(content)
}

// Delete removes name.
func (m *Map) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
}

// Exists reports whether name is present.
func (m *Map) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok
}

// ReadAll returns a copy of the content of name.
func (m *Map) ReadAll(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, apperrors.SourceError{Resource: name, Cause: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}
