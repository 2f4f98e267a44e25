// Package registry keeps named plugins, one per name, in registration order.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a name is already taken.
var ErrDuplicate = errors.New("plugin already registered")

// ErrNotFound is returned by Get for an unknown name.
var ErrNotFound = errors.New("plugin not registered")

// Registry maps names to plugins of type T. It is safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	kind    string
	plugins map[string]T
	order   []string
}

// New returns an empty registry. kind describes the plugins in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, plugins: make(map[string]T)}
}

// Register stores plugin under name.
func (r *Registry[T]) Register(name string, plugin T) error {
	if name == "" {
		return fmt.Errorf("%s: empty name", r.kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[name]; ok {
		return fmt.Errorf("%s %q: %w", r.kind, name, ErrDuplicate)
	}
	r.plugins[name] = plugin
	r.order = append(r.order, name)
	return nil
}

// Unregister removes name and reports whether it was present.
func (r *Registry[T]) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[name]; !ok {
		return false
	}
	delete(r.plugins, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the plugin registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, ok := r.plugins[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, ErrNotFound)
	}
	return plugin, nil
}

// Len returns the number of registered plugins.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is a name and its plugin.
type Entry[T any] struct {
	Name   string
	Plugin T
}

// Entries returns the registered plugins in registration order.
func (r *Registry[T]) Entries() []Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[T], 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Entry[T]{Name: name, Plugin: r.plugins[name]})
	}
	return out
}
