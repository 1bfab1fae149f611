/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package registry implements the thread-safe (dimension, name) → (value,
// metadata) store used for both components and commands, with alias
// resolution and event-bus notification on mutation.
package registry

import (
	"sync"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/eventbus"
)

// Entry is a single registered value plus its declared aliases and metadata.
type Entry struct {
	Dimension string
	Name      string
	Value     any
	Aliases   []string
	Metadata  map[string]any
}

type dimensionStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry // canonical name -> entry
	alias   map[string]string // alias -> canonical name
}

// Registry is a multi-dimensional, thread-safe store. One instance serves
// every dimension (e.g. "component", "command"); dimensions are namespaces
// within it, each guarded by its own reader-writer lock so that mutation in
// one dimension never blocks lookups in another.
type Registry interface {
	// Register adds value under (dimension, name). Returns AlreadyExistsError
	// if name or any alias is already registered (as canonical or alias) in
	// that dimension.
	Register(dimension, name string, value any, aliases []string, metadata map[string]any) error
	// Get resolves name (canonical or alias) within dimension.
	Get(dimension, name string) (any, bool)
	// Has reports whether name (canonical or alias) is registered.
	Has(dimension, name string) bool
	// Remove deletes the canonical entry and its aliases.
	Remove(dimension, name string) bool
	// ListDimension returns a snapshot copy of every entry in dimension.
	ListDimension(dimension string) []Entry
	// GetMetadata returns the metadata map of the resolved entry, or nil if not found.
	GetMetadata(dimension, name string) (map[string]any, bool)
}

type registry struct {
	bus    eventbus.Bus
	topic  func(dimension string) string
	mu     sync.RWMutex
	stores map[string]*dimensionStore
}

// New returns a Registry that emits "<dimension>.registered" on bus for
// every successful Register call, carrying map[string]string{"dimension":
// dimension, "name": name}.
func New(bus eventbus.Bus) Registry {
	return &registry{
		bus:    bus,
		topic:  func(dimension string) string { return dimension + ".registered" },
		stores: make(map[string]*dimensionStore),
	}
}

func (r *registry) store(dimension string) *dimensionStore {
	r.mu.RLock()
	s, ok := r.stores[dimension]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.stores[dimension]; ok {
		return s
	}
	s = &dimensionStore{
		entries: make(map[string]*Entry),
		alias:   make(map[string]string),
	}
	r.stores[dimension] = s
	return s
}

func (r *registry) Register(dimension, name string, value any, aliases []string, metadata map[string]any) error {
	s := r.store(dimension)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return errors.AlreadyExistsError(dimension, name)
	}
	if _, exists := s.alias[name]; exists {
		return errors.AlreadyExistsError(dimension, name)
	}
	for _, a := range aliases {
		if _, exists := s.entries[a]; exists {
			return errors.AlreadyExistsError(dimension, a)
		}
		if _, exists := s.alias[a]; exists {
			return errors.AlreadyExistsError(dimension, a)
		}
	}

	s.entries[name] = &Entry{
		Dimension: dimension,
		Name:      name,
		Value:     value,
		Aliases:   append([]string{}, aliases...),
		Metadata:  metadata,
	}
	for _, a := range aliases {
		s.alias[a] = name
	}

	if r.bus != nil {
		r.bus.Emit(r.topic(dimension), map[string]string{"dimension": dimension, "name": name})
	}

	return nil
}

func (r *registry) resolve(s *dimensionStore, name string) (*Entry, bool) {
	if e, ok := s.entries[name]; ok {
		return e, true
	}
	if canon, ok := s.alias[name]; ok {
		e, ok := s.entries[canon]
		return e, ok
	}
	return nil, false
}

func (r *registry) Get(dimension, name string) (any, bool) {
	s := r.store(dimension)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := r.resolve(s, name)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

func (r *registry) Has(dimension, name string) bool {
	_, ok := r.Get(dimension, name)
	return ok
}

func (r *registry) Remove(dimension, name string) bool {
	s := r.store(dimension)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := r.resolve(s, name)
	if !ok {
		return false
	}

	delete(s.entries, e.Name)
	for _, a := range e.Aliases {
		delete(s.alias, a)
	}
	return true
}

func (r *registry) ListDimension(dimension string) []Entry {
	s := r.store(dimension)
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		res = append(res, *e)
	}
	return res
}

func (r *registry) GetMetadata(dimension, name string) (map[string]any, bool) {
	s := r.store(dimension)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := r.resolve(s, name)
	if !ok {
		return nil, false
	}
	return e.Metadata, true
}
