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

// Package di implements the Hub's dependency-injection container: a
// type-keyed instance registry plus reflection-based constructor-parameter
// resolution.
package di

import (
	"reflect"
	"sync"

	"github.com/nabbar/foundation/errors"
)

// Container is a type-keyed instance registry. Instances are looked up by
// their reflect.Type, with an optional name for disambiguating multiple
// instances of the same type.
type Container interface {
	// Register stores value under its own reflect.Type, and additionally
	// under name if non-empty.
	Register(value any, name string) error
	// RegisterProvider stores ctor (a func value returning one value, or a
	// value and an error) as the provider for its return type. Resolve
	// consults providers for parameter types that have no registered
	// instance, constructing the dependency transitively.
	RegisterProvider(ctor any) error
	// Get returns the instance registered for t, if any.
	Get(t reflect.Type) (any, bool)
	// GetNamed returns the instance registered under name.
	GetNamed(name string) (any, bool)
	// Has reports whether t has a registered instance.
	Has(t reflect.Type) bool
	// Resolve calls ctor (a func value) after resolving each of its
	// parameters from, in order: overrides (matched by exact reflect.Type or,
	// for interface parameters, by implementation),
	// registered instances, or a registered provider (resolved recursively).
	// ctor must return either one value, or a value and an error. A missing
	// parameter surfaces an error naming the position and type; a cycle in
	// the provider graph surfaces a CycleError.
	Resolve(ctor any, overrides ...any) (any, error)
}

type container struct {
	mu        sync.RWMutex
	byType    map[reflect.Type]any
	byName    map[string]any
	providers map[reflect.Type]reflect.Value
}

// New returns an empty Container.
func New() Container {
	return &container{
		byType:    make(map[reflect.Type]any),
		byName:    make(map[string]any),
		providers: make(map[reflect.Type]reflect.Value),
	}
}

func (c *container) Register(value any, name string) error {
	if value == nil {
		return errors.ValidationError("di.value", "cannot register a nil instance")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.byType[reflect.TypeOf(value)] = value
	if name != "" {
		c.byName[name] = value
	}
	return nil
}

func (c *container) RegisterProvider(ctor any) error {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		return errors.ValidationError("di.provider", "RegisterProvider requires a constructor function")
	}
	ft := fn.Type()
	if ft.NumOut() < 1 || ft.NumOut() > 2 {
		return errors.ValidationError("di.provider", "provider must return (instance) or (instance, error)")
	}
	if ft.NumOut() == 2 && ft.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
		return errors.ValidationError("di.provider", "provider's second return value must be error")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[ft.Out(0)] = fn
	return nil
}

func (c *container) provider(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if fn, ok := c.providers[t]; ok {
		return fn, true
	}
	if t.Kind() == reflect.Interface {
		for rt, fn := range c.providers {
			if rt.Implements(t) {
				return fn, true
			}
		}
	}
	return reflect.Value{}, false
}

// lookup resolves t to a registered instance: an exact type match first,
// then, for interface types, any registered instance implementing t.
// Which instance wins when several implement t is unspecified; register the
// interface value itself (or pass an override) when that matters.
func (c *container) lookup(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if v, ok := c.byType[t]; ok {
		return reflect.ValueOf(v), true
	}
	if t.Kind() == reflect.Interface {
		for rt, v := range c.byType {
			if rt.Implements(t) {
				return reflect.ValueOf(v), true
			}
		}
	}
	return reflect.Value{}, false
}

func (c *container) Get(t reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byType[t]
	return v, ok
}

func (c *container) GetNamed(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byName[name]
	return v, ok
}

// Has reports whether Resolve could fill a parameter of type t from a
// registered instance (exact or, for interfaces, assignable).
func (c *container) Has(t reflect.Type) bool {
	_, ok := c.lookup(t)
	return ok
}

func (c *container) Resolve(ctor any, overrides ...any) (any, error) {
	override := make(map[reflect.Type]reflect.Value, len(overrides))
	for _, o := range overrides {
		override[reflect.TypeOf(o)] = reflect.ValueOf(o)
	}

	return c.resolve(ctor, override, make(map[reflect.Type]bool))
}

func matchOverride(override map[reflect.Type]reflect.Value, pt reflect.Type) (reflect.Value, bool) {
	if ov, ok := override[pt]; ok {
		return ov, true
	}
	if pt.Kind() == reflect.Interface {
		for ot, ov := range override {
			if ot.Implements(pt) {
				return ov, true
			}
		}
	}
	return reflect.Value{}, false
}

// resolve calls ctor with each parameter filled from, in order, override,
// a registered instance, or a registered provider, the last resolved
// recursively through this same function. visited holds every provider
// return type on the current resolution path; meeting one again means the
// provider graph cycles, surfaced as a CycleError rather than unbounded
// recursion. Resolution never mutates the container: a provider-built
// dependency is not cached back into byType.
func (c *container) resolve(ctor any, override map[reflect.Type]reflect.Value, visited map[reflect.Type]bool) (any, error) {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		return nil, errors.ValidationError("di.ctor", "Resolve requires a constructor function")
	}
	ft := fn.Type()

	args := make([]reflect.Value, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)

		if ov, ok := matchOverride(override, pt); ok {
			args[i] = ov
			continue
		}
		if v, ok := c.lookup(pt); ok {
			args[i] = v
			continue
		}
		if p, ok := c.provider(pt); ok {
			if visited[pt] {
				return nil, errors.New(errors.KindConcurrency, errors.CodeDICycle,
					"dependency cycle detected while resolving constructor parameter").
					WithContext("di.param_index", i).
					WithContext("di.param_type", pt.String())
			}
			visited[pt] = true
			v, err := c.resolve(p.Interface(), override, visited)
			delete(visited, pt)
			if err != nil {
				return nil, err
			}
			args[i] = reflect.ValueOf(v)
			continue
		}
		return nil, errors.New(errors.KindInternal, errors.CodeDINotFound,
			"no dependency registered for constructor parameter").
			WithContext("di.param_index", i).
			WithContext("di.param_type", pt.String())
	}

	out := fn.Call(args)
	switch len(out) {
	case 1:
		return out[0].Interface(), nil
	case 2:
		var err error
		if !out[1].IsNil() {
			err, _ = out[1].Interface().(error)
		}
		return out[0].Interface(), err
	default:
		return nil, errors.New(errors.KindInternal, errors.CodeInvariantViolated,
			"constructor must return (instance) or (instance, error)")
	}
}
