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

package atomic

import "sync"

// Map is a concurrency-safe key/value store over sync.Map, keyed by a
// comparable type, storing untyped values.
type Map[K comparable] interface {
	Load(key K) (value any, ok bool)
	Store(key K, value any)
	LoadOrStore(key K, value any) (actual any, loaded bool)
	LoadAndDelete(key K) (value any, loaded bool)
	Delete(key K)
	Range(f func(key K, value any) bool)
}

// MapTyped is Map with values constrained to a single type V. Entries whose
// stored value no longer casts to V (e.g. after a concurrent Store of a
// different type through the untyped Map view) are dropped on Range.
type MapTyped[K comparable, V any] interface {
	Load(key K) (value V, ok bool)
	Store(key K, value V)
	LoadOrStore(key K, value V) (actual V, loaded bool)
	LoadAndDelete(key K) (value V, loaded bool)
	Delete(key K)
	Range(f func(key K, value V) bool)
}

type anyMap[K comparable] struct {
	m sync.Map
}

// NewMapAny returns an empty Map with untyped values.
func NewMapAny[K comparable]() Map[K] {
	return &anyMap[K]{}
}

func (o *anyMap[K]) Load(key K) (value any, ok bool) { return o.m.Load(key) }

func (o *anyMap[K]) Store(key K, value any) { o.m.Store(key, value) }

func (o *anyMap[K]) LoadOrStore(key K, value any) (actual any, loaded bool) {
	return o.m.LoadOrStore(key, value)
}

func (o *anyMap[K]) LoadAndDelete(key K) (value any, loaded bool) {
	return o.m.LoadAndDelete(key)
}

func (o *anyMap[K]) Delete(key K) { o.m.Delete(key) }

func (o *anyMap[K]) Range(f func(key K, value any) bool) {
	o.m.Range(func(key, value any) bool {
		k, ok := Cast[K](key)
		if !ok {
			o.m.Delete(key)
			return true
		}
		return f(k, value)
	})
}

type typedMap[K comparable, V any] struct {
	m Map[K]
}

// NewMapTyped returns an empty Map constrained to values of type V.
func NewMapTyped[K comparable, V any]() MapTyped[K, V] {
	return &typedMap[K, V]{m: NewMapAny[K]()}
}

func (o *typedMap[K, V]) Load(key K) (value V, ok bool) {
	return castLoaded[V](o.m.Load(key))
}

func (o *typedMap[K, V]) Store(key K, value V) { o.m.Store(key, value) }

func (o *typedMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return castLoaded[V](o.m.LoadOrStore(key, value))
}

func (o *typedMap[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return castLoaded[V](o.m.LoadAndDelete(key))
}

func (o *typedMap[K, V]) Delete(key K) { o.m.Delete(key) }

func (o *typedMap[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(key K, value any) bool {
		v, ok := Cast[V](value)
		if !ok {
			o.m.Delete(key)
			return true
		}
		return f(key, v)
	})
}

// castLoaded re-types a Map[K] Load-style result, requiring both the
// presence flag and the cast to succeed.
func castLoaded[V any](in any, found bool) (value V, ok bool) {
	v, k := Cast[V](in)
	if !k {
		return value, false
	}
	return v, found
}
