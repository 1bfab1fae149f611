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

import "sync/atomic"

// Value is a generic, lock-free holder over sync/atomic.Value with a
// configurable default returned in place of the zero value.
type Value[T any] interface {
	SetDefault(def T)
	Load() T
	Store(val T)
	Swap(new T) (old T)
	CompareAndSwap(old, new T) (swapped bool)
}

type value[T any] struct {
	av  atomic.Value
	def atomic.Value
}

// NewValue returns a Value[T] with no default (Load returns the zero value of T until Store is called).
func NewValue[T any]() Value[T] {
	return &value[T]{}
}

// NewValueDefault returns a Value[T] pre-seeded with def as both its initial and fallback value.
func NewValueDefault[T any](def T) Value[T] {
	v := &value[T]{}
	v.SetDefault(def)
	return v
}

func (o *value[T]) SetDefault(def T) { o.def.Store(box[T]{v: def}) }

func (o *value[T]) getDefault() T {
	if b, ok := Cast[box[T]](o.def.Load()); ok {
		return b.v
	}
	var zero T
	return zero
}

func (o *value[T]) Load() T {
	v, ok := Cast[box[T]](o.av.Load())
	if !ok {
		return o.getDefault()
	}
	return v.v
}

func (o *value[T]) Store(val T) { o.av.Store(box[T]{v: val}) }

func (o *value[T]) Swap(new T) (old T) {
	prev := o.av.Swap(box[T]{v: new})
	v, ok := Cast[box[T]](prev)
	if !ok {
		return o.getDefault()
	}
	return v.v
}

func (o *value[T]) CompareAndSwap(old, new T) bool {
	return o.av.CompareAndSwap(box[T]{v: old}, box[T]{v: new})
}

// box wraps T so zero values (including nil interfaces) can still be stored
// in a sync/atomic.Value, which rejects storing inconsistent concrete types.
type box[T any] struct{ v T }
