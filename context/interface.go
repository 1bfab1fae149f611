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

// Package context provides the generic, concurrency-safe Config[T] used as
// the Hub's root context and, via WithContext, the scoped field map read by
// the logger pipeline's context-merge processor.
package context

import (
	"context"

	libatm "github.com/nabbar/foundation/atomic"
)

type FuncWalk[T comparable] func(key T, val any) bool

// MapManage exposes the raw key/value store embedded in a Config.
type MapManage[T comparable] interface {
	Clean()
	Load(key T) (val any, ok bool)
	Store(key T, cfg any)
	Delete(key T)
}

// Config is a context.Context carrying an additional concurrency-safe map,
// keyed by T, used to propagate ambient state (the Hub's registries, the
// logger's scoped field map) without threading extra function parameters.
type Config[T comparable] interface {
	context.Context
	MapManage[T]

	// GetContext returns the wrapped context.Context.
	GetContext() context.Context
	// Clone creates an independent copy sharing no storage with the original.
	Clone(ctx context.Context) Config[T]
	// Merge copies every entry of cfg into the receiver, overwriting on key collision.
	Merge(cfg Config[T]) bool
	// Walk calls fct for every stored entry in unspecified order.
	Walk(fct FuncWalk[T])
	// WalkLimit is Walk restricted to validKeys when any are given.
	WalkLimit(fct FuncWalk[T], validKeys ...T)

	LoadOrStore(key T, cfg any) (val any, loaded bool)
	LoadAndDelete(key T) (val any, loaded bool)
}

// New returns a Config rooted at ctx (context.Background() if ctx is nil).
func New[T comparable](ctx context.Context) Config[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	return &ccx[T]{
		m: libatm.NewMapAny[T](),
		x: ctx,
	}
}
