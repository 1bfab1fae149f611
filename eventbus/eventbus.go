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

// Package eventbus implements a synchronous, registration-ordered in-process
// pub/sub used to break the import cycle between the registry and the
// logger: the registry emits; the Hub subscribes a handler that turns
// emitted events into debug log records, without the registry ever
// importing the logger package directly.
package eventbus

import (
	"fmt"
	"os"
	"sync"
)

// Handler receives a topic's payload. Handlers must not panic across the bus
// boundary: a panicking handler is recovered and reported to stderr, never
// re-logged (that would risk recursing back into the bus).
type Handler func(topic string, payload any)

// Bus is a synchronous, registration-ordered publish/subscribe dispatcher.
type Bus interface {
	// Subscribe registers h to be called, in registration order, on every
	// Emit to topic. Returns an unsubscribe function.
	Subscribe(topic string, h Handler) (unsubscribe func())
	// Emit calls every handler subscribed to topic, in registration order,
	// synchronously on the caller's goroutine.
	Emit(topic string, payload any)
}

type subscription struct {
	id int
	h  Handler
}

type bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]subscription
}

// New returns an empty Bus.
func New() Bus {
	return &bus{subs: make(map[string][]subscription)}
}

func (b *bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *bus) Emit(topic string, payload any) {
	b.mu.Lock()
	list := make([]subscription, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		b.safeCall(s.h, topic, payload)
	}
}

func (b *bus) safeCall(h Handler, topic string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "eventbus: handler for topic %q panicked: %v\n", topic, r)
		}
	}()
	h(topic, payload)
}
