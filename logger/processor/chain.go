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

package processor

import "github.com/nabbar/foundation/logger/entry"

// Func is a single pipeline step. It may mutate e in place and, if e should
// not reach the sinks, call e.Drop().
type Func func(ctx *Context, e *entry.Entry)

// Chain is the fixed, ordered processor chain, built once at logger
// finalization.
type Chain struct {
	steps []Func
}

// NewChain returns a Chain running steps in the given order.
func NewChain(steps ...Func) *Chain {
	return &Chain{steps: steps}
}

// DefaultChain returns the standard eleven-step chain, in order: context
// merge, level assignment, timestamp, enrichment, per-module filtering,
// rate limiting, event-set enrichment, redaction, trace context, rendering,
// dispatch.
func DefaultChain(sinks ...Sink) *Chain {
	return NewChain(
		ContextMerge,
		LevelAssignment,
		Timestamp,
		Enrichment,
		PerModuleFilter,
		RateLimit,
		EventSetEnrichment,
		Redaction,
		TraceContext,
		Rendering,
		Dispatch(sinks...),
	)
}

// Run executes every step in order on e, stopping early the moment a step
// drops it. Returns the (possibly dropped) entry.
func (c *Chain) Run(ctx *Context, e *entry.Entry) *entry.Entry {
	for _, step := range c.steps {
		step(ctx, e)
		if e.Dropped() {
			return e
		}
	}
	return e
}
