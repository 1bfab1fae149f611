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

// Package processor implements the fixed, ordered log-record processor
// chain: context merge, level assignment, timestamping, enrichment,
// per-module filtering, rate limiting, event-set enrichment, redaction,
// trace injection, rendering, and dispatch.
package processor

import (
	"os"
	"sync"

	"github.com/nabbar/foundation/logger/level"
)

// ServiceMeta is the cached enrichment added once per entry by the
// enrichment step.
type ServiceMeta struct {
	Name        string
	Version     string
	Environment string
	Hostname    string
	PID         int
}

func newServiceMeta(name, version, environment string) ServiceMeta {
	host, _ := os.Hostname()
	return ServiceMeta{
		Name:        name,
		Version:     version,
		Environment: environment,
		Hostname:    host,
		PID:         os.Getpid(),
	}
}

// Context carries everything the processor chain's steps need: the
// module-level filter map, cached service metadata, the rate limiter, the
// event-set registry, redaction rules, the active dynamic-scope field
// provider, and a monotonic sequence counter shared by every logger.
type Context struct {
	mu sync.RWMutex

	service ServiceMeta

	moduleLevels map[string]int // dotted prefix -> numeric level threshold

	contextFields func() map[string]any
	traceFields   func() (traceID, spanID string)

	limiter   *RateLimiter
	eventSets *EventSetRegistry
	redactors []Redactor

	renderMode string // "key_value" | "json" | "human"
	isTTY      func() bool

	defaultLevel int

	seq uint64
}

// NewContext builds a processor Context. contextFields and traceFields may
// be nil (both steps become no-ops).
func NewContext(serviceName, version, environment string, contextFields func() map[string]any, traceFields func() (string, string)) *Context {
	return &Context{
		service:       newServiceMeta(serviceName, version, environment),
		moduleLevels:  make(map[string]int),
		contextFields: contextFields,
		traceFields:   traceFields,
		eventSets:     NewEventSetRegistry(),
		renderMode:    "key_value",
		isTTY:         func() bool { return false },
		defaultLevel:  int(level.TRACE),
	}
}

// SetDefaultLevel sets the threshold used by PerModuleFilter when a logger
// name matches no entry in the module-levels map.
func (c *Context) SetDefaultLevel(l level.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultLevel = int(l)
}

// DefaultLevel returns the threshold applied when no module-level entry matches.
func (c *Context) DefaultLevel() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultLevel
}

// SetModuleLevel registers the numeric effective level threshold for a
// dotted logger-name prefix (e.g. "app.db" -> DEBUG).
func (c *Context) SetModuleLevel(prefix string, numericLevel int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moduleLevels[prefix] = numericLevel
}

// EffectiveLevel resolves the numeric threshold for loggerName by
// longest-matching dotted prefix, defaulting to def if no prefix matches.
func (c *Context) EffectiveLevel(loggerName string, def int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	best := -1
	bestLen := -1
	for prefix, lvl := range c.moduleLevels {
		if prefix == loggerName || isDottedPrefix(loggerName, prefix) {
			if len(prefix) > bestLen {
				best, bestLen = lvl, len(prefix)
			}
		}
	}
	if best == -1 {
		return def
	}
	return best
}

func isDottedPrefix(name, prefix string) bool {
	if len(name) <= len(prefix) {
		return false
	}
	return name[:len(prefix)] == prefix && name[len(prefix)] == '.'
}

// SetRenderMode selects "key_value", "json", or "human" for the rendering
// step.
func (c *Context) SetRenderMode(mode string, isTTY func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderMode = mode
	if isTTY != nil {
		c.isTTY = isTTY
	}
}

// SetContextFields installs the dynamic-scope field provider read by the
// ContextMerge step. A nil provider makes that step a no-op.
func (c *Context) SetContextFields(provider func() map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contextFields = provider
}

// SetTraceFields installs the ambient trace provider read by the
// TraceContext step. A nil provider makes that step a no-op.
func (c *Context) SetTraceFields(provider func() (traceID, spanID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traceFields = provider
}

// SetRateLimiter installs the per-(logger,event) token-bucket limiter.
func (c *Context) SetRateLimiter(l *RateLimiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = l
}

// AddRedactor appends a scrubbing rule run by the redaction step.
func (c *Context) AddRedactor(r Redactor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redactors = append(c.redactors, r)
}

// EventSets returns the registry used by the event-set enrichment step.
func (c *Context) EventSets() *EventSetRegistry {
	return c.eventSets
}

// nextSeq returns the next monotonically increasing sequence number.
func (c *Context) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}
