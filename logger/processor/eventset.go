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

import (
	"strings"
	"sync"
)

// EventSetRegistry maps a (domain, action, status) tuple, or a bare
// logger-name prefix, to a visual prefix (an emoji or glyph string). Both
// lookup kinds share one registry; tuple lookups take priority.
type EventSetRegistry struct {
	mu      sync.RWMutex
	tuples  map[string]string
	prefix  map[string]string
	enabled bool
}

// NewEventSetRegistry returns an empty, disabled registry. Registering any
// entry implicitly enables it.
func NewEventSetRegistry() *EventSetRegistry {
	return &EventSetRegistry{
		tuples: make(map[string]string),
		prefix: make(map[string]string),
	}
}

func tupleKey(domain, action, status string) string {
	return domain + "|" + action + "|" + status
}

// RegisterTuple associates (domain, action, status) with a visual prefix.
func (r *EventSetRegistry) RegisterTuple(domain, action, status, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tuples[tupleKey(domain, action, status)] = prefix
	r.enabled = true
}

// RegisterLoggerPrefix associates every logger whose name starts with
// namePrefix with a visual prefix.
func (r *EventSetRegistry) RegisterLoggerPrefix(namePrefix, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefix[namePrefix] = prefix
	r.enabled = true
}

// Lookup resolves a visual prefix for loggerName/event. event may encode
// "domain.action.status" (dot-separated) to match a registered tuple;
// otherwise only the logger-name-prefix table is consulted. Returns
// ok=false (a silent no-op) if the registry has nothing registered.
func (r *EventSetRegistry) Lookup(loggerName, event string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.enabled {
		return "", false
	}

	if parts := strings.SplitN(event, ".", 3); len(parts) == 3 {
		if p, ok := r.tuples[tupleKey(parts[0], parts[1], parts[2])]; ok {
			return p, true
		}
	}

	best := ""
	bestLen := -1
	for namePrefix, p := range r.prefix {
		if strings.HasPrefix(loggerName, namePrefix) && len(namePrefix) > bestLen {
			best, bestLen = p, len(namePrefix)
		}
	}
	if bestLen >= 0 {
		return best, true
	}
	return "", false
}
