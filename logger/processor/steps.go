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
	"time"

	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/logger/level"
)

// ContextMerge copies the current dynamic-scope field map (installed by
// context.WithContext) into the entry's attributes. Keys the caller already
// set on the entry win over the ambient map.
func ContextMerge(ctx *Context, e *entry.Entry) {
	if ctx.contextFields == nil {
		return
	}
	for k, v := range ctx.contextFields() {
		if _, ok := e.Attributes.Get(k); ok {
			continue
		}
		e.Attributes = e.Attributes.Add(k, v)
	}
}

// LevelAssignment defaults an unset level (zero value) to INFO. In normal
// use every Entry already carries the level its call-site method set; this
// is a safety net for entries constructed without one.
func LevelAssignment(_ *Context, e *entry.Entry) {
	if e.Level == 0 {
		e.Level = level.INFO
	}
}

// Timestamp assigns the entry's process-wide monotonic sequence number.
// Wall time is already set by entry.New.
func Timestamp(ctx *Context, e *entry.Entry) {
	e.Seq = ctx.nextSeq()
	if e.Wall.IsZero() {
		e.Wall = time.Now()
	}
}

// Enrichment adds cached service metadata to the entry's attributes.
func Enrichment(ctx *Context, e *entry.Entry) {
	s := ctx.service
	e.Attributes = e.Attributes.
		Add("service.name", s.Name).
		Add("service.version", s.Version).
		Add("service.environment", s.Environment).
		Add("service.hostname", s.Hostname).
		Add("service.pid", s.PID)
}

// PerModuleFilter drops the entry if its level is below the effective
// threshold for its logger name (longest dotted-prefix match).
func PerModuleFilter(ctx *Context, e *entry.Entry) {
	threshold := ctx.EffectiveLevel(e.LoggerName, ctx.DefaultLevel())
	if int(e.Level) < threshold {
		e.Drop()
	}
}

// RateLimit drops the entry if the context's rate limiter rejects its
// (logger_name, event) key. A nil limiter means no limiting is configured.
func RateLimit(ctx *Context, e *entry.Entry) {
	if ctx.limiter == nil {
		return
	}
	if !ctx.limiter.Allow(e.LoggerName, e.Event) {
		e.Drop()
	}
}

// EventSetEnrichment adds a visual prefix to the entry's event string by
// looking up a domain/action/status tuple, falling back to a logger-name
// prefix match; silently no-ops if nothing is registered.
func EventSetEnrichment(ctx *Context, e *entry.Entry) {
	prefix, ok := ctx.eventSets.Lookup(e.LoggerName, e.Event)
	if !ok {
		return
	}
	e.Event = prefix + " " + e.Event
}

// Redaction scrubs every registered redactor's rule over the entry's
// attributes in place.
func Redaction(ctx *Context, e *entry.Entry) {
	if len(ctx.redactors) == 0 {
		return
	}
	for _, k := range e.Attributes.Keys() {
		v, _ := e.Attributes.Get(k)
		s, ok := v.(string)
		if !ok {
			continue
		}
		for _, r := range ctx.redactors {
			s = r.Redact(k, s)
		}
		e.Attributes = e.Attributes.Add(k, s)
	}
}

// TraceContext injects trace_id/span_id from the ambient trace provider, if
// the entry doesn't already carry one set explicitly by the caller.
func TraceContext(ctx *Context, e *entry.Entry) {
	if ctx.traceFields == nil || e.TraceID != "" {
		return
	}
	traceID, spanID := ctx.traceFields()
	e.TraceID = traceID
	e.SpanID = spanID
}
