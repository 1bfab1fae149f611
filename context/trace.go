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


package context

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// TraceKey is the well-known Config[string] key under which the active
// trace frame (read by the logger's trace-context processor) lives.
const TraceKey = "foundation.context.trace"

// Trace is one active trace frame: a 32-hex-digit trace id shared by every
// span in the trace, plus the 16-hex-digit id of the current span.
type Trace struct {
	TraceID string
	SpanID  string
}

// ActiveTrace returns the trace/span ids installed by the innermost
// enclosing WithSpan call on cfg, or empty strings if none is active (or
// the current trace was not sampled).
func ActiveTrace(cfg Config[string]) (traceID, spanID string) {
	v, ok := cfg.Load(TraceKey)
	if !ok {
		return "", ""
	}
	t, ok := v.(Trace)
	if !ok {
		return "", ""
	}
	return t.TraceID, t.SpanID
}

func newID(width int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:width]
}

// WithSpan installs a trace frame for the duration of fn, restoring the
// previous frame on every exit path, including panics propagating out of
// fn. Inside an already-active trace it reuses the trace id and mints a
// fresh span id; at the root it first draws against sampleRate (1.0 means
// always, 0.0 never) and, when the trace is not sampled, runs fn with no
// frame installed so the whole trace stays unsampled.
func WithSpan(cfg Config[string], sampleRate float64, fn func()) {
	prev, hadPrev := cfg.Load(TraceKey)

	frame := Trace{SpanID: newID(16)}
	if t, ok := prev.(Trace); ok && t.TraceID != "" {
		frame.TraceID = t.TraceID
	} else {
		if sampleRate < 1 && rand.Float64() >= sampleRate {
			fn()
			return
		}
		frame.TraceID = newID(32)
	}

	cfg.Store(TraceKey, frame)
	defer func() {
		if hadPrev {
			cfg.Store(TraceKey, prev)
		} else {
			cfg.Delete(TraceKey)
		}
	}()

	fn()
}
