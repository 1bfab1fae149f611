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

// Package logger assembles logger/entry, logger/level, logger/processor and
// logger/sink into the foundation's public logging surface: a TelemetryConfig
// resolved from the process environment, a Pipeline holding the one
// processor.Context/processor.Chain pair every named Logger shares, and
// Logger itself, a thin per-name handle over that shared pipeline.
package logger

import (
	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/logger/level"
	"github.com/nabbar/foundation/logger/processor"
)

// Attr is one structured attribute attached to a log call.
type Attr struct {
	Key   string
	Value any
}

// F builds an Attr, short for "field", kept terse since call sites pass
// several of these per log call.
func F(key string, val any) Attr {
	return Attr{Key: key, Value: val}
}

// Logger is a named handle into a shared Pipeline. Creating one never
// mutates the Pipeline; every call runs the same eleven-step processor
// chain against a fresh entry.Entry.
type Logger struct {
	name  string
	ctx   *processor.Context
	chain *processor.Chain
}

// Name returns the dotted logger name this handle was created for.
func (l *Logger) Name() string { return l.name }

func (l *Logger) emit(lvl level.Level, event string, err error, attrs []Attr) {
	e := entry.New(l.name, lvl, event)
	for _, a := range attrs {
		e = e.WithAttribute(a.Key, a.Value)
	}
	if err != nil {
		e = e.WithError(err)
	}
	l.chain.Run(l.ctx, e)
}

// Trace logs at TRACE.
func (l *Logger) Trace(event string, attrs ...Attr) { l.emit(level.TRACE, event, nil, attrs) }

// Debug logs at DEBUG.
func (l *Logger) Debug(event string, attrs ...Attr) { l.emit(level.DEBUG, event, nil, attrs) }

// Info logs at INFO.
func (l *Logger) Info(event string, attrs ...Attr) { l.emit(level.INFO, event, nil, attrs) }

// Warn logs at WARN.
func (l *Logger) Warn(event string, attrs ...Attr) { l.emit(level.WARN, event, nil, attrs) }

// Error logs at ERROR, capturing err (type, message, cause chain, stack)
// onto the entry when non-nil.
func (l *Logger) Error(event string, err error, attrs ...Attr) {
	l.emit(level.ERROR, event, err, attrs)
}

// Critical logs at CRITICAL, capturing err when non-nil. It does not exit
// the process or panic: terminating on a fatal condition is the caller's
// decision, not the logger's.
func (l *Logger) Critical(event string, err error, attrs ...Attr) {
	l.emit(level.CRITICAL, event, err, attrs)
}
