/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

// Package entry defines Entry, the per-call log record built by a Logger and
// consumed by the processor chain. An Entry is mutable while owned by the
// pipeline and must be treated as immutable once handed to a sink.
package entry

import (
	"time"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/logger/fields"
	"github.com/nabbar/foundation/logger/level"
)

// ErrorInfo is the captured shape of an error attached to an Entry: type
// name, message, cause chain (outermost first) and a best-effort stack trace.
type ErrorInfo struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	CauseChain []string `json:"cause_chain,omitempty"`
	Stack      string   `json:"stack,omitempty"`
}

// NewErrorInfo captures err for attachment to an Entry.
func NewErrorInfo(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	info := ErrorInfo{
		Type:    errorTypeName(err),
		Message: err.Error(),
	}

	if fe := errors.As(err); fe != nil {
		info.Stack = fe.Trace()
		for _, c := range fe.CauseChain() {
			info.CauseChain = append(info.CauseChain, c.Error())
		}
	}

	return info
}

func errorTypeName(err error) string {
	if fe := errors.As(err); fe != nil {
		return fe.Kind().String()
	}
	return "error"
}

// Entry is one log record: a point-in-time, named event with structured
// attributes, produced by a Logger and walked through the processor chain.
type Entry struct {
	// Wall is the wall-clock time of the event.
	Wall time.Time
	// Seq is a process-wide monotonic sequence number, assigned at creation,
	// used to reconstruct ordering when wall-clock timestamps collide.
	Seq uint64

	Level      level.Level
	LoggerName string
	Event      string

	Attributes fields.Fields

	TraceID string
	SpanID  string

	Err *ErrorInfo

	// dropped is set by a processor via Drop(); downstream processors and
	// sinks must skip this Entry once true.
	dropped bool
}

// New creates an Entry for loggerName at lvl, with Wall set to now. Seq is
// assigned later by the processor chain's Timestamp step (processor.Context
// owns the monotonic counter).
func New(loggerName string, lvl level.Level, event string) *Entry {
	return &Entry{
		Wall:       time.Now(),
		Level:      lvl,
		LoggerName: loggerName,
		Event:      event,
		Attributes: fields.New(),
	}
}

// WithError attaches a captured error to the entry and returns it for chaining.
func (e *Entry) WithError(err error) *Entry {
	if err == nil {
		return e
	}
	info := NewErrorInfo(err)
	e.Err = &info
	return e
}

// WithAttribute adds a single attribute, preserving insertion order.
func (e *Entry) WithAttribute(key string, val any) *Entry {
	e.Attributes = e.Attributes.Add(key, val)
	return e
}

// WithTrace attaches trace/span identifiers, when available from the
// ambient trace context (see logger/processor's trace-context step).
func (e *Entry) WithTrace(traceID, spanID string) *Entry {
	e.TraceID = traceID
	e.SpanID = spanID
	return e
}

// Drop marks the entry so later processors and sinks skip it. It always
// returns true.
func (e *Entry) Drop() bool {
	e.dropped = true
	return true
}

// Dropped reports whether a prior processor called Drop.
func (e *Entry) Dropped() bool { return e.dropped }
