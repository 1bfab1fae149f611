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

// Package errors provides the error taxonomy shared by the config loader, the
// registry, the resilience runtime and the logger pipeline.
//
// Every Error carries a Kind (taxonomy bucket), a stable Code, a dot-namespaced
// context map (e.g. "http.status", "aws.region") and a cause chain. Instances
// are not shared across Error values: attach-to-context operations always
// return and mutate the same instance they were called on.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error is the taxonomy-aware error type used across the module.
type Error interface {
	error

	// Kind returns the taxonomy bucket of this error.
	Kind() Kind
	// Code returns the stable, machine-readable identifier of this error.
	Code() string
	// Context returns a copy of the dot-namespaced context map.
	Context() map[string]any
	// WithContext attaches a key/value pair to this error's context map and
	// returns the same instance (context is never shared between instances).
	WithContext(key string, value any) Error
	// Cause returns the immediate wrapped cause, or nil.
	Cause() error
	// Unwrap implements compatibility with errors.Is/errors.As.
	Unwrap() error
	// Trace returns a formatted, human readable stack frame for this error.
	Trace() string
	// CauseChain walks this error and every wrapped cause, this error first
	// and the innermost cause last.
	CauseChain() []error
}

type ferr struct {
	kind Kind
	code string
	msg  string
	ctx  map[string]any
	next error
	at   runtime.Frame
}

// New creates a new Error of the given kind, with a stable code and message.
// The first non-nil cause, if any, becomes the wrapped cause returned by
// Unwrap; any further causes are ignored.
func New(kind Kind, code, message string, cause ...error) Error {
	e := &ferr{
		kind: kind,
		code: code,
		msg:  message,
		ctx:  make(map[string]any),
		at:   getFrame(),
	}

	for _, c := range cause {
		if c == nil {
			continue
		}
		e.next = c
		break
	}

	return e
}

// Newf is New with a fmt.Sprintf-formatted message.
func Newf(kind Kind, code, pattern string, args ...any) Error {
	return New(kind, code, fmt.Sprintf(pattern, args...))
}

// Wrap wraps an arbitrary error into the taxonomy, preserving it as Unwrap's result.
// If err is already an Error, it is returned unchanged.
func Wrap(kind Kind, code string, err error) Error {
	if err == nil {
		return nil
	}

	var e Error
	if errors.As(err, &e) {
		return e
	}

	return New(kind, code, err.Error(), err)
}

func (e *ferr) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.code != "" {
		sb.WriteString(" [")
		sb.WriteString(e.code)
		sb.WriteString("]")
	}

	if e.next != nil {
		sb.WriteString(": ")
		sb.WriteString(e.next.Error())
	}

	return sb.String()
}

func (e *ferr) Kind() Kind { return e.kind }

func (e *ferr) Code() string { return e.code }

func (e *ferr) Context() map[string]any {
	res := make(map[string]any, len(e.ctx))
	for k, v := range e.ctx {
		res[k] = v
	}
	return res
}

func (e *ferr) WithContext(key string, value any) Error {
	if e.ctx == nil {
		e.ctx = make(map[string]any)
	}
	e.ctx[key] = value
	return e
}

func (e *ferr) Cause() error { return e.next }

func (e *ferr) Unwrap() error { return e.next }

func (e *ferr) Trace() string { return formatFrame(e.at) }

func (e *ferr) CauseChain() []error {
	res := []error{e}

	cur := e.next
	for cur != nil {
		res = append(res, cur)

		u, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}

	return res
}

// Is reports whether the given error is (or wraps) a foundation Error.
func Is(err error) bool {
	var e Error
	return errors.As(err, &e)
}

// As extracts the nearest Error in err's chain, or nil.
func As(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is a foundation Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind() == kind
}

// Structured is the serialization shape of an Error: lossless except for
// the cause chain's stack frames.
type Structured struct {
	Kind    string         `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
	Cause   *Structured    `json:"cause,omitempty"`
}

// MarshalStructured renders e (and its cause chain) into the Structured shape.
func MarshalStructured(e Error) Structured {
	s := Structured{
		Kind:    e.Kind().String(),
		Code:    e.Code(),
		Message: e.Error(),
		Context: e.Context(),
	}

	if c := e.Cause(); c != nil {
		if ce := As(c); ce != nil {
			cs := MarshalStructured(ce)
			s.Cause = &cs
		} else {
			s.Cause = &Structured{Kind: KindUnknown.String(), Message: c.Error()}
		}
	}

	return s
}
