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

// Package console implements the TTY-aware, colored console log sink.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/logger/level"
)

// Sink writes rendered log lines to an io.Writer (stderr by default),
// coloring by level when the target is a real terminal.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	isatty func() bool
}

// New returns a console Sink writing to w. If w is *os.File, color is
// auto-disabled off a TTY and honors NO_COLOR/FORCE_COLOR, matching the
// module's console package conventions.
func New(w io.Writer) *Sink {
	s := &Sink{w: w, isatty: func() bool { return false }}

	if f, ok := w.(*os.File); ok {
		s.isatty = func() bool { return term.IsTerminal(int(f.Fd())) }
	}
	s.color = colorAllowed()
	return s
}

// Stderr returns a Sink writing to os.Stderr, the module's sink default.
func Stderr() *Sink { return New(os.Stderr) }

// Stdout returns a Sink writing to os.Stdout.
func Stdout() *Sink { return New(os.Stdout) }

func colorAllowed() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return true
}

// Write implements processor.Sink. It is safe for concurrent use.
func (s *Sink) Write(rendered string, e *entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := rendered
	_, force := os.LookupEnv("FORCE_COLOR")
	if s.color && (force || s.isatty()) {
		line = levelColor(e.Level).Sprint(line)
	}

	_, err := fmt.Fprintln(s.w, line)
	return err
}

func levelColor(l level.Level) *color.Color {
	switch l {
	case level.CRITICAL, level.ERROR:
		return color.New(color.FgRed, color.Bold)
	case level.WARN:
		return color.New(color.FgYellow)
	case level.DEBUG, level.TRACE:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Reset)
	}
}
