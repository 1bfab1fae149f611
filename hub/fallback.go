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

package hub

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nabbar/foundation/logger"
)

// LoggerHandle is the surface both a fully bootstrapped *logger.Logger and
// the bootstrap-time fallbackLogger satisfy. Hub.GetLogger returns this
// interface so callers never need to know which one they got.
type LoggerHandle interface {
	Trace(event string, attrs ...logger.Attr)
	Debug(event string, attrs ...logger.Attr)
	Info(event string, attrs ...logger.Attr)
	Warn(event string, attrs ...logger.Attr)
	Error(event string, err error, attrs ...logger.Attr)
	Critical(event string, err error, attrs ...logger.Attr)
}

// fallbackLogger is handed out while InitializeFoundation is running (see
// hub.go's bootstrapDepth guard): it bypasses the processor chain entirely
// and writes one key=value line per call directly to stderr, so a sink
// constructor that logs during its own construction can never deadlock or
// recurse into the bootstrap it is part of.
type fallbackLogger struct {
	name string
}

func newFallbackLogger(name string) *fallbackLogger {
	return &fallbackLogger{name: name}
}

var fallbackMu sync.Mutex

func (f *fallbackLogger) emit(level, event string, err error, attrs []logger.Attr) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()

	fmt.Fprintf(os.Stderr, "timestamp=%q level=%s logger=%q event=%q", time.Now().UTC().Format(time.RFC3339Nano), level, f.name, event)
	for _, a := range attrs {
		fmt.Fprintf(os.Stderr, " %s=%v", a.Key, a.Value)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, " error=%q", err.Error())
	}
	fmt.Fprintln(os.Stderr)
}

func (f *fallbackLogger) Trace(event string, attrs ...logger.Attr) { f.emit("TRACE", event, nil, attrs) }
func (f *fallbackLogger) Debug(event string, attrs ...logger.Attr) { f.emit("DEBUG", event, nil, attrs) }
func (f *fallbackLogger) Info(event string, attrs ...logger.Attr)  { f.emit("INFO", event, nil, attrs) }
func (f *fallbackLogger) Warn(event string, attrs ...logger.Attr)  { f.emit("WARN", event, nil, attrs) }
func (f *fallbackLogger) Error(event string, err error, attrs ...logger.Attr) {
	f.emit("ERROR", event, err, attrs)
}
func (f *fallbackLogger) Critical(event string, err error, attrs ...logger.Attr) {
	f.emit("CRITICAL", event, err, attrs)
}
