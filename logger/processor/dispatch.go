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
	"fmt"
	"os"

	"github.com/nabbar/foundation/logger/entry"
)

// Sink is anything the final rendered line (and, for sinks that want
// structured access, the Entry it came from) can be written to: a console
// writer, a rotating file, an OTLP exporter.
type Sink interface {
	Write(rendered string, e *entry.Entry) error
}

// Dispatch fans the entry's rendered form out to every sink, in
// registration order. A sink write failure is reported to stderr and does
// not stop delivery to the remaining sinks: one broken sink must not
// silence the others.
func Dispatch(sinks ...Sink) Func {
	return func(_ *Context, e *entry.Entry) {
		rendered, _ := e.Attributes.Get(RenderedKey)
		line, _ := rendered.(string)
		if line == "" {
			line = renderKeyValue(e)
		}
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Write(line, e); err != nil {
				fmt.Fprintf(os.Stderr, "foundation: sink write failed: %v\n", err)
			}
		}
	}
}
