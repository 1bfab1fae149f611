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

package console

import "github.com/fatih/color"

// Options controls how a single Pout/Perr/Pin call renders its argument.
type Options struct {
	// Color, when non-empty, selects a fatih/color attribute set for this call.
	Color []color.Attribute
	Bold  bool
	Dim   bool
	// Newline appends a trailing newline. Defaults to true when unset via NewOptions.
	Newline bool
	// Emoji is printed as a prefix, separated from the value by one space.
	Emoji string
	// JSONKey wraps a non-dict/list value as {JSONKey: value} when JSON mode is active.
	// Empty means the key "value" is used.
	JSONKey string
}

// NewOptions returns the zero-value-safe default: no color, trailing newline, no emoji/key.
func NewOptions() Options {
	return Options{Newline: true}
}

func (o Options) attrs() []color.Attribute {
	a := append([]color.Attribute{}, o.Color...)
	if o.Bold {
		a = append(a, color.Bold)
	}
	if o.Dim {
		a = append(a, color.Faint)
	}
	return a
}
