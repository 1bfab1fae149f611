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

// Package console implements Pout/Perr/Pin, the module's console I/O
// surface: colored, emoji-prefixed, optionally-JSON output and prompted
// input, auto-disabling color on a non-TTY or when NO_COLOR is set.
package console

import (
	"github.com/fatih/color"

	libatm "github.com/nabbar/foundation/atomic"
)

// ColorType names a reusable color scheme (one each for standard output, standard error and prompts).
type ColorType uint8

const (
	ColorStdout ColorType = iota
	ColorStderr
	ColorPrompt
)

var lst = libatm.NewMapTyped[ColorType, color.Color]()

// SetColor configures the color attributes for a ColorType.
func SetColor(id ColorType, attrs ...color.Attribute) {
	c := color.New(attrs...)
	if c == nil {
		lst.Store(id, color.Color{})
		return
	}
	lst.Store(id, *c)
}

// GetColor returns the color.Color configured for id, or an uncolored default.
func GetColor(id ColorType) *color.Color {
	if v, ok := lst.Load(id); ok {
		return &v
	}
	return &color.Color{}
}

// DelColor resets id to an uncolored default.
func DelColor(id ColorType) {
	lst.Delete(id)
}
