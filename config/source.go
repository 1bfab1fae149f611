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

// Package config implements the layered, typed configuration loader: struct
// tags declare each field's env var, default, converter and validator; a
// Loader resolves values with explicit/runtime/file/env/default precedence
// and records where each field's value came from.
package config

// Source identifies where a field's effective value came from. Precedence,
// highest first: Explicit, Runtime, File, Env, Default.
type Source uint8

const (
	Default Source = iota
	Env
	File
	Runtime
	Explicit
)

func (s Source) String() string {
	switch s {
	case Default:
		return "default"
	case Env:
		return "env"
	case File:
		return "file"
	case Runtime:
		return "runtime"
	case Explicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// precedence returns a Source's rank; higher wins when two candidate values
// for the same field are available at once.
func (s Source) precedence() int {
	switch s {
	case Explicit:
		return 4
	case Runtime:
		return 3
	case File:
		return 2
	case Env:
		return 1
	default:
		return 0
	}
}
