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

import (
	"os"

	"golang.org/x/term"
)

// JSONModeEnv is the environment flag that forces every Pout/Perr call into
// JSON-object emission regardless of Options.JSONKey.
const JSONModeEnv = "PROVIDE_JSON_OUTPUT"

// JSONMode reports whether JSON mode is active from the environment.
func JSONMode() bool {
	v, ok := os.LookupEnv(JSONModeEnv)
	if !ok {
		return false
	}
	switch v {
	case "", "0", "false", "FALSE", "False":
		return false
	default:
		return true
	}
}

// colorAllowed reports whether ANSI color is permitted for the given file,
// honoring NO_COLOR/FORCE_COLOR and TTY detection in that precedence order.
func colorAllowed(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}
