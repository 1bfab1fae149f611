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
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/fatih/color"
)

var (
	outMu sync.Mutex
	errMu sync.Mutex
)

// Pout writes value to stdout per opts. See package doc for JSON-mode and color rules.
func Pout(value any, opts Options) error {
	outMu.Lock()
	defer outMu.Unlock()
	return write(os.Stdout, value, opts)
}

// Perr writes value to stderr per opts.
func Perr(value any, opts Options) error {
	errMu.Lock()
	defer errMu.Unlock()
	return write(os.Stderr, value, opts)
}

func write(f *os.File, value any, opts Options) error {
	text, isJSONDoc := render(value, opts)

	if !isJSONDoc && opts.Emoji != "" {
		text = opts.Emoji + " " + text
	}
	if opts.Newline {
		text += "\n"
	}

	if colorAllowed(f) && len(opts.attrs()) > 0 {
		c := color.New(opts.attrs()...)
		_, err := c.Fprint(f, text)
		return err
	}

	_, err := fmt.Fprint(f, text)
	return err
}

// render formats value as either plain text or a JSON document, returning
// whether the second form was used (in which case no emoji prefix applies).
func render(value any, opts Options) (string, bool) {
	if isCollection(value) {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value), false
		}
		return string(b), true
	}

	if JSONMode() {
		key := opts.JSONKey
		if key == "" {
			key = "value"
		}
		b, err := json.Marshal(map[string]any{key: value})
		if err == nil {
			return string(b), true
		}
	}

	return fmt.Sprintf("%v", value), false
}

func isCollection(value any) bool {
	if value == nil {
		return false
	}
	switch value.(type) {
	case map[string]any, []any:
		return true
	}
	k := reflect.ValueOf(value).Kind()
	return k == reflect.Map || k == reflect.Slice
}

// Pin reads a line from stdin, printing prompt (colored via ColorPrompt) first when non-empty.
func Pin(prompt string, opts Options) (string, error) {
	if prompt != "" {
		p := prompt + ": "
		if colorAllowed(os.Stdout) {
			GetColor(ColorPrompt).Print(p)
		} else {
			fmt.Print(p)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	return scanner.Text(), scanner.Err()
}
