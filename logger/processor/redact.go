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

import "regexp"

// Redactor scrubs a single attribute value given its key.
type Redactor interface {
	Redact(key, value string) string
}

// FieldNameRedactor replaces the entire value when key is in Names.
type FieldNameRedactor struct {
	Names       map[string]struct{}
	Replacement string
}

// NewFieldNameRedactor builds a FieldNameRedactor for the given field
// names, masking with "[REDACTED]" unless replacement overrides it.
func NewFieldNameRedactor(replacement string, names ...string) FieldNameRedactor {
	if replacement == "" {
		replacement = "[REDACTED]"
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return FieldNameRedactor{Names: set, Replacement: replacement}
}

func (f FieldNameRedactor) Redact(key, value string) string {
	if _, ok := f.Names[key]; ok {
		return f.Replacement
	}
	return value
}

// PatternRedactor replaces every regex match inside a value, regardless of
// field name (e.g. credit-card-shaped substrings, bearer tokens).
type PatternRedactor struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewPatternRedactor compiles pattern once; panics on an invalid regex,
// matching the fail-fast contract for configuration built at startup.
func NewPatternRedactor(pattern, replacement string) PatternRedactor {
	if replacement == "" {
		replacement = "[REDACTED]"
	}
	return PatternRedactor{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

func (p PatternRedactor) Redact(_, value string) string {
	return p.Pattern.ReplaceAllString(value, p.Replacement)
}
