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

package context

// FieldsKey is the well-known Config[string] key under which the active
// scoped field map (read by the logger's context-merge processor) lives.
const FieldsKey = "foundation.context.fields"

// ActiveFields returns the field map installed by the innermost enclosing
// WithContext call on cfg, or nil if none is active.
func ActiveFields(cfg Config[string]) map[string]any {
	v, ok := cfg.Load(FieldsKey)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// WithContext installs the merge of the currently active field map and
// fields as the active field map for the duration of fn, then restores
// whatever was active beforehand, on every exit path, including panics
// propagating out of fn.
func WithContext(cfg Config[string], fields map[string]any, fn func()) {
	prev, hadPrev := cfg.Load(FieldsKey)

	merged := make(map[string]any, len(fields))
	if p, ok := prev.(map[string]any); ok {
		for k, v := range p {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}

	cfg.Store(FieldsKey, merged)
	defer func() {
		if hadPrev {
			cfg.Store(FieldsKey, prev)
		} else {
			cfg.Delete(FieldsKey)
		}
	}()

	fn()
}
