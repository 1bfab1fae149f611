/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

// Package fields implements an insertion-order-preserving structured
// attribute set.
package fields

import "github.com/sirupsen/logrus"

// Fields is an ordered string-keyed attribute map: insertion order is
// preserved across Add/Merge, so the key_value and human renderers emit
// attributes in the order callers added them.
type Fields struct {
	keys   []string
	values map[string]any
}

// New returns an empty Fields set.
func New() Fields {
	return Fields{values: make(map[string]any)}
}

// Add returns a new Fields with key set to val, appended to the key order
// if new, or updated in place (order unchanged) if key already existed.
func (f Fields) Add(key string, val any) Fields {
	res := f.clone()
	if _, exists := res.values[key]; !exists {
		res.keys = append(res.keys, key)
	}
	res.values[key] = val
	return res
}

// Merge returns a new Fields with every entry of other applied, in other's
// own insertion order, after f's own entries.
func (f Fields) Merge(other Fields) Fields {
	if other.Len() == 0 {
		return f
	}
	res := f.clone()
	for _, k := range other.keys {
		if _, exists := res.values[k]; !exists {
			res.keys = append(res.keys, k)
		}
		res.values[k] = other.values[k]
	}
	return res
}

// Clean returns a new Fields with the given keys removed.
func (f Fields) Clean(keys ...string) Fields {
	if len(keys) == 0 {
		return f
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	res := New()
	for _, k := range f.keys {
		if _, ok := drop[k]; ok {
			continue
		}
		res = res.Add(k, f.values[k])
	}
	return res
}

// Get returns the value stored at key and whether it was present.
func (f Fields) Get(key string) (any, bool) {
	if f.values == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of entries.
func (f Fields) Len() int { return len(f.keys) }

// Keys returns the insertion-ordered key slice (a copy, safe to mutate).
func (f Fields) Keys() []string {
	res := make([]string, len(f.keys))
	copy(res, f.keys)
	return res
}

// Range calls fn for every entry in insertion order, stopping early if fn returns false.
func (f Fields) Range(fn func(key string, val any) bool) {
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Map returns a plain map[string]any snapshot (order is lost, by definition of map).
func (f Fields) Map() map[string]any {
	res := make(map[string]any, len(f.values))
	for k, v := range f.values {
		res[k] = v
	}
	return res
}

// Logrus adapts Fields to logrus.Fields.
func (f Fields) Logrus() logrus.Fields {
	return logrus.Fields(f.Map())
}

func (f Fields) clone() Fields {
	res := Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]any, len(f.values)),
	}
	copy(res.keys, f.keys)
	for k, v := range f.values {
		res.values[k] = v
	}
	return res
}
