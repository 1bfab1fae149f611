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

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/logger/level"
)

// LevelConverter parses a log level name, failing loudly on unknown input,
// the same fail-loud contract as level.Parse.
func LevelConverter(raw string) (any, error) {
	lvl, ok := level.Parse(raw)
	if !ok {
		return nil, errors.New(errors.KindConfiguration, errors.CodeConfigLevelUnknown,
			fmt.Sprintf("unknown log level %q", raw))
	}
	return lvl, nil
}

// MappingConverter parses "k1:v1,k2:v2" into a map[string]string. Empty
// input yields an empty, non-nil map.
func MappingConverter(raw string) (any, error) {
	out := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(kv) != 2 {
			return nil, errors.ValidationError("mapping", fmt.Sprintf("entry %q is not k:v", pair))
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

// HeadersConverter parses "k1=v1,k2=v2" into a map[string]string, the
// OTEL_EXPORTER_OTLP_HEADERS wire shape, which separates key from value
// with "=" where MappingConverter uses ":". Empty input yields an empty,
// non-nil map.
func HeadersConverter(raw string) (any, error) {
	out := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			return nil, errors.ValidationError("headers", fmt.Sprintf("entry %q is not k=v", pair))
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

// FloatRangeConverter returns a Converter parsing a float64 constrained to
// [min, max].
func FloatRangeConverter(min, max float64) Converter {
	return func(raw string) (any, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.ValidationError("float", fmt.Sprintf("%q is not a float: %v", raw, err))
		}
		if v < min || v > max {
			return nil, errors.ValidationError("float", fmt.Sprintf("%v outside range [%v, %v]", v, min, max))
		}
		return v, nil
	}
}

// IntSetConverter parses a comma-separated list of ints into a
// map[int]struct{} (used for retryable_status sets of HTTP codes).
func IntSetConverter(raw string) (any, error) {
	out := make(map[int]struct{})
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, tok := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, errors.ValidationError("int_set", fmt.Sprintf("%q is not an int", tok))
		}
		out[n] = struct{}{}
	}
	return out, nil
}
