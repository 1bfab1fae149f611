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

package errors

import "strings"

// Kind classifies an Error into one of the taxonomy buckets used across the
// config loader, registry, resilience runtime and logger pipeline.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindValidation
	KindResource
	KindNetwork
	KindTimeout
	KindRetryable
	KindAuthentication
	KindAuthorization
	KindConcurrency
	KindInternal
)

//nolint:cyclop
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindResource:
		return "resource"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindRetryable:
		return "retryable"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConcurrency:
		return "concurrency"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Retryable reports whether errors of this kind are retryable by default.
// Authentication/Authorization are never retryable.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindTimeout, KindRetryable:
		return true
	default:
		return false
	}
}

// ParseKind parses a Kind case-insensitively. Unknown input returns KindUnknown, false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "configuration":
		return KindConfiguration, true
	case "validation":
		return KindValidation, true
	case "resource":
		return KindResource, true
	case "network":
		return KindNetwork, true
	case "timeout":
		return KindTimeout, true
	case "retryable":
		return KindRetryable, true
	case "authentication":
		return KindAuthentication, true
	case "authorization":
		return KindAuthorization, true
	case "concurrency":
		return KindConcurrency, true
	case "internal":
		return KindInternal, true
	case "unknown", "":
		return KindUnknown, true
	default:
		return KindUnknown, false
	}
}
