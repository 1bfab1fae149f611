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

import "fmt"

// Stable, well-known codes used by the core subsystems. Callers outside this
// module are free to mint their own codes via New/Newf directly.
const (
	CodeConfigFieldInvalid    = "CONFIG_FIELD_INVALID"
	CodeConfigFieldMissing    = "CONFIG_FIELD_MISSING"
	CodeConfigFileIndirection = "CONFIG_FILE_INDIRECTION"
	CodeConfigLevelUnknown    = "CONFIG_LEVEL_UNKNOWN"

	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeNotFound      = "NOT_FOUND"
	CodeStateInvalid  = "STATE_INVALID"

	CodeMaxRetriesExceeded = "MAX_RETRIES_EXCEEDED"
	CodeCancelled          = "CANCELLED"
	CodeCircuitOpen        = "CIRCUIT_OPEN"

	CodeDICycle    = "DI_CYCLE"
	CodeDINotFound = "DI_NOT_FOUND"

	CodeInvariantViolated = "INVARIANT_VIOLATED"
)

// ConfigError builds a KindConfiguration error naming the offending field and source.
func ConfigError(field, source string, cause error) Error {
	e := New(KindConfiguration, CodeConfigFieldInvalid, fmt.Sprintf("configuration field %q is invalid", field), cause)
	e.WithContext("config.field", field)
	e.WithContext("config.source", source)
	return e
}

// ValidationError builds a KindValidation error for a user-input predicate failure.
func ValidationError(field, reason string) Error {
	e := New(KindValidation, CodeConfigFieldInvalid, fmt.Sprintf("validation failed for %q: %s", field, reason))
	e.WithContext("validation.field", field)
	return e
}

// NotFoundError builds a KindResource error for a missing (dimension, name) lookup.
func NotFoundError(dimension, name string) Error {
	e := New(KindResource, CodeNotFound, fmt.Sprintf("%s %q not found", dimension, name))
	e.WithContext("resource.dimension", dimension)
	e.WithContext("resource.name", name)
	return e
}

// AlreadyExistsError builds a KindResource error for a duplicate (dimension, name) registration.
func AlreadyExistsError(dimension, name string) Error {
	e := New(KindResource, CodeAlreadyExists, fmt.Sprintf("%s %q already exists", dimension, name))
	e.WithContext("resource.dimension", dimension)
	e.WithContext("resource.name", name)
	return e
}

// InternalError builds a KindInternal error signalling an invariant violation.
func InternalError(message string, cause error) Error {
	return New(KindInternal, CodeInvariantViolated, message, cause)
}
