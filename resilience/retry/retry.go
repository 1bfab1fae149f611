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

// Package retry executes a callable under a retry policy: fixed, linear,
// exponential, or fibonacci backoff, with optional full jitter and
// context-based cancellation between attempts.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/nabbar/foundation/errors"
)

// Strategy selects the backoff delay formula between attempts.
type Strategy uint8

const (
	Fixed Strategy = iota
	Linear
	Exponential
	Fibonacci
)

func (s Strategy) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	case Fibonacci:
		return "fibonacci"
	default:
		return "unknown"
	}
}

// Policy describes a retry strategy. MaxAttempts counts the first try, so
// MaxAttempts=3 means at most 2 retries after an initial failure.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Strategy    Strategy
	Jitter      bool

	// Retryable decides whether an error should trigger another attempt. A
	// nil Retryable treats every non-nil error as retryable.
	Retryable func(err error) bool

	// RetryableStatus, when non-empty, lets a successful call whose status
	// code is a member be treated as a retryable failure (used by DoStatus).
	RetryableStatus map[int]struct{}
}

// NewPolicy returns a Policy with conservative defaults: 3 attempts, 100ms
// base delay, 5s cap, exponential backoff with full jitter.
func NewPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Strategy:    Exponential,
		Jitter:      true,
	}
}

func (p Policy) retryable(err error) bool {
	if p.Retryable == nil {
		return err != nil
	}
	return p.Retryable(err)
}

// delay returns the backoff duration before the attempt-th retry (attempt
// counts from 1 for the delay following the first failure), capped at
// MaxDelay and, if Jitter is set, resampled uniformly in [0, delay].
func (p Policy) delay(attempt int) time.Duration {
	var d time.Duration

	switch p.Strategy {
	case Fixed:
		d = p.BaseDelay
	case Linear:
		d = p.BaseDelay * time.Duration(attempt)
	case Exponential:
		d = p.BaseDelay * time.Duration(int64(1)<<uint(attempt-1))
	case Fibonacci:
		d = p.BaseDelay * time.Duration(fib(attempt))
	default:
		d = p.BaseDelay
	}

	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter && d > 0 {
		d = time.Duration(rand.Int63n(int64(d) + 1))
	}
	return d
}

func fib(n int) int64 {
	if n <= 1 {
		return 1
	}
	var a, b int64 = 1, 1
	for i := 2; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}

// Do executes f, retrying according to p until it succeeds, ctx is done, or
// MaxAttempts is exhausted. Between attempts it sleeps for the computed
// backoff delay, aborting early if ctx is cancelled during the sleep.
func Do(ctx context.Context, p Policy, f func() error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.New(errors.KindTimeout, errors.CodeCancelled, "retry aborted: context done", err)
		}

		err := f()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			return errors.New(errors.KindRetryable, errors.CodeMaxRetriesExceeded, "max retries exceeded", lastErr)
		}
		if !p.retryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return errors.New(errors.KindTimeout, errors.CodeCancelled, "retry aborted: context done", ctx.Err())
		case <-time.After(p.delay(attempt)):
		}
	}

	return lastErr
}

// DoStatus is Do's HTTP-flavored sibling: f returns a status code alongside
// its error. A status present in p.RetryableStatus is treated as a
// retryable failure even when err is nil.
func DoStatus(ctx context.Context, p Policy, f func() (int, error)) (int, error) {
	var lastStatus int

	wrapped := func() error {
		status, err := f()
		lastStatus = status
		if err != nil {
			return err
		}
		if _, retryable := p.RetryableStatus[status]; retryable {
			return errors.New(errors.KindRetryable, errors.CodeMaxRetriesExceeded, "retryable status code", nil).
				WithContext("http.status", status)
		}
		return nil
	}

	err := Do(ctx, p, wrapped)
	return lastStatus, err
}

// Result is the outcome of an asynchronous retry execution started by Async.
type Result struct {
	Err error
}

// Async runs Do on a separate goroutine and returns a channel that receives
// exactly one Result once the retry loop finishes (success, exhaustion, or
// cancellation), the cooperative execution shape required alongside Do's
// synchronous one.
func Async(ctx context.Context, p Policy, f func() error) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- Result{Err: Do(ctx, p, f)}
	}()
	return out
}
