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

// Package breaker implements a three-state (CLOSED/OPEN/HALF_OPEN) circuit
// breaker: failure-threshold/recovery-timeout/half-open-probe bookkeeping
// guarded by a mutex, exposing its state through a Prometheus gauge and its
// trip errors through this repo's own errors taxonomy.
package breaker

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/foundation/errors"
)

// State is one of the three circuit-breaker states.
type State uint8

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var stateGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "foundation_circuit_breaker_state",
		Help: "Current circuit breaker state per name (0=closed, 1=open, 2=half_open).",
	},
	[]string{"name"},
)

func init() {
	_ = prometheus.Register(stateGauge)
}

// Breaker guards a named operation. State mutations are serialized by mu.
type Breaker struct {
	mu sync.Mutex

	name             string
	failureThreshold int
	recoveryTimeout  time.Duration
	halfOpenProbes   int
	now              func() time.Time

	state               State
	consecutiveFailures int
	lastOpenedAt        time.Time
	halfOpenInFlight    int
}

// New returns a CLOSED breaker for name. halfOpenProbes is clamped to at
// least 1.
func New(name string, failureThreshold int, recoveryTimeout time.Duration, halfOpenProbes int) *Breaker {
	if halfOpenProbes < 1 {
		halfOpenProbes = 1
	}
	return &Breaker{
		name:             name,
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		halfOpenProbes:   halfOpenProbes,
		now:              time.Now,
	}
}

// State reports the breaker's current state without mutating it (except for
// the passive OPEN→HALF_OPEN transition once recoveryTimeout has elapsed).
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeRecover()
	return b.state
}

// maybeRecover transitions OPEN to HALF_OPEN once recoveryTimeout has
// elapsed since lastOpenedAt. Caller must hold mu.
func (b *Breaker) maybeRecover() {
	if b.state == Open && b.now().Sub(b.lastOpenedAt) >= b.recoveryTimeout {
		b.state = HalfOpen
		b.halfOpenInFlight = 0
	}
}

func (b *Breaker) circuitOpenErr() error {
	return errors.New(errors.KindRetryable, errors.CodeCircuitOpen, "circuit breaker open").
		WithContext("breaker.name", b.name)
}

// allow reports whether the caller's turn is granted, consuming one
// half-open probe slot if so. Caller must not hold mu.
func (b *Breaker) allow() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.maybeRecover()

	switch b.state {
	case Closed:
		return true, nil
	case HalfOpen:
		if b.halfOpenInFlight >= b.halfOpenProbes {
			return false, b.circuitOpenErr()
		}
		b.halfOpenInFlight++
		return true, nil
	default: // Open
		return false, b.circuitOpenErr()
	}
}

// Run executes f if the breaker allows it, short-circuiting with a
// CircuitOpen error otherwise. The first half-open probe that succeeds
// closes the circuit; a failed probe reopens it immediately. A
// closed-state failure only opens the circuit once consecutiveFailures
// reaches failureThreshold.
func (b *Breaker) Run(f func() error) error {
	ok, err := b.allow()
	if !ok {
		return err
	}

	callErr := f()

	b.mu.Lock()
	defer b.mu.Unlock()

	wasHalfOpen := b.state == HalfOpen
	if wasHalfOpen {
		b.halfOpenInFlight--
	}

	if callErr == nil {
		if wasHalfOpen {
			b.state = Closed
		}
		b.consecutiveFailures = 0
		stateGauge.WithLabelValues(b.name).Set(float64(b.state))
		return nil
	}

	b.consecutiveFailures++
	if wasHalfOpen || b.consecutiveFailures >= b.failureThreshold {
		b.state = Open
		b.lastOpenedAt = b.now()
		b.consecutiveFailures = 0
	}
	stateGauge.WithLabelValues(b.name).Set(float64(b.state))
	return callErr
}

// Reset forces the breaker back to CLOSED, clearing all counters. Used by
// operators and tests that need a clean slate without waiting out the
// recovery timeout.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.consecutiveFailures = 0
	b.halfOpenInFlight = 0
	b.lastOpenedAt = time.Time{}
}
