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

// Package fallback composes an ordered chain of candidate callables: the
// first one to succeed wins. Composable with retry and circuit breaker by
// wrapping each candidate before passing it to Run.
package fallback

// Candidate is one callable in a fallback chain.
type Candidate func() (any, error)

// Run executes primary, then each of alts in order, until one succeeds.
// Returns the first successful result, or the last error if every candidate
// fails.
func Run(primary Candidate, alts ...Candidate) (any, error) {
	chain := append([]Candidate{primary}, alts...)

	var lastErr error
	for _, c := range chain {
		v, err := c()
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Chain is a fallback sequence built up front and run later, mirroring this module's
// register-then-run idiom used elsewhere (config, registry).
type Chain struct {
	candidates []Candidate
}

// NewChain builds a Chain from primary followed by alts, in order.
func NewChain(primary Candidate, alts ...Candidate) *Chain {
	return &Chain{candidates: append([]Candidate{primary}, alts...)}
}

// Add appends another candidate to the end of the chain.
func (c *Chain) Add(fn Candidate) *Chain {
	c.candidates = append(c.candidates, fn)
	return c
}

// Run executes the chain's candidates in order until one succeeds.
func (c *Chain) Run() (any, error) {
	var lastErr error
	for _, fn := range c.candidates {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
