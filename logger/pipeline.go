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

package logger

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/term"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/logger/level"
	"github.com/nabbar/foundation/logger/processor"
)

// defaultLoggerCacheSize bounds the number of distinct logger names a
// Pipeline keeps memoized at once, so a process minting dynamically named
// loggers cannot grow the cache without limit.
const defaultLoggerCacheSize = 4096

// Pipeline owns the one processor.Context/processor.Chain pair every
// Logger created from it shares, plus the by-name cache GetLogger reads.
type Pipeline struct {
	mu    sync.Mutex
	ctx   *processor.Context
	chain *processor.Chain
	cache *lru.Cache[string, *Logger]
}

// NewPipeline wires ctx and chain into a Pipeline with the default logger
// cache size.
func NewPipeline(ctx *processor.Context, chain *processor.Chain) *Pipeline {
	c, _ := lru.New[string, *Logger](defaultLoggerCacheSize)
	return &Pipeline{ctx: ctx, chain: chain, cache: c}
}

// GetLogger returns the cached Logger for name, creating and memoizing one
// on first request. Safe for concurrent use.
func (p *Pipeline) GetLogger(name string) *Logger {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.cache.Get(name); ok {
		return l
	}
	l := &Logger{name: name, ctx: p.ctx, chain: p.chain}
	p.cache.Add(name, l)
	return l
}

// Context returns the pipeline's shared processor.Context, for callers that
// need to adjust module levels or render mode after construction (the
// Hub's bootstrap protocol does this once, at finalization).
func (p *Pipeline) Context() *processor.Context { return p.ctx }

// BuildPipeline constructs the processor.Context and processor.Chain from
// cfg and the given sinks, applying the default level, per-module level
// overrides, and render mode. This is the "construct processor chain,
// instantiate sinks, finalize logger" half of the Hub's bootstrap.
func BuildPipeline(cfg TelemetryConfig, sinks ...processor.Sink) (*Pipeline, error) {
	defLvl, ok := level.Parse(cfg.LogLevel)
	if !ok {
		return nil, errors.Newf(errors.KindConfiguration, errors.CodeConfigLevelUnknown,
			"logger: PROVIDE_LOG_LEVEL %q is not a recognized level", cfg.LogLevel)
	}

	moduleLevels, err := cfg.EffectiveModuleLevels()
	if err != nil {
		return nil, err
	}

	ctx := processor.NewContext(cfg.EffectiveServiceName(), cfg.ServiceVersion, cfg.EffectiveEnvironment(), nil, nil)
	ctx.SetDefaultLevel(defLvl)
	for prefix, lvl := range moduleLevels {
		ctx.SetModuleLevel(prefix, int(lvl))
	}
	ctx.SetRenderMode(cfg.Formatter, func() bool { return term.IsTerminal(int(os.Stderr.Fd())) })

	chain := processor.DefaultChain(sinks...)
	return NewPipeline(ctx, chain), nil
}
