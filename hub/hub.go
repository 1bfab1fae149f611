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

// Package hub implements the foundation's bootstrap coordinator: the single
// process-wide owner of the component/command registry, the event bus, the
// DI container and the lazily-constructed logger pipeline. It is the one
// package allowed to import both registry/eventbus/di and logger, which is
// exactly why those lower packages never import each other directly (see
// eventbus's package doc for the cycle this breaks).
package hub

import (
	stdctx "context"
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/foundation/config"
	libctx "github.com/nabbar/foundation/context"
	"github.com/nabbar/foundation/di"
	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/eventbus"
	"github.com/nabbar/foundation/logger"
	"github.com/nabbar/foundation/logger/processor"
	"github.com/nabbar/foundation/logger/sink/console"
	"github.com/nabbar/foundation/logger/sink/otlp"
	"github.com/nabbar/foundation/registry"
)

// Dimension names the registry uses to namespace components from commands
// within the single registry.Registry instance a Hub owns.
const (
	DimensionComponent = "component"
	DimensionCommand   = "command"
)

// maxBootstrapDepth bounds how many nested InitializeFoundation attempts a
// single process tolerates before giving up and forcing every caller onto
// the stderr fallback logger for good. In practice bootstrapDepth never
// exceeds 1: GetLogger never re-enters InitializeFoundation while a
// bootstrap is already in flight (see GetLogger below).
const maxBootstrapDepth = 3

// Hub is the foundation's bootstrap coordinator. The zero value is not
// usable; construct one with New.
type Hub struct {
	reg       registry.Registry
	bus       eventbus.Bus
	container di.Container
	loader    *config.Loader
	rootCtx   libctx.Config[string]

	mu          sync.Mutex
	initMu      sync.Mutex
	initialized bool
	pipeline    *logger.Pipeline
	extraSinks  []processor.Sink
	sinks       []processor.Sink
	sampleRate  float64

	bootstrapDepth atomic.Int32
}

// New returns an unbootstrapped Hub. InitializeFoundation runs lazily, the
// first time GetLogger (or an explicit call to InitializeFoundation) needs
// it.
func New() *Hub {
	bus := eventbus.New()
	return &Hub{
		reg:       registry.New(bus),
		bus:       bus,
		container: di.New(),
		loader:    logger.NewLoader(),
		rootCtx:   libctx.New[string](nil),
	}
}

// AddSink registers an additional processor.Sink (e.g. a rotating file sink,
// which has no env var of its own in the telemetry config table) to be
// wired into the pipeline the next time InitializeFoundation runs. It must
// be called before the foundation is initialized; calling it afterward
// returns a StateInvalid error since the pipeline has already been built.
func (h *Hub) AddSink(s processor.Sink) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return errors.New(errors.KindInternal, errors.CodeStateInvalid,
			"cannot add a sink after the foundation logger has been finalized")
	}
	h.extraSinks = append(h.extraSinks, s)
	return nil
}

// Bus returns the Hub's event bus, the only channel the registry uses to
// announce mutations to the rest of the process.
func (h *Hub) Bus() eventbus.Bus { return h.bus }

// InitializeFoundation performs the bootstrap protocol exactly once: load
// TelemetryConfig from the environment, instantiate the configured sinks,
// build the processor chain, finalize the logger pipeline, then subscribe
// the built-in registry-event-to-debug-log handlers. Concurrent callers
// block on initMu until the first completes; a call after the foundation is
// already initialized is a cheap no-op.
func (h *Hub) InitializeFoundation() error {
	h.mu.Lock()
	if h.initialized {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	h.initMu.Lock()
	defer h.initMu.Unlock()

	h.mu.Lock()
	if h.initialized {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	depth := h.bootstrapDepth.Add(1)
	defer h.bootstrapDepth.Add(-1)
	if depth > maxBootstrapDepth {
		return errors.InternalError("foundation bootstrap exceeded its maximum reentrancy depth", nil)
	}

	cfg, err := logger.LoadTelemetryConfig(h.loader)
	if err != nil {
		return err
	}

	sinks, err := h.buildSinks(cfg)
	if err != nil {
		return err
	}

	pipeline, err := logger.BuildPipeline(cfg, sinks...)
	if err != nil {
		return err
	}

	pipeline.Context().SetContextFields(func() map[string]any { return libctx.ActiveFields(h.rootCtx) })
	pipeline.Context().SetTraceFields(func() (string, string) { return libctx.ActiveTrace(h.rootCtx) })

	h.mu.Lock()
	h.pipeline = pipeline
	h.sinks = sinks
	h.sampleRate = cfg.TraceSampleRate
	h.initialized = true
	h.mu.Unlock()

	h.subscribeBuiltinHandlers()
	return nil
}

// buildSinks instantiates the sinks the telemetry config calls for: a
// console sink always (stderr, so log output never interleaves with
// program stdout), an OTLP sink when OTEL_EXPORTER_OTLP_ENDPOINT is set,
// plus whatever AddSink accumulated.
func (h *Hub) buildSinks(cfg logger.TelemetryConfig) ([]processor.Sink, error) {
	sinks := make([]processor.Sink, 0, 2+len(h.extraSinks))
	sinks = append(sinks, console.Stderr())

	if cfg.OTLPEndpoint != "" {
		s, err := otlp.New(otlp.Config{
			Endpoint:       cfg.OTLPEndpoint,
			Headers:        cfg.OTLPHeaders,
			ServiceName:    cfg.EffectiveServiceName(),
			ServiceVersion: cfg.ServiceVersion,
			Environment:    cfg.EffectiveEnvironment(),
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	sinks = append(sinks, h.extraSinks...)
	return sinks, nil
}

// subscribeBuiltinHandlers turns "component.registered" / "command.registered"
// bus events into debug log records on the now-finalized pipeline. This is
// the only place a registry mutation ever reaches the logger: the registry
// package itself never imports logger.
func (h *Hub) subscribeBuiltinHandlers() {
	l := h.pipeline.GetLogger("foundation.hub")
	onRegistered := func(topic string, payload any) {
		fields, ok := payload.(map[string]string)
		if !ok {
			return
		}
		l.Debug(topic, logger.F("dimension", fields["dimension"]), logger.F("name", fields["name"]))
	}
	h.bus.Subscribe(DimensionComponent+".registered", onRegistered)
	h.bus.Subscribe(DimensionCommand+".registered", onRegistered)
}

// GetLogger returns the named logger, triggering bootstrap on first demand.
// While a bootstrap is in flight (bootstrapDepth > 0, true for the
// duration of the InitializeFoundation call that owns the process-wide
// initMu lock), any nested call returns a fallback logger that writes
// directly to stderr instead of trying to re-enter InitializeFoundation,
// which would otherwise deadlock against initMu on the bootstrapping
// goroutine or simply queue behind it on another.
func (h *Hub) GetLogger(name string) LoggerHandle {
	if h.bootstrapDepth.Load() > 0 {
		return newFallbackLogger(name)
	}

	h.mu.Lock()
	initialized := h.initialized
	p := h.pipeline
	h.mu.Unlock()
	if initialized {
		return p.GetLogger(name)
	}

	if err := h.InitializeFoundation(); err != nil {
		return newFallbackLogger(name)
	}

	h.mu.Lock()
	p = h.pipeline
	h.mu.Unlock()
	if p == nil {
		return newFallbackLogger(name)
	}
	return p.GetLogger(name)
}

// Context returns the Hub's root context, the Config[string] the scoped
// field map and trace frames installed by WithFields/WithSpan live on.
func (h *Hub) Context() libctx.Config[string] { return h.rootCtx }

// WithFields installs fields as the active scoped field map for the
// duration of fn (merged over any enclosing frame); every log call made
// inside fn picks them up through the pipeline's context-merge step.
func (h *Hub) WithFields(fields map[string]any, fn func()) {
	libctx.WithContext(h.rootCtx, fields, fn)
}

// WithSpan runs fn inside a trace frame on the Hub's root context, sampled
// at the rate OTEL_TRACE_SAMPLE_RATE resolved to (1.0 before the
// foundation is initialized). Log calls made inside fn carry the frame's
// trace_id/span_id through the pipeline's trace-context step.
func (h *Hub) WithSpan(fn func()) {
	h.mu.Lock()
	rate := h.sampleRate
	initialized := h.initialized
	h.mu.Unlock()
	if !initialized {
		rate = 1.0
	}
	libctx.WithSpan(h.rootCtx, rate, fn)
}

// Shutdown closes every sink the bootstrap built (and any AddSink extras)
// that exposes a Close method, concurrently, waiting for all of them:
// the OTLP sink's Close is where its final batch flush happens. The Hub
// stays initialized; Shutdown is for process exit, Reset for test
// isolation.
func (h *Hub) Shutdown(ctx stdctx.Context) error {
	h.mu.Lock()
	sinks := h.sinks
	h.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, s := range sinks {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		g.Go(c.Close)
	}
	return g.Wait()
}

// RegisterComponent registers value under name in the component dimension.
func (h *Hub) RegisterComponent(name string, value any, aliases []string, metadata map[string]any) error {
	return h.reg.Register(DimensionComponent, name, value, aliases, metadata)
}

// GetComponent resolves name (canonical or alias) in the component dimension.
func (h *Hub) GetComponent(name string) (any, bool) {
	return h.reg.Get(DimensionComponent, name)
}

// ListComponents returns every registered component entry.
func (h *Hub) ListComponents() []registry.Entry {
	return h.reg.ListDimension(DimensionComponent)
}

// Register stores value in the DI container under its own type, and
// additionally under name if non-empty.
func (h *Hub) Register(value any, name string) error {
	return h.container.Register(value, name)
}

// RegisterProvider stores ctor in the DI container as the provider for its
// return type, resolved transitively by Resolve.
func (h *Hub) RegisterProvider(ctor any) error {
	return h.container.RegisterProvider(ctor)
}

// Resolve calls ctor after resolving each parameter from, in order, overrides
// (matched by exact type or, for interface parameters, by implementation),
// then the DI container's instances and providers.
func (h *Hub) Resolve(ctor any, overrides ...any) (any, error) {
	return h.container.Resolve(ctor, overrides...)
}

// Get returns the DI instance registered for t, if any.
func (h *Hub) Get(t reflect.Type) (any, bool) {
	return h.container.Get(t)
}

// Has reports whether t has a registered DI instance.
func (h *Hub) Has(t reflect.Type) bool {
	return h.container.Has(t)
}

// Reset clears every piece of bootstrap state, rebuilding the registry,
// event bus, DI container and loader from scratch. It exists for test
// isolation: a test that calls InitializeFoundation against one set of
// environment variables must not leak its pipeline into the next.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	bus := eventbus.New()
	h.reg = registry.New(bus)
	h.bus = bus
	h.container = di.New()
	h.loader = logger.NewLoader()
	h.rootCtx = libctx.New[string](nil)
	h.initialized = false
	h.pipeline = nil
	h.extraSinks = nil
	h.sinks = nil
	h.sampleRate = 0
	h.bootstrapDepth.Store(0)
}

var (
	defaultMu  sync.Mutex
	defaultHub = New()
)

// Default returns the process-wide Hub singleton every package-level
// function in this package delegates to.
func Default() *Hub {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultHub
}

// SetDefault replaces the process-wide Hub singleton, for tests that need a
// clean Hub rather than calling Reset on the shared one.
func SetDefault(h *Hub) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultHub = h
}

// GetLogger delegates to Default().GetLogger.
func GetLogger(name string) LoggerHandle { return Default().GetLogger(name) }

// InitializeFoundation delegates to Default().InitializeFoundation.
func InitializeFoundation() error { return Default().InitializeFoundation() }
