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

// Package otlp implements the OTLP log-export sink: it maps internal log
// records to the OpenTelemetry log data model, exports them through the
// real otlploghttp/otel-sdk-log stack on a dedicated worker so the caller
// never blocks on network I/O, and guards every export with a circuit
// breaker so a dead collector degrades the sink rather than the process.
package otlp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	otlploghttp "go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/resilience/breaker"
)

// Config configures the OTLP sink.
type Config struct {
	// ServiceName is required: it becomes the resource's service.name attribute.
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Endpoint is the OTLP base URL, e.g. "http://otel-collector:4318". The
	// /v1/logs signal path is appended if not already present (idempotent,
	// see buildEndpoint).
	Endpoint string
	Headers  map[string]string
	Insecure bool

	// QueueSize bounds the dedicated worker's queue. Overflow drops the
	// newest record after a one-shot warning. Default 2048.
	QueueSize int
	// BatchTimeout is the SDK batch processor's periodic flush interval. Default 5s.
	BatchTimeout time.Duration
	// ExportTimeout bounds a single export call; an expired batch counts as
	// a circuit-breaker failure. Default 10s.
	ExportTimeout time.Duration

	// BreakerFailureThreshold and BreakerRecoveryTimeout parametrize the
	// sink's circuit breaker. Defaults: threshold=5, recovery=60s.
	BreakerFailureThreshold int
	BreakerRecoveryTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 2048
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5 * time.Second
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = 10 * time.Second
	}
	if c.BreakerFailureThreshold <= 0 {
		c.BreakerFailureThreshold = 5
	}
	if c.BreakerRecoveryTimeout <= 0 {
		c.BreakerRecoveryTimeout = 60 * time.Second
	}
	return c
}

// buildEndpoint splits base into the host[:port] and URL path
// otlploghttp.WithEndpoint/WithURLPath expect, appending the /v1/logs
// signal path exactly once. Idempotent: calling it again on its own output
// is a no-op.
func buildEndpoint(base string) (host, path string, insecure bool) {
	if base == "" {
		return "", "/v1/logs", true
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://"), "/v1/logs", true
	}

	p := u.Path
	switch {
	case p == "" || p == "/":
		p = "/v1/logs"
	case !strings.HasSuffix(p, "/v1/logs"):
		p = strings.TrimSuffix(p, "/") + "/v1/logs"
	}

	return u.Host, p, u.Scheme != "https"
}

func buildResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
}

// breakerExporter wraps a real sdklog.Exporter with the package's own
// circuit breaker: an open circuit short-circuits Export without touching
// the network, emitting exactly one stderr warning per CLOSED→OPEN
// transition rather than once per dropped batch.
type breakerExporter struct {
	next sdklog.Exporter
	br   *breaker.Breaker

	mu         sync.Mutex
	warnedOpen bool
}

func (e *breakerExporter) Export(ctx context.Context, records []sdklog.Record) error {
	err := e.br.Run(func() error {
		return e.next.Export(ctx, records)
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil {
		e.warnedOpen = false
		return nil
	}

	if errors.IsKind(err, errors.KindRetryable) && errors.As(err).Code() == errors.CodeCircuitOpen {
		if !e.warnedOpen {
			fmt.Fprintln(os.Stderr, "foundation: otlp sink circuit open, dropping log batch")
			e.warnedOpen = true
		}
		return nil // an open circuit drops the batch silently
	}

	return err
}

func (e *breakerExporter) Shutdown(ctx context.Context) error   { return e.next.Shutdown(ctx) }
func (e *breakerExporter) ForceFlush(ctx context.Context) error { return e.next.ForceFlush(ctx) }

// Sink exports log records through the OTel Go log SDK. It never blocks the
// calling goroutine: Write enqueues onto a bounded channel drained by a
// single background worker that calls into the SDK logger, which in turn
// batches and exports via breakerExporter.
type Sink struct {
	provider *sdklog.LoggerProvider
	otel     otellog.Logger

	queue chan *entry.Entry
	done  chan struct{}

	overflowWarnOnce sync.Once
}

// New builds an OTLP sink from cfg. The returned Sink owns a background
// worker goroutine; callers must Close it to flush pending records and
// release resources.
func New(cfg Config) (*Sink, error) {
	cfg = cfg.withDefaults()
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("otlp sink: ServiceName is required")
	}

	res, err := buildResource(cfg)
	if err != nil {
		return nil, err
	}

	host, path, insecure := buildEndpoint(cfg.Endpoint)
	if cfg.Insecure {
		insecure = true
	}

	httpClient := retryablehttp.NewClient().StandardClient()

	opts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(host),
		otlploghttp.WithURLPath(path),
		otlploghttp.WithHTTPClient(httpClient),
		otlploghttp.WithTimeout(cfg.ExportTimeout),
	}
	if insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(cfg.Headers))
	}

	realExporter, err := otlploghttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	br := breaker.New("otlp_sink", cfg.BreakerFailureThreshold, cfg.BreakerRecoveryTimeout, 1)
	wrapped := &breakerExporter{next: realExporter, br: br}

	processor := sdklog.NewBatchProcessor(wrapped,
		sdklog.WithExportInterval(cfg.BatchTimeout),
		sdklog.WithExportTimeout(cfg.ExportTimeout),
		sdklog.WithMaxQueueSize(cfg.QueueSize),
	)

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(res),
	)

	s := &Sink{
		provider: provider,
		otel:     provider.Logger(cfg.ServiceName),
		queue:    make(chan *entry.Entry, cfg.QueueSize),
		done:     make(chan struct{}),
	}

	go s.drain()

	return s, nil
}

func (s *Sink) drain() {
	for e := range s.queue {
		s.otel.Emit(context.Background(), toRecord(e))
	}
	close(s.done)
}

// Write implements processor.Sink. It never blocks: a full queue drops the
// newest record after a single internal warning.
func (s *Sink) Write(_ string, e *entry.Entry) error {
	select {
	case s.queue <- e:
		return nil
	default:
		s.overflowWarnOnce.Do(func() {
			fmt.Fprintln(os.Stderr, "foundation: otlp sink queue full, dropping newest log record")
		})
		return nil
	}
}

// Close stops accepting new records, drains the queue, and forces a final
// flush through the SDK's batch processor.
func (s *Sink) Close() error {
	close(s.queue)
	<-s.done
	return s.provider.Shutdown(context.Background())
}

func toRecord(e *entry.Entry) otellog.Record {
	var rec otellog.Record
	rec.SetTimestamp(e.Wall)
	rec.SetObservedTimestamp(e.Wall)
	rec.SetSeverity(e.Level.OTel())
	rec.SetSeverityText(e.Level.String())
	rec.SetBody(otellog.StringValue(e.Event))

	kvs := make([]otellog.KeyValue, 0, e.Attributes.Len()+2)
	for _, k := range e.Attributes.Keys() {
		v, _ := e.Attributes.Get(k)
		kvs = append(kvs, otellog.KeyValue{Key: k, Value: otellog.StringValue(fmt.Sprintf("%v", v))})
	}
	if e.TraceID != "" {
		kvs = append(kvs, otellog.KeyValue{Key: "trace_id", Value: otellog.StringValue(e.TraceID)})
	}
	if e.SpanID != "" {
		kvs = append(kvs, otellog.KeyValue{Key: "span_id", Value: otellog.StringValue(e.SpanID)})
	}
	rec.AddAttributes(kvs...)

	return rec
}
