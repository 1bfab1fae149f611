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

package processor_test

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/logger/level"
	"github.com/nabbar/foundation/logger/processor"
)

func TestProcessor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "processor suite")
}

type captureSink struct {
	mu   sync.Mutex
	got  []string
	fail bool
}

func (c *captureSink) Write(rendered string, _ *entry.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("sink boom")
	}
	c.got = append(c.got, rendered)
	return nil
}

func (c *captureSink) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.got...)
}

var _ = Describe("Chain", func() {
	var ctx *processor.Context

	BeforeEach(func() {
		ctx = processor.NewContext("svc", "1.0.0", "test", nil, nil)
	})

	It("runs the fixed eleven-step order and dispatches to sinks", func() {
		sink := &captureSink{}
		chain := processor.DefaultChain(sink)

		e := entry.New("app.worker", level.INFO, "job.run.ok")
		out := chain.Run(ctx, e)

		Expect(out.Dropped()).To(BeFalse())
		Expect(out.Seq).To(BeNumerically(">=", uint64(1)))
		Expect(sink.lines()).To(HaveLen(1))
		Expect(sink.lines()[0]).To(ContainSubstring("app.worker"))
	})

	It("assigns monotonically increasing sequence numbers", func() {
		chain := processor.NewChain(processor.Timestamp)
		a := entry.New("a", level.INFO, "x")
		b := entry.New("a", level.INFO, "y")
		chain.Run(ctx, a)
		chain.Run(ctx, b)
		Expect(b.Seq).To(BeNumerically(">", a.Seq))
	})

	It("drops entries below the effective per-module level and stops the chain", func() {
		ctx.SetModuleLevel("app.quiet", int(level.ERROR))
		chain := processor.DefaultChain(&captureSink{})

		e := entry.New("app.quiet.sub", level.DEBUG, "noise")
		out := chain.Run(ctx, e)
		Expect(out.Dropped()).To(BeTrue())
	})

	It("merges ambient context fields without overriding caller-set attributes", func() {
		ambient := func() map[string]any { return map[string]any{"request.id": "r-1", "shared": "ambient"} }
		ctx = processor.NewContext("svc", "1.0.0", "test", ambient, nil)

		e := entry.New("app", level.INFO, "evt").WithAttribute("shared", "caller")
		processor.ContextMerge(ctx, e)

		v, _ := e.Attributes.Get("shared")
		Expect(v).To(Equal("caller"))
		v, _ = e.Attributes.Get("request.id")
		Expect(v).To(Equal("r-1"))
	})

	It("enriches with cached service metadata", func() {
		e := entry.New("app", level.INFO, "evt")
		processor.Enrichment(ctx, e)
		v, ok := e.Attributes.Get("service.name")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("svc"))
	})

	It("injects trace fields only when not already set by the caller", func() {
		ctx = processor.NewContext("svc", "1.0.0", "test", nil, func() (string, string) { return "trace-1", "span-1" })

		e := entry.New("app", level.INFO, "evt")
		processor.TraceContext(ctx, e)
		Expect(e.TraceID).To(Equal("trace-1"))

		e2 := entry.New("app", level.INFO, "evt").WithTrace("already", "set")
		processor.TraceContext(ctx, e2)
		Expect(e2.TraceID).To(Equal("already"))
	})

	It("enriches the event string from a registered tuple", func() {
		ctx.EventSets().RegisterTuple("job", "run", "ok", "[OK]")
		e := entry.New("app", level.INFO, "job.run.ok")
		processor.EventSetEnrichment(ctx, e)
		Expect(e.Event).To(Equal("[OK] job.run.ok"))
	})

	It("is a no-op event-set lookup when nothing is registered", func() {
		e := entry.New("app", level.INFO, "job.run.ok")
		processor.EventSetEnrichment(ctx, e)
		Expect(e.Event).To(Equal("job.run.ok"))
	})

	It("redacts attribute values by field name", func() {
		ctx.AddRedactor(processor.NewFieldNameRedactor("", "password"))
		e := entry.New("app", level.INFO, "evt").WithAttribute("password", "hunter2")
		processor.Redaction(ctx, e)
		v, _ := e.Attributes.Get("password")
		Expect(v).To(Equal("[REDACTED]"))
	})

	It("redacts by pattern regardless of field name", func() {
		ctx.AddRedactor(processor.NewPatternRedactor(`\d{4}-\d{4}`, "[CARD]"))
		e := entry.New("app", level.INFO, "evt").WithAttribute("note", "card 1234-5678 on file")
		processor.Redaction(ctx, e)
		v, _ := e.Attributes.Get("note")
		Expect(v).To(Equal("card [CARD] on file"))
	})

	It("rate-limits repeated events per logger/event key", func() {
		ctx.SetRateLimiter(processor.NewRateLimiter(0, 1, 16))
		allowed := entry.New("app", level.INFO, "evt")
		processor.RateLimit(ctx, allowed)
		Expect(allowed.Dropped()).To(BeFalse())

		blocked := entry.New("app", level.INFO, "evt")
		processor.RateLimit(ctx, blocked)
		Expect(blocked.Dropped()).To(BeTrue())
	})

	It("renders key=value by default", func() {
		e := entry.New("app", level.INFO, "evt").WithAttribute("k", "v")
		processor.Rendering(ctx, e)
		rendered, ok := e.Attributes.Get(processor.RenderedKey)
		Expect(ok).To(BeTrue())
		Expect(rendered.(string)).To(And(ContainSubstring("logger=\"app\""), ContainSubstring("k=v")))
	})

	It("renders JSON when configured", func() {
		ctx.SetRenderMode("json", func() bool { return false })
		e := entry.New("app", level.INFO, "evt")
		processor.Rendering(ctx, e)
		rendered, _ := e.Attributes.Get(processor.RenderedKey)
		Expect(rendered.(string)).To(And(HavePrefix("{"), ContainSubstring(`"logger":"app"`)))
	})

	It("fans dispatch out to every sink, tolerating one that fails", func() {
		good := &captureSink{}
		bad := &captureSink{fail: true}
		step := processor.Dispatch(good, bad, nil)

		e := entry.New("app", level.INFO, "evt")
		processor.Rendering(ctx, e)
		step(ctx, e)

		Expect(good.lines()).To(HaveLen(1))
	})

	It("falls back to key=value rendering in Dispatch when Rendering was skipped", func() {
		step := processor.Dispatch(&captureSink{})
		e := entry.New("app", level.INFO, "evt")
		Expect(func() { step(ctx, e) }).NotTo(Panic())
	})

	It("resolves effective level by longest dotted prefix", func() {
		ctx.SetModuleLevel("app", int(level.WARN))
		ctx.SetModuleLevel("app.db", int(level.DEBUG))
		Expect(ctx.EffectiveLevel("app.db.pool", int(level.INFO))).To(Equal(int(level.DEBUG)))
		Expect(ctx.EffectiveLevel("app.http", int(level.INFO))).To(Equal(int(level.WARN)))
		Expect(ctx.EffectiveLevel("other", int(level.INFO))).To(Equal(int(level.INFO)))
	})

	It("stops the chain the moment a step drops the entry", func() {
		calls := []string{}
		chain := processor.NewChain(
			func(_ *processor.Context, e *entry.Entry) { calls = append(calls, "first"); e.Drop() },
			func(_ *processor.Context, e *entry.Entry) { calls = append(calls, "second") },
		)
		chain.Run(ctx, entry.New("app", level.INFO, "evt"))
		Expect(calls).To(Equal([]string{"first"}))
	})

	It("renders human mode with a plain line when not a TTY", func() {
		ctx.SetRenderMode("human", func() bool { return false })
		e := entry.New("app", level.INFO, "evt")
		processor.Rendering(ctx, e)
		rendered, _ := e.Attributes.Get(processor.RenderedKey)
		Expect(strings.Contains(rendered.(string), "app")).To(BeTrue())
	})

	It("quotes key=value attribute values containing whitespace", func() {
		e := entry.New("app", level.INFO, "evt").
			WithAttribute("msg", "two words").
			WithAttribute("bare", "plain")
		processor.Rendering(ctx, e)
		rendered, _ := e.Attributes.Get(processor.RenderedKey)
		Expect(rendered.(string)).To(And(
			ContainSubstring(`msg="two words"`),
			ContainSubstring("bare=plain"),
		))
	})

	It("round-trips level, logger, event and attributes through JSON rendering", func() {
		ctx.SetRenderMode("json", func() bool { return false })
		e := entry.New("app.db", level.WARN, "query.slow").
			WithAttribute("table", "users").
			WithAttribute("rows", 42)
		processor.Rendering(ctx, e)
		rendered, _ := e.Attributes.Get(processor.RenderedKey)

		var doc map[string]any
		Expect(json.Unmarshal([]byte(rendered.(string)), &doc)).To(Succeed())
		Expect(doc).To(HaveKey("timestamp"))
		Expect(doc["level"]).To(Equal("WARN"))
		Expect(doc["logger"]).To(Equal("app.db"))
		Expect(doc["event"]).To(Equal("query.slow"))
		Expect(doc["table"]).To(Equal("users"))
		Expect(doc["rows"]).To(BeNumerically("==", 42))
	})
})
