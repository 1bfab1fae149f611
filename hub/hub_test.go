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

package hub_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fnderrors "github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/hub"
	"github.com/nabbar/foundation/logger/entry"
)

func TestGetLoggerBootstrapsOnFirstDemand(t *testing.T) {
	h := hub.New()

	l := h.GetLogger("app.worker")
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("job.run.ok") })
}

func TestInitializeFoundationIsIdempotent(t *testing.T) {
	h := hub.New()

	require.NoError(t, h.InitializeFoundation())
	require.NoError(t, h.InitializeFoundation())

	l1 := h.GetLogger("svc.a")
	l2 := h.GetLogger("svc.a")
	assert.Same(t, l1, l2, "GetLogger must memoize by name once the pipeline is finalized")
}

func TestInitializeFoundationBlocksConcurrentCallers(t *testing.T) {
	h := hub.New()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.InitializeFoundation()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestAddSinkAfterInitializeFoundationFails(t *testing.T) {
	h := hub.New()
	require.NoError(t, h.InitializeFoundation())

	err := h.AddSink(nil)
	assert.Error(t, err)
}

func TestRegisterAndGetComponent(t *testing.T) {
	h := hub.New()

	type widget struct{ name string }
	w := &widget{name: "gizmo"}

	require.NoError(t, h.RegisterComponent("widget.gizmo", w, []string{"gizmo"}, nil))

	got, ok := h.GetComponent("gizmo")
	require.True(t, ok)
	assert.Same(t, w, got)

	list := h.ListComponents()
	require.Len(t, list, 1)
	assert.Equal(t, "widget.gizmo", list[0].Name)
}

func TestRegisterComponentDuplicateFails(t *testing.T) {
	h := hub.New()
	require.NoError(t, h.RegisterComponent("widget.a", 1, nil, nil))
	assert.Error(t, h.RegisterComponent("widget.a", 2, nil, nil))
}

func TestDIRegisterResolveGetHas(t *testing.T) {
	h := hub.New()

	type Dep struct{ Value int }
	dep := &Dep{Value: 7}
	require.NoError(t, h.Register(dep, "the-dep"))

	assert.True(t, h.Has(reflect.TypeOf(dep)))

	got, ok := h.Get(reflect.TypeOf(dep))
	require.True(t, ok)
	assert.Same(t, dep, got)

	out, err := h.Resolve(func(d *Dep) int { return d.Value })
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestDIResolveMissingDependencyFails(t *testing.T) {
	h := hub.New()

	type Missing struct{}
	_, err := h.Resolve(func(m *Missing) int { return 0 })
	assert.Error(t, err)
}

func TestBuildCLIAssemblesNestedCommandTree(t *testing.T) {
	h := hub.New()

	var ran []string
	require.NoError(t, h.RegisterCommand(hub.CommandSpec{
		Name:  "cluster.init",
		Short: "initialize a cluster",
		Run:   func(args []string) error { ran = append(ran, "cluster.init"); return nil },
	}))
	require.NoError(t, h.RegisterCommand(hub.CommandSpec{
		Name:  "cluster.join",
		Short: "join a cluster",
		Run:   func(args []string) error { ran = append(ran, "cluster.join"); return nil },
	}))

	root := h.BuildCLI("warren", "1.2.3")
	root.SetArgs([]string{"cluster", "init"})
	require.NoError(t, root.Execute())

	assert.Equal(t, []string{"cluster.init"}, ran)
}

func TestResetClearsBootstrapState(t *testing.T) {
	h := hub.New()
	require.NoError(t, h.InitializeFoundation())
	l1 := h.GetLogger("svc")

	h.Reset()
	require.NoError(t, h.InitializeFoundation())
	l2 := h.GetLogger("svc")

	assert.NotSame(t, l1, l2, "Reset must rebuild the pipeline, not reuse the old one")
}

type captureSink struct {
	mu      sync.Mutex
	entries []*entry.Entry
	closed  bool
}

func (c *captureSink) Write(_ string, e *entry.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *captureSink) last() *entry.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[len(c.entries)-1]
}

func TestWithFieldsReachesTheSinkThroughContextMerge(t *testing.T) {
	h := hub.New()
	rec := &captureSink{}
	require.NoError(t, h.AddSink(rec))
	require.NoError(t, h.InitializeFoundation())

	l := h.GetLogger("svc.api")
	h.WithFields(map[string]any{"request_id": "r-42"}, func() {
		l.Info("request.handle.ok")
	})

	e := rec.last()
	require.NotNil(t, e)
	v, ok := e.Attributes.Get("request_id")
	require.True(t, ok)
	assert.Equal(t, "r-42", v)

	l.Info("after.scope")
	_, ok = rec.last().Attributes.Get("request_id")
	assert.False(t, ok, "scoped fields must not leak past the WithFields frame")
}

func TestWithSpanInjectsTraceContext(t *testing.T) {
	h := hub.New()
	rec := &captureSink{}
	require.NoError(t, h.AddSink(rec))
	require.NoError(t, h.InitializeFoundation())

	l := h.GetLogger("svc.worker")
	h.WithSpan(func() {
		l.Info("job.run.ok")
	})

	e := rec.last()
	require.NotNil(t, e)
	assert.Len(t, e.TraceID, 32)
	assert.Len(t, e.SpanID, 16)

	l.Info("outside.span")
	assert.Empty(t, rec.last().TraceID)
}

func TestShutdownClosesClosableSinks(t *testing.T) {
	h := hub.New()
	rec := &captureSink{}
	require.NoError(t, h.AddSink(rec))
	require.NoError(t, h.InitializeFoundation())

	require.NoError(t, h.Shutdown(context.Background()))
	assert.True(t, rec.closed)
}

func TestExitCodeMapsErrorKinds(t *testing.T) {
	assert.Equal(t, hub.ExitOK, hub.ExitCode(nil))
	assert.Equal(t, hub.ExitMisuse, hub.ExitCode(fnderrors.ValidationError("flag", "bad value")))
	assert.Equal(t, hub.ExitCancelled,
		hub.ExitCode(fnderrors.New(fnderrors.KindTimeout, fnderrors.CodeCancelled, "interrupted")))
	assert.Equal(t, hub.ExitError, hub.ExitCode(fnderrors.InternalError("boom", nil)))
}
