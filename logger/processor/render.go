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

package processor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/nabbar/foundation/logger/entry"
)

// RenderedKey is the reserved attribute key the Rendering step stores its
// output under, for Dispatch to pick up. Sinks that want the raw Entry
// instead of the pre-rendered string can ignore it.
const RenderedKey = "_foundation.rendered"

// Rendering selects key=value, JSON, or human-friendly rendering based on
// ctx's configured mode and TTY detection, and stores the result under
// RenderedKey.
func Rendering(ctx *Context, e *entry.Entry) {
	var out string
	switch ctx.renderMode {
	case "json":
		out = renderJSON(e)
	case "human":
		out = renderHuman(e, ctx.isTTY())
	default:
		out = renderKeyValue(e)
	}
	e.Attributes = e.Attributes.Add(RenderedKey, out)
}

func renderKeyValue(e *entry.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "timestamp=%q level=%s logger=%q event=%q seq=%d",
		e.Wall.Format("2006-01-02T15:04:05.000000Z07:00"), e.Level.String(), e.LoggerName, e.Event, e.Seq)
	if e.TraceID != "" {
		fmt.Fprintf(&b, " trace_id=%q span_id=%q", e.TraceID, e.SpanID)
	}
	for _, k := range e.Attributes.Keys() {
		if k == RenderedKey {
			continue
		}
		v, _ := e.Attributes.Get(k)
		fmt.Fprintf(&b, " %s=%s", k, kvValue(v))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " error.type=%q error.message=%q", e.Err.Type, e.Err.Message)
	}
	return b.String()
}

// kvValue quotes values containing whitespace so a key=value line stays
// splittable on spaces.
func kvValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t\n") {
		return strconv.Quote(s)
	}
	return s
}

func renderJSON(e *entry.Entry) string {
	doc := make(map[string]any, e.Attributes.Len()+6)
	for _, k := range e.Attributes.Keys() {
		if k == RenderedKey {
			continue
		}
		v, _ := e.Attributes.Get(k)
		doc[k] = v
	}
	doc["timestamp"] = e.Wall.Format("2006-01-02T15:04:05.000000Z07:00")
	doc["level"] = e.Level.String()
	doc["logger"] = e.LoggerName
	doc["event"] = e.Event
	doc["seq"] = e.Seq
	if e.TraceID != "" {
		doc["trace_id"] = e.TraceID
		doc["span_id"] = e.SpanID
	}
	if e.Err != nil {
		doc["error"] = e.Err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","event":"render_failure","cause":%q}`, err.Error())
	}
	return string(raw)
}

func renderHuman(e *entry.Entry, tty bool) string {
	line := fmt.Sprintf("%s [%-8s] %s: %s", e.Wall.Format("15:04:05.000"), e.Level.String(), e.LoggerName, e.Event)
	for _, k := range e.Attributes.Keys() {
		if k == RenderedKey {
			continue
		}
		v, _ := e.Attributes.Get(k)
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	if e.Err != nil {
		line += fmt.Sprintf(" error=%q", e.Err.Message)
	}
	if !tty {
		return line
	}
	return levelColor(e.Level).Sprint(line)
}

func levelColor(l interface{ String() string }) *color.Color {
	switch l.String() {
	case "CRITICAL", "ERROR":
		return color.New(color.FgRed, color.Bold)
	case "WARN":
		return color.New(color.FgYellow)
	case "DEBUG", "TRACE":
		return color.New(color.FgCyan)
	default:
		return color.New(color.Reset)
	}
}
