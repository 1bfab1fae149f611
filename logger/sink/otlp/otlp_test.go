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

package otlp

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabbar/foundation/logger/entry"
	"github.com/nabbar/foundation/logger/level"
)

func TestBuildEndpointDefaultsToV1Logs(t *testing.T) {
	host, path, insecure := buildEndpoint("")
	assert.Equal(t, "", host)
	assert.Equal(t, "/v1/logs", path)
	assert.True(t, insecure)
}

func TestBuildEndpointAppendsSignalPathOnce(t *testing.T) {
	host, path, insecure := buildEndpoint("http://otel-collector:4318")
	assert.Equal(t, "otel-collector:4318", host)
	assert.Equal(t, "/v1/logs", path)
	assert.True(t, insecure)
}

func TestBuildEndpointIsIdempotentOnItsOwnOutput(t *testing.T) {
	host, path, _ := buildEndpoint("https://otel-collector:4318/v1/logs")
	host2, path2, insecure2 := buildEndpoint("https://" + host + path)
	assert.Equal(t, host, host2)
	assert.Equal(t, path, path2)
	assert.False(t, insecure2)
}

func TestBuildEndpointPreservesACustomBasePath(t *testing.T) {
	_, path, _ := buildEndpoint("https://gateway.example.com/otel")
	assert.Equal(t, "/otel/v1/logs", path)
}

func TestBuildResourceIncludesOptionalAttributesOnlyWhenSet(t *testing.T) {
	res, err := buildResource(Config{ServiceName: "svc"})
	require.NoError(t, err)
	require.NotNil(t, res)

	res, err = buildResource(Config{ServiceName: "svc", ServiceVersion: "1.2.3", Environment: "prod"})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestNewRequiresServiceName(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestToRecordCarriesEventAttributesAndTraceContext(t *testing.T) {
	e := entry.New("app.worker", level.INFO, "job.run.ok").
		WithAttribute("job_id", "42")
	e.TraceID = "trace-1"
	e.SpanID = "span-1"

	rec := toRecord(e)
	assert.Equal(t, "job.run.ok", rec.Body().AsString())

	var keys []string
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		keys = append(keys, kv.Key)
		return true
	})
	assert.Contains(t, keys, "job_id")
	assert.Contains(t, keys, "trace_id")
	assert.Contains(t, keys, "span_id")
}
