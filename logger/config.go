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
	"strings"

	"github.com/nabbar/foundation/config"
	"github.com/nabbar/foundation/errors"
	"github.com/nabbar/foundation/logger/level"
)

// TelemetryConfig is the foundation's own bootstrap configuration, resolved
// by config.Load from the process environment.
type TelemetryConfig struct {
	LogLevel     string            `env:"PROVIDE_LOG_LEVEL" default:"INFO"`
	ModuleLevels map[string]string `env:"PROVIDE_LOG_MODULE_LEVELS" converter:"mapping" default:""`
	Formatter    string            `env:"PROVIDE_LOG_FORMATTER" default:"key_value" validate:"oneof=json key_value human"`

	ServiceName     string `env:"PROVIDE_SERVICE_NAME" default:""`
	OTelServiceName string `env:"OTEL_SERVICE_NAME" default:""`
	ServiceVersion  string `env:"PROVIDE_SERVICE_VERSION" default:""`
	Environment     string `env:"PROVIDE_ENV" default:""`
	EnvName         string `env:"ENVIRONMENT" default:""`

	OTLPEndpoint    string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	OTLPHeaders     map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS" converter:"headers" default:""`
	TraceSampleRate float64           `env:"OTEL_TRACE_SAMPLE_RATE" converter:"trace_sample_rate" default:"1.0"`
}

// JSON output mode (PROVIDE_JSON_OUTPUT) is consumed directly by the
// console package (see console.JSONModeEnv), not routed through this
// loader: it governs console.Pout/Perr/Pin, an unrelated concern from the
// logger pipeline's own Formatter field.

// EffectiveServiceName applies the service-name override: OTEL_SERVICE_NAME
// wins over PROVIDE_SERVICE_NAME when both are set. config.Loader resolves one
// env var per struct field, so this precedence is applied here rather than by
// extending the loader to support multiple env vars per field.
func (c TelemetryConfig) EffectiveServiceName() string {
	if c.OTelServiceName != "" {
		return c.OTelServiceName
	}
	return c.ServiceName
}

// EffectiveEnvironment prefers the explicit PROVIDE_ENV resource attribute,
// falling back to the generic ENVIRONMENT variable.
func (c TelemetryConfig) EffectiveEnvironment() string {
	if c.Environment != "" {
		return c.Environment
	}
	return c.EnvName
}

// EffectiveModuleLevels parses ModuleLevels' raw "LEVEL" strings into
// level.Level, failing loudly on an unrecognized name (the same fail-loud
// contract as level.Parse itself).
func (c TelemetryConfig) EffectiveModuleLevels() (map[string]level.Level, error) {
	out := make(map[string]level.Level, len(c.ModuleLevels))
	for prefix, raw := range c.ModuleLevels {
		lvl, ok := level.Parse(raw)
		if !ok {
			return nil, errors.Newf(errors.KindConfiguration, errors.CodeConfigLevelUnknown,
				"logger: module level %q for prefix %q is not a recognized level", raw, prefix)
		}
		out[prefix] = lvl
	}
	return out, nil
}

// NewLoader returns a config.Loader with the additional "trace_sample_rate"
// converter TelemetryConfig needs, layered on top of the built-in
// level/mapping/headers/int_set converters.
func NewLoader() *config.Loader {
	l := config.NewLoader()
	l.RegisterConverter("trace_sample_rate", config.FloatRangeConverter(0, 1))
	return l
}

// LoadTelemetryConfig resolves a TelemetryConfig purely from the process
// environment, as the Hub's bootstrap protocol does on first demand. When
// PROVIDE_LOG_LEVEL is not set explicitly, the environment-driven filter
// policy applies: development-style ENVIRONMENT names lower the default
// level to DEBUG, everything else keeps INFO.
func LoadTelemetryConfig(l *config.Loader) (TelemetryConfig, error) {
	cfg, fields, err := config.Load[TelemetryConfig](l, "", nil)
	if err != nil {
		return TelemetryConfig{}, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	if f, ok := fields["LogLevel"]; ok && f.Source == config.Default {
		if lvl := defaultLevelForEnvironment(cfg.EffectiveEnvironment()); lvl != "" {
			cfg.LogLevel = lvl
		}
	}
	return cfg, nil
}

// defaultLevelForEnvironment returns the filter-policy default for env, or
// "" to leave the configured default untouched.
func defaultLevelForEnvironment(env string) string {
	switch strings.ToLower(env) {
	case "dev", "development", "local", "test":
		return "DEBUG"
	default:
		return ""
	}
}
