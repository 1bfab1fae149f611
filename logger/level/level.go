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

// Package level defines the module's log severity scale (TRACE=5 low to
// CRITICAL=50 high) and bridges it to logrus and OTLP severities.
package level

import (
	"strings"

	"github.com/sirupsen/logrus"
	otellog "go.opentelemetry.io/otel/log"
)

// Level is the module's severity scale: low numbers are low severity. The
// numeric values are part of the wire contract and must not change.
type Level uint8

const (
	TRACE    Level = 5
	DEBUG    Level = 10
	INFO     Level = 20
	WARN     Level = 30
	ERROR    Level = 40
	CRITICAL Level = 50
)

// String returns the upper-case canonical name of the level.
func (l Level) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Enabled reports whether an event at level l should be emitted when the
// configured threshold is min.
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// Parse is a case-insensitive, exact-match parse. Unknown input fails
// loudly rather than silently substituting a default, so a typo in a level
// env var is caught at configuration time.
func Parse(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, true
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "CRITICAL", "FATAL":
		return CRITICAL, true
	default:
		return 0, false
	}
}

// Logrus bridges to logrus.Level by explicit table, not by shared ordinal
// value, since the two scales run in opposite directions.
func (l Level) Logrus() logrus.Level {
	switch l {
	case TRACE:
		return logrus.TraceLevel
	case DEBUG:
		return logrus.DebugLevel
	case INFO:
		return logrus.InfoLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	case CRITICAL:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// OTel bridges to the OTLP log data model's severity number/text pair.
func (l Level) OTel() otellog.Severity {
	switch l {
	case TRACE:
		return otellog.SeverityTrace
	case DEBUG:
		return otellog.SeverityDebug
	case INFO:
		return otellog.SeverityInfo
	case WARN:
		return otellog.SeverityWarn
	case ERROR:
		return otellog.SeverityError
	case CRITICAL:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

// All lists every level in ascending severity, used for config validation and CLI help text.
func All() []Level { return []Level{TRACE, DEBUG, INFO, WARN, ERROR, CRITICAL} }
