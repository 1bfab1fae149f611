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

package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	libval "github.com/go-playground/validator/v10"

	"github.com/nabbar/foundation/errors"
)

// Loader resolves typed configuration structs from env vars and defaults,
// and remembers the last value (and its Source) registered or loaded for
// each distinct Go type, so Get can answer without re-reading the
// environment.
type Loader struct {
	mu         sync.RWMutex
	converters map[string]Converter
	values     map[reflect.Type]any
	sources    map[reflect.Type]Source
	validate   *libval.Validate
}

// NewLoader returns a Loader with the built-in converters registered under
// "level", "mapping", "headers", and "int_set".
func NewLoader() *Loader {
	l := &Loader{
		converters: make(map[string]Converter),
		values:     make(map[reflect.Type]any),
		sources:    make(map[reflect.Type]Source),
		validate:   libval.New(),
	}
	l.RegisterConverter("level", LevelConverter)
	l.RegisterConverter("mapping", MappingConverter)
	l.RegisterConverter("headers", HeadersConverter)
	l.RegisterConverter("int_set", IntSetConverter)
	return l
}

// RegisterConverter makes a named converter available to the `converter:"name"`
// struct tag.
func (l *Loader) RegisterConverter(name string, c Converter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.converters[name] = c
}

func (l *Loader) remember(t reflect.Type, v any, s Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[t] = v
	l.sources[t] = s
}

// Register stores value verbatim under its own type, bypassing env
// resolution entirely. Intended for the EXPLICIT source: a caller that
// already built a T in code.
func Register[T any](l *Loader, value T, source Source) {
	l.remember(reflect.TypeOf(value), value, source)
}

// Get returns the last value Loaded or Registered for T, and its Source.
func Get[T any](l *Loader) (T, Source, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.values[t]
	if !ok {
		return zero, Default, false
	}
	return v.(T), l.sources[t], true
}

// FromEnv loads T purely from environment variables and struct-tag
// defaults, with no runtime override map and no prefix.
func FromEnv[T any](l *Loader) (T, error) {
	v, _, err := Load[T](l, "", nil)
	return v, err
}

// Load builds a T from struct tags (`env`, `default`, `converter`), applies
// each field's converter, validates the assembled struct with
// go-playground/validator (via its `validate` tag), and records the
// effective value and per-field sources. prefix, if non-empty, is prepended
// to every field's env var name. runtime, if non-nil, is consulted before
// the process environment; a field present there is recorded with
// Source=Runtime.
func Load[T any](l *Loader, prefix string, runtime map[string]string) (T, map[string]Field, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return zero, nil, errors.ValidationError("config.type", "Load requires a struct type")
	}

	rv := reflect.New(t).Elem()
	fields := make(map[string]Field, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		envVar, hasEnv := sf.Tag.Lookup("env")
		fullEnvVar := prefix + envVar

		var (
			raw  string
			src  = Default
			have bool
		)

		if hasEnv {
			if v, ok := runtime[fullEnvVar]; ok {
				raw, src, have = v, Runtime, true
			} else if v, ok := os.LookupEnv(fullEnvVar); ok {
				if strings.HasPrefix(v, "file://") {
					content, err := os.ReadFile(strings.TrimPrefix(v, "file://"))
					if err != nil {
						return zero, nil, errors.ConfigError(sf.Name, File.String(), err)
					}
					raw, src, have = strings.TrimSpace(string(content)), File, true
				} else {
					raw, src, have = v, Env, true
				}
			}
		}

		if !have {
			if def, ok := sf.Tag.Lookup("default"); ok {
				raw, src, have = def, Default, true
			} else if hasEnv {
				return zero, nil, errors.New(errors.KindConfiguration, errors.CodeConfigFieldMissing,
					"required configuration field has no value").WithContext("config.field", sf.Name).
					WithContext("config.env", fullEnvVar)
			}
		}

		field := Field{
			Name:      sf.Name,
			Type:      sf.Type.String(),
			Default:   sf.Tag.Get("default"),
			EnvVar:    fullEnvVar,
			Converter: sf.Tag.Get("converter"),
			Validator: sf.Tag.Get("validate"),
			Source:    src,
		}

		if have {
			val, err := l.convert(sf, raw)
			if err != nil {
				return zero, nil, errors.ConfigError(sf.Name, src.String(), err)
			}
			if err := setField(rv.Field(i), sf.Type, val); err != nil {
				return zero, nil, errors.ConfigError(sf.Name, src.String(), err)
			}
		}

		fields[sf.Name] = field
	}

	built := rv.Interface().(T)

	if err := l.validate.Struct(built); err != nil {
		if verrs, ok := err.(libval.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return zero, nil, errors.New(errors.KindValidation, errors.CodeConfigFieldInvalid,
				"configuration failed validation").
				WithContext("config.field", first.Namespace()).
				WithContext("config.constraint", first.ActualTag())
		}
		return zero, nil, errors.Wrap(errors.KindValidation, errors.CodeConfigFieldInvalid, err)
	}

	l.remember(t, built, Env)
	return built, fields, nil
}

func (l *Loader) convert(sf reflect.StructField, raw string) (any, error) {
	if name := sf.Tag.Get("converter"); name != "" {
		l.mu.RLock()
		c, ok := l.converters[name]
		l.mu.RUnlock()
		if !ok {
			return nil, errors.ValidationError("converter", "no converter registered as \""+name+"\"")
		}
		return c(raw)
	}
	return defaultConvert(sf.Type, raw)
}

// defaultConvert handles the common scalar kinds when no explicit converter
// tag is present.
func defaultConvert(t reflect.Type, raw string) (any, error) {
	if t == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.ValidationError("duration", raw+" is not a valid duration")
		}
		return d, nil
	}

	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.ValidationError("bool", raw+" is not a bool")
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.ValidationError("int", raw+" is not an int")
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ValidationError("float", raw+" is not a float")
		}
		return f, nil
	default:
		return raw, nil
	}
}

func setField(fv reflect.Value, ft reflect.Type, val any) error {
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(ft) {
		fv.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(ft) {
		fv.Set(rv.Convert(ft))
		return nil
	}
	return errors.ValidationError("config.field", "converted value of type "+rv.Type().String()+" is not assignable to "+ft.String())
}
