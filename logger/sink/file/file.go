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

// Package file implements the rotating file log sink: every record is
// assembled in memory and issued as a single Write, and rotation (by size
// or by elapsed time) produces a timestamp-suffixed copy of the current
// file without losing in-flight records.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nabbar/foundation/logger/entry"
)

// Options configures a file Sink.
type Options struct {
	// Path is the active log file path, e.g. "/var/log/app/app.log".
	Path string
	// FileMode is used when creating the file or a rotated copy.
	FileMode os.FileMode
	// MaxSize rotates once the file would exceed this many bytes. Zero disables size rotation.
	MaxSize int64
	// MaxAge rotates once this long has elapsed since the file was opened. Zero disables time rotation.
	MaxAge time.Duration
}

// Sink writes rendered log lines to a single file, rotating it to a
// timestamp-suffixed copy when Options.MaxSize or Options.MaxAge is
// exceeded.
type Sink struct {
	mu sync.Mutex

	opts Options

	f        *os.File
	size     int64
	openedAt time.Time
}

// New opens (creating if necessary) the file at opts.Path for append.
func New(opts Options) (*Sink, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("file sink: path must not be empty")
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}

	s := &Sink{opts: opts}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) open() error {
	f, err := os.OpenFile(s.opts.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, s.opts.FileMode)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	s.f = f
	s.size = info.Size()
	s.openedAt = time.Now()
	return nil
}

// Write implements processor.Sink. Every call assembles the full line in
// memory (rendered already is the fully-formed string) and issues exactly
// one Write syscall, so a line is never observed half-written.
func (s *Sink) Write(rendered string, _ *entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.needsRotation(len(rendered) + 1) {
		if err := s.rotate(); err != nil {
			// Best-effort: keep writing to the current file rather than
			// losing the record. Rotation failures never drop a log line.
			fmt.Fprintf(os.Stderr, "foundation: file sink rotation failed for %s: %v\n", s.opts.Path, err)
		}
	}

	n, err := s.f.WriteString(rendered + "\n")
	s.size += int64(n)
	return err
}

func (s *Sink) needsRotation(nextWrite int) bool {
	if s.opts.MaxSize > 0 && s.size+int64(nextWrite) > s.opts.MaxSize {
		return true
	}
	if s.opts.MaxAge > 0 && time.Since(s.openedAt) >= s.opts.MaxAge {
		return true
	}
	return false
}

// rotate renames the current file to a timestamp-suffixed name and opens a
// fresh file at the original path. Caller must hold s.mu. If two rotations
// land on the same wall-clock second the later one overwrites the earlier
// suffixed file (last-write-wins).
func (s *Sink) rotate() error {
	if err := s.f.Close(); err != nil {
		return err
	}

	ext := filepath.Ext(s.opts.Path)
	base := strings.TrimSuffix(s.opts.Path, ext)
	rotated := fmt.Sprintf("%s-%s%s", base, time.Now().UTC().Format("20060102T150405"), ext)

	if err := os.Rename(s.opts.Path, rotated); err != nil {
		if oerr := s.open(); oerr != nil {
			return oerr
		}
		return err
	}

	return s.open()
}

// Close flushes and closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Sync()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
