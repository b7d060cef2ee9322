// Package logging provides the logger capability injected into simulation
// components.
//
// Components never reach for a process-wide logger; they receive a Logger in
// their constructor options and fall back to Nop when none is given.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logging capability used across the game core.
// Key/value pairs alternate string keys and arbitrary values.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// New builds a zerolog-backed Logger writing JSON lines to w.
// Unknown levels fall back to info.
func New(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return zeroLogger{l: zl}
}

// NewConsole builds a human-readable Logger for terminals.
func NewConsole(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, level)
}

// Component tags l with a component name, mirroring zerolog sub-loggers.
func Component(l Logger, name string) Logger {
	if l == nil {
		return Nop()
	}
	return l.With("component", name)
}

type zeroLogger struct {
	l zerolog.Logger
}

func (z zeroLogger) Debug(msg string, keyvals ...any) { z.emit(z.l.Debug(), msg, keyvals) }
func (z zeroLogger) Info(msg string, keyvals ...any)  { z.emit(z.l.Info(), msg, keyvals) }
func (z zeroLogger) Warn(msg string, keyvals ...any)  { z.emit(z.l.Warn(), msg, keyvals) }
func (z zeroLogger) Error(msg string, keyvals ...any) { z.emit(z.l.Error(), msg, keyvals) }

func (z zeroLogger) With(keyvals ...any) Logger {
	if len(keyvals) == 0 {
		return z
	}
	return zeroLogger{l: z.l.With().Fields(normalize(keyvals)).Logger()}
}

func (zeroLogger) emit(evt *zerolog.Event, msg string, keyvals []any) {
	if evt == nil {
		return
	}
	if len(keyvals) > 0 {
		evt = evt.Fields(normalize(keyvals))
	}
	evt.Msg(msg)
}

// normalize pads odd-length pairs so a missing value does not swallow the
// next key.
func normalize(keyvals []any) []any {
	if len(keyvals)%2 == 0 {
		return keyvals
	}
	out := make([]any, 0, len(keyvals)+1)
	out = append(out, keyvals...)
	return append(out, "(MISSING)")
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }

// Entry is one line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	KeyVals []any
}

// Recorder captures log lines in memory. Tests use it to assert that faults
// were logged instead of propagated.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	fields  []any
	parent  *Recorder
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Debug(msg string, keyvals ...any) { r.record("debug", msg, keyvals) }
func (r *Recorder) Info(msg string, keyvals ...any)  { r.record("info", msg, keyvals) }
func (r *Recorder) Warn(msg string, keyvals ...any)  { r.record("warn", msg, keyvals) }
func (r *Recorder) Error(msg string, keyvals ...any) { r.record("error", msg, keyvals) }

// With returns a child recorder that writes into the same entry list.
func (r *Recorder) With(keyvals ...any) Logger {
	fields := append(append([]any{}, r.fields...), keyvals...)
	return &Recorder{fields: fields, parent: r.root()}
}

// Entries returns a copy of everything recorded at level (all levels when empty).
func (r *Recorder) Entries(level string) []Entry {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	out := make([]Entry, 0, len(root.entries))
	for _, e := range root.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) root() *Recorder {
	if r.parent != nil {
		return r.parent
	}
	return r
}

func (r *Recorder) record(level, msg string, keyvals []any) {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	kv := append(append([]any{}, r.fields...), keyvals...)
	root.entries = append(root.entries, Entry{Level: level, Message: msg, KeyVals: kv})
}
