// Package diag defines the small logging and timing
// interfaces the mapping engine depends on, plus a no-op
// default and a zap-backed implementation. Neither is
// essential for correctness (spec.md §6); they exist so the
// core can be wired into a larger system's observability
// stack without importing it directly.
package diag

import (
	"time"

	"go.uber.org/zap"
)

// Logger accepts leveled diagnostic messages. The mapping
// engine only ever calls Debugf and Warnf.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Timer starts a named event and returns a function that
// stops it. Callers must call the returned function exactly
// once.
type Timer interface {
	Start(name string) func()
}

// Diag bundles a Logger and a Timer; Mapping holds one.
type Diag struct {
	Logger
	Timer
}

// Nop is the zero-cost default: it logs nothing and times
// nothing.
var Nop = Diag{Logger: nopLogger{}, Timer: nopTimer{}}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type nopTimer struct{}

func (nopTimer) Start(string) func() { return func() {} }

// Zap wraps a *zap.SugaredLogger as a Logger and Timer. The
// Timer implementation reports elapsed time to the wrapped
// logger at DEBUG level when the returned stop function is
// called.
type Zap struct {
	sugar *zap.SugaredLogger
}

// NewZap creates a Diag backed by sugar.
func NewZap(sugar *zap.SugaredLogger) Diag {
	z := Zap{sugar: sugar}
	return Diag{Logger: z, Timer: z}
}

func (z Zap) Debugf(format string, args ...any) {
	z.sugar.Debugf(format, args...)
}

func (z Zap) Warnf(format string, args ...any) {
	z.sugar.Warnf(format, args...)
}

func (z Zap) Start(name string) func() {
	start := time.Now()
	return func() {
		z.sugar.Debugf("%s finished in %s", name, time.Since(start))
	}
}
