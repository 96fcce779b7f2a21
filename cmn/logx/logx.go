// Package logx is the structured-logging seam every other package logs
// through, playing the role aistore's own cmn/nlog plays for its
// cluster. aistore's nlog has no third-party backend of its own (it's
// an internal wrapper); since this module is standalone we back it
// with go.uber.org/zap, the logger several repos retrieved alongside
// the teacher reach for directly (AKJUS-bsc-erigon, ops-agent,
// flarego, zmux-server, grafana-tempo, ignite, storj). Call sites keep
// the shape nlog call sites have: Infof/Infoln/Warnf/Errorf, plus a
// verbosity gate (V) for the hot paths that should stay silent outside
// debug runs.
package logx

import (
	"fmt"
	"sync/atomic"

	"github.com/teris-io/shortid"
	"go.uber.org/zap"
)

var (
	base    *zap.SugaredLogger
	verbose int32 // atomic; 0 = quiet

	// RunID tags every log line and metrics label with a short,
	// process-lifetime-scoped identifier, the way teacher tags xaction
	// output with p.UUID() (xact/xs/tcb.go). Generated once at package
	// init; a generation failure falls back to a fixed placeholder
	// rather than aborting startup over a debug-only label.
	RunID = generateRunID()
)

func generateRunID() string {
	id, err := shortid.Generate()
	if err != nil {
		return "unknown"
	}
	return id
}

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	base = l.Sugar().With("run_id", RunID)
}

// SetVerbosity sets the global verbosity threshold consulted by V.
// Zero (the default) silences every V-gated log line.
func SetVerbosity(level int) { atomic.StoreInt32(&verbose, int32(level)) }

// V reports whether logging at the given verbosity level is enabled,
// the same gate aistore's cmn.Config.FastV provides per-module.
func V(level int) bool { return atomic.LoadInt32(&verbose) >= int32(level) }

// Replace swaps the backing logger, e.g. to a development logger in
// tests that want log output on stdout.
func Replace(l *zap.Logger) { base = l.Sugar().With("run_id", RunID) }

func Infof(format string, args ...any)  { base.Infof(format, args...) }
func Infoln(args ...any)                { base.Info(fmt.Sprintln(args...)) }
func Warnf(format string, args ...any)  { base.Warnf(format, args...) }
func Errorf(format string, args ...any) { base.Errorf(format, args...) }
func Errorln(args ...any)               { base.Error(fmt.Sprintln(args...)) }

// Sync flushes any buffered log entries; call before process exit.
func Sync() { _ = base.Sync() }
