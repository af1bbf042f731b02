// Package logging wraps log/slog with the field names used across matfree.
//
// Estimators accept a *Logger through their options and default to Noop(),
// so library calls are silent unless the caller injects a handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Field keys shared by every log record.
const (
	KeyEstimator        = "estimator"
	KeyDim              = "dim"
	KeyProbes           = "probes"
	KeyRound            = "round"
	KeyDepth            = "depth"
	KeyAchieved         = "achieved"
	KeyProbe            = "probe"
	KeyMean             = "mean"
	KeyVariance         = "variance"
	KeyStdErr           = "stderr"
	KeyReason           = "termination"
	KeyMatvecs          = "matvecs"
	KeyTransposeMatvecs = "transpose_matvecs"
)

// Logger wraps slog.Logger with matfree-specific helpers.
type Logger struct {
	*slog.Logger
}

// New returns a Logger over handler. A nil handler writes text to stderr at
// Info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText returns a human-readable Logger writing to w at the given level.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON returns a JSON Logger writing to w at the given level.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop returns a Logger that discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// OrNoop returns l, or Noop() when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return Noop()
	}
	return l
}

// WithEstimator tags records with the estimator name.
func (l *Logger) WithEstimator(name string) *Logger {
	return &Logger{Logger: l.Logger.With(KeyEstimator, name)}
}

// WithDim tags records with the operator dimension.
func (l *Logger) WithDim(n int) *Logger {
	return &Logger{Logger: l.Logger.With(KeyDim, n)}
}

// WithDepth tags records with the requested Krylov depth.
func (l *Logger) WithDepth(depth int) *Logger {
	return &Logger{Logger: l.Logger.With(KeyDepth, depth)}
}

// LogRound records the running statistics after an adaptive round.
func (l *Logger) LogRound(ctx context.Context, round, probes int, mean, variance, stderr float64) {
	l.DebugContext(ctx, "round completed",
		KeyRound, round,
		KeyProbes, probes,
		KeyMean, mean,
		KeyVariance, variance,
		KeyStdErr, stderr,
	)
}

// LogBreakdown records a probe whose Krylov recurrence stopped early.
func (l *Logger) LogBreakdown(ctx context.Context, probe, requested, achieved int) {
	l.DebugContext(ctx, "krylov breakdown",
		KeyProbe, probe,
		KeyDepth, requested,
		KeyAchieved, achieved,
	)
}

// LogEstimate records a finished estimate. Budget exhaustion without meeting
// the tolerance is a warning.
func (l *Logger) LogEstimate(ctx context.Context, probes int, value, stderr float64, converged bool, reason string) {
	if !converged {
		l.WarnContext(ctx, "estimate did not reach tolerance",
			KeyProbes, probes,
			KeyMean, value,
			KeyStdErr, stderr,
			KeyReason, reason,
		)
		return
	}
	l.DebugContext(ctx, "estimate completed",
		KeyProbes, probes,
		KeyMean, value,
		KeyStdErr, stderr,
		KeyReason, reason,
	)
}

// LogAllBreakdown warns that every probe of a batch broke down.
func (l *Logger) LogAllBreakdown(ctx context.Context, probes, achieved int) {
	l.WarnContext(ctx, "every probe broke down",
		KeyProbes, probes,
		KeyAchieved, achieved,
	)
}

// LogMatvecs records the operator cost of a finished computation.
func (l *Logger) LogMatvecs(ctx context.Context, forward, transpose int64) {
	l.InfoContext(ctx, "operator cost",
		KeyMatvecs, forward,
		KeyTransposeMatvecs, transpose,
	)
}
