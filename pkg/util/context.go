package util

import (
	"context"
	"fmt"
	"io"
	"os"
)

type contextKey string

const (
	verboseKey contextKey = "verbose"
	logOutKey  contextKey = "logOut"
)

// WithVerbose adds the verbose flag to the context
func WithVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, verboseKey, verbose)
}

// IsVerbose returns true if verbose mode is enabled in the context
func IsVerbose(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(verboseKey).(bool)
	return ok && v
}

// WithLogOutput sets where Debugf writes. Defaults to stderr.
func WithLogOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, logOutKey, w)
}

// Debugf writes a diagnostic line when verbose mode is enabled.
func Debugf(ctx context.Context, format string, args ...any) {
	if !IsVerbose(ctx) {
		return
	}

	var out io.Writer = os.Stderr
	if w, ok := ctx.Value(logOutKey).(io.Writer); ok && w != nil {
		out = w
	}

	fmt.Fprintf(out, "[debug] "+format+"\n", args...)
}
