package repl

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/waiyiptam/roslyn/internal/interactive"
)

// Options select and configure an evaluator for a language identity.
type Options struct {
	Language string
	Timeout  time.Duration
	Prelude  string
	Shell    string
	// Output is the initial console/shell output sink. May be nil; once a
	// session window exists the provider rebinds output to its transcript.
	Output io.Writer
}

// Factory returns an interactive.EvaluatorFactory for the given options.
// Supported languages: "javascript" (goja) and "shell" (PTY).
func Factory(opts Options) (interactive.EvaluatorFactory, error) {
	switch opts.Language {
	case "javascript":
		return func(ctx context.Context) (interactive.Evaluator, error) {
			return NewJS(JSConfig{
				Timeout: opts.Timeout,
				Prelude: opts.Prelude,
				Console: opts.Output,
			}), nil
		}, nil
	case "shell":
		return func(ctx context.Context) (interactive.Evaluator, error) {
			return NewShell(ShellConfig{
				Shell:  opts.Shell,
				Output: opts.Output,
			}), nil
		}, nil
	default:
		return nil, fmt.Errorf("repl: unsupported language %q", opts.Language)
	}
}
