package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// ErrDisposed reports use of an evaluator after Dispose.
var ErrDisposed = errors.New("repl: evaluator disposed")

// JSConfig configures the JavaScript evaluator.
type JSConfig struct {
	// Timeout bounds a single Evaluate call. Zero means no limit.
	Timeout time.Duration
	// Prelude is executed by Initialize before the first submission.
	Prelude string
	// Console receives captured console.* output. May be nil.
	Console io.Writer
}

// JS is a sandboxed JavaScript evaluator backed by goja.
type JS struct {
	cfg JSConfig

	mu       sync.Mutex
	vm       *goja.Runtime
	disposed bool

	// The console sink has its own lock: console callbacks run while mu is
	// held by Evaluate, and BindOutput arrives from the provider after the
	// window exists.
	outMu   sync.Mutex
	console io.Writer
}

// NewJS creates a JavaScript evaluator. The runtime is not usable until
// Initialize has run.
func NewJS(cfg JSConfig) *JS {
	return &JS{cfg: cfg, console: cfg.Console}
}

// BindOutput directs captured console output to w, replacing any sink from
// JSConfig.
func (j *JS) BindOutput(w io.Writer) {
	j.outMu.Lock()
	j.console = w
	j.outMu.Unlock()
}

func (j *JS) consoleSink() io.Writer {
	j.outMu.Lock()
	defer j.outMu.Unlock()
	return j.console
}

// Initialize builds the runtime, installs the sandboxed globals and runs
// the prelude. The window provider invokes it asynchronously.
func (j *JS) Initialize(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.disposed {
		return ErrDisposed
	}

	vm := goja.New()
	if err := j.setupGlobals(vm); err != nil {
		return err
	}
	j.vm = vm

	if j.cfg.Prelude != "" {
		if _, err := j.run(ctx, j.cfg.Prelude); err != nil {
			return fmt.Errorf("run prelude: %w", err)
		}
	}
	return nil
}

// Evaluate executes one submission and renders its completion value.
func (j *JS) Evaluate(ctx context.Context, input string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.disposed {
		return "", ErrDisposed
	}
	if j.vm == nil {
		// Initialization has not completed yet; build lazily rather than
		// failing the submission.
		vm := goja.New()
		if err := j.setupGlobals(vm); err != nil {
			return "", err
		}
		j.vm = vm
	}

	val, err := j.run(ctx, input)
	if err != nil {
		return "", err
	}
	return render(val), nil
}

// run executes a script with interrupt-based timeout handling. Caller holds
// the lock.
func (j *JS) run(ctx context.Context, script string) (goja.Value, error) {
	done := make(chan struct{})
	watcherDone := make(chan struct{})

	var timeoutC <-chan time.Time
	if j.cfg.Timeout > 0 {
		timer := time.NewTimer(j.cfg.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	vm := j.vm
	go func() {
		defer close(watcherDone)
		select {
		case <-timeoutC:
			vm.Interrupt("evaluation timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := vm.RunString(script)

	// Stop the watcher and wait for it before clearing: an interrupt landing
	// after ClearInterrupt would poison the next submission.
	close(done)
	<-watcherDone
	vm.ClearInterrupt()

	if err != nil {
		return nil, err
	}
	return val, nil
}

// ContentType reports the buffer classification for JavaScript windows.
func (j *JS) ContentType() string { return "application/javascript" }

// Dispose releases the runtime. Safe to call once; further calls and
// evaluations fail with ErrDisposed.
func (j *JS) Dispose() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.disposed {
		return ErrDisposed
	}
	j.disposed = true
	j.vm = nil
	return nil
}

func (j *JS) setupGlobals(vm *goja.Runtime) error {
	// Remove host-escape globals.
	vm.Set("require", goja.Undefined())
	vm.Set("process", goja.Undefined())
	vm.Set("module", goja.Undefined())
	vm.Set("exports", goja.Undefined())

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		level := level
		if err := console.Set(level, j.makeConsoleFunc(level)); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

func (j *JS) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sink := j.consoleSink()
		if sink == nil {
			return goja.Undefined()
		}
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintf(sink, "[%s] %s\n", level, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

func render(val goja.Value) string {
	if val == nil || goja.IsUndefined(val) {
		return ""
	}
	if goja.IsNull(val) {
		return "null"
	}
	return val.String()
}
