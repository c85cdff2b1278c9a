package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
)

// ShellConfig configures the PTY-backed shell evaluator.
type ShellConfig struct {
	// Shell is the program to run. Falls back to $SHELL, then /bin/bash.
	Shell string
	// WorkingDir is the initial working directory. Falls back to $HOME.
	WorkingDir string
	// Cols and Rows are the terminal dimensions.
	Cols, Rows int
	// Output receives everything the shell prints. May be nil.
	Output io.Writer
	// SettleDelay is how long Evaluate waits for output to drain before
	// returning. Shell output is inherently asynchronous; the transcript
	// listener sees it regardless.
	SettleDelay time.Duration
}

// Shell is an evaluator that drives an interactive shell over a PTY.
type Shell struct {
	cfg ShellConfig

	mu       sync.Mutex
	cmd      *exec.Cmd
	ptmx     *os.File
	disposed bool

	outMu  sync.Mutex
	output io.Writer
}

// NewShell creates a shell evaluator. The process starts in Initialize.
func NewShell(cfg ShellConfig) *Shell {
	if cfg.Shell == "" {
		cfg.Shell = os.Getenv("SHELL")
		if cfg.Shell == "" {
			cfg.Shell = "/bin/bash"
		}
	}
	if cfg.WorkingDir == "" {
		cfg.WorkingDir = os.Getenv("HOME")
		if cfg.WorkingDir == "" {
			cfg.WorkingDir = "/tmp"
		}
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 150 * time.Millisecond
	}
	return &Shell{cfg: cfg, output: cfg.Output}
}

// BindOutput directs shell output to w, replacing any sink from ShellConfig.
// The pump picks up the new sink on its next read.
func (s *Shell) BindOutput(w io.Writer) {
	s.outMu.Lock()
	s.output = w
	s.outMu.Unlock()
}

func (s *Shell) outputSink() io.Writer {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.output
}

// Initialize spawns the shell process and starts the output pump.
func (s *Shell) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if s.ptmx != nil {
		return nil
	}

	cmd := exec.Command(s.cfg.Shell)
	cmd.Dir = s.cfg.WorkingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.cfg.Rows),
		Cols: uint16(s.cfg.Cols),
	})
	if err != nil {
		return fmt.Errorf("start shell pty: %w", err)
	}

	s.cmd = cmd
	s.ptmx = ptmx

	go s.pump(ptmx)

	return nil
}

// pump copies shell output to the configured sink until the PTY closes.
func (s *Shell) pump(ptmx *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			if sink := s.outputSink(); sink != nil {
				sink.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
	}
}

// Evaluate writes one line of input to the shell. Output flows to the
// configured sink asynchronously; Evaluate returns after a short settle
// delay so prompt-sized responses usually appear in the same transcript
// entry.
func (s *Shell) Evaluate(ctx context.Context, input string) (string, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return "", ErrDisposed
	}
	ptmx := s.ptmx
	s.mu.Unlock()

	if ptmx == nil {
		return "", fmt.Errorf("repl: shell not initialized")
	}

	if _, err := ptmx.Write([]byte(input + "\n")); err != nil {
		return "", fmt.Errorf("write to shell: %w", err)
	}

	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "", nil
}

// ContentType reports the buffer classification for shell windows.
func (s *Shell) ContentType() string { return "text/x-shellscript" }

// Dispose kills the shell process and closes the PTY.
func (s *Shell) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	s.disposed = true

	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	if s.ptmx != nil {
		return s.ptmx.Close()
	}
	return nil
}
