// Package id provides typed, prefixed ULID generation for the service.
//
// ULIDs are lexicographically sortable, so windows and sessions order by
// creation time in logs and listings. Prefixes (win_*, sess_*, req_*) keep
// identifiers readable and prevent cross-type misuse.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies one interactive session (window plus evaluator).
type SessionID string

// WindowID identifies a hosted tool window.
type WindowID string

// RequestID identifies an API request.
type RequestID string

// CommandID identifies a command descriptor.
type CommandID string

const (
	SessionPrefix = "sess"
	WindowPrefix  = "win"
	RequestPrefix = "req"
	CommandPrefix = "cmd"
)

// Generator produces ULIDs from a shared entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(rand.Reader)
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by the given entropy source.
// Tests may pass a deterministic reader.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewSessionID generates a new session ID.
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewWindowID generates a new window ID.
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewCommandID generates a new command ID.
func NewCommandID() CommandID {
	return CommandID(Default().GenerateWithPrefix(CommandPrefix))
}

func (id SessionID) String() string { return string(id) }
func (id WindowID) String() string  { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id CommandID) String() string { return string(id) }

// IsValid reports whether the portion after the type prefix parses as a ULID.
func IsValid(id string) bool {
	if i := strings.IndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the creation time encoded in a prefixed ID.
func Timestamp(id string) (time.Time, error) {
	if i := strings.IndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
