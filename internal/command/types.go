package command

import "context"

// Kind classifies a command descriptor.
type Kind string

const (
	// KindGeneric commands are available in any interactive window.
	KindGeneric Kind = "generic"
	// KindSpecialized commands override a generic command of the same name
	// for one hosted language.
	KindSpecialized Kind = "specialized"
)

// Handler executes a command invocation. The argument string is the raw
// text following the command name.
type Handler func(ctx context.Context, args string) (string, error)

// Descriptor describes one command implementation.
type Descriptor struct {
	// Names holds the command's display names. The first entry is the
	// primary name; the rest are aliases. Must be non-empty.
	Names []string

	// Kind tags the descriptor as generic or specialized.
	Kind Kind

	// Description is shown by help listings.
	Description string

	// Handler is the opaque invocation behavior.
	Handler Handler
}

// Name returns the primary display name.
func (d Descriptor) Name() string {
	if len(d.Names) == 0 {
		return ""
	}
	return d.Names[0]
}
