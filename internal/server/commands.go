package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/waiyiptam/roslyn/internal/command"
	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/window"
)

// commandSet owns the resolved per-window command list. The help handler
// reads the list through the struct so it can be built before resolution
// completes.
type commandSet struct {
	resolved []command.Descriptor
}

// handlers returns the named handler implementations the manifest may bind.
func (s *commandSet) handlers(provider *interactive.Provider, registry *window.Registry, language string) map[string]command.Handler {
	return map[string]command.Handler{
		"run": func(ctx context.Context, args string) (string, error) {
			current := provider.Current()
			if current == nil {
				return "", fmt.Errorf("no open session")
			}
			win, ok := registry.Get(current.ID().String())
			if !ok {
				return "", fmt.Errorf("window not found")
			}
			return win.Submit(ctx, args)
		},
		"help": func(ctx context.Context, args string) (string, error) {
			var b strings.Builder
			for _, d := range s.resolved {
				fmt.Fprintf(&b, "%-12s %s\n", strings.Join(d.Names, ", "), d.Description)
			}
			return b.String(), nil
		},
		"help." + language: func(ctx context.Context, args string) (string, error) {
			var b strings.Builder
			fmt.Fprintf(&b, "%s session commands:\n", language)
			for _, d := range s.resolved {
				fmt.Fprintf(&b, "%-12s %s\n", strings.Join(d.Names, ", "), d.Description)
			}
			return b.String(), nil
		},
		"close": func(ctx context.Context, args string) (string, error) {
			current := provider.Current()
			if current == nil {
				return "", fmt.Errorf("no open session")
			}
			id := current.ID().String()
			if err := registry.CloseWindow(id); err != nil {
				return "", err
			}
			return "closed " + id, nil
		},
	}
}

// defaultDescriptors is the built-in registration table used when no
// manifest file is configured.
func (s *commandSet) defaultDescriptors(handlers map[string]command.Handler, language string) []command.Descriptor {
	return []command.Descriptor{
		{
			Names:       []string{"run"},
			Kind:        command.KindGeneric,
			Description: "evaluate the argument text in the live session",
			Handler:     handlers["run"],
		},
		{
			Names:       []string{"help", "?"},
			Kind:        command.KindGeneric,
			Description: "list available commands",
			Handler:     handlers["help"],
		},
		{
			Names:       []string{"close"},
			Kind:        command.KindGeneric,
			Description: "close the interactive window",
			Handler:     handlers["close"],
		},
		{
			Names:       []string{"help"},
			Kind:        command.KindSpecialized,
			Description: "list available commands for the hosted language",
			Handler:     handlers["help."+language],
		},
	}
}

// build resolves the final command set from either the manifest at path or
// the built-in table.
func (s *commandSet) build(provider *interactive.Provider, registry *window.Registry, language, manifestPath string) error {
	handlers := s.handlers(provider, registry, language)

	var descriptors []command.Descriptor
	if manifestPath != "" {
		manifest, err := command.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		descriptors, err = manifest.Bind(handlers)
		if err != nil {
			return err
		}
	} else {
		descriptors = s.defaultDescriptors(handlers, language)
	}

	resolved, err := command.Resolve(descriptors, command.KindGeneric, command.KindSpecialized)
	if err != nil {
		return err
	}
	s.resolved = resolved
	return nil
}
