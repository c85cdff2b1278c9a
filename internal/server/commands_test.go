package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waiyiptam/roslyn/internal/command"
	"github.com/waiyiptam/roslyn/internal/interactive"
	"github.com/waiyiptam/roslyn/internal/logging"
	"github.com/waiyiptam/roslyn/internal/window"
)

type upperEvaluator struct{}

func (upperEvaluator) Initialize(ctx context.Context) error { return nil }
func (upperEvaluator) Evaluate(ctx context.Context, input string) (string, error) {
	return strings.ToUpper(input), nil
}
func (upperEvaluator) ContentType() string { return "text/plain" }
func (upperEvaluator) Dispose() error      { return nil }

func newTestProvider(t *testing.T) (*interactive.Provider, *window.Registry) {
	t.Helper()
	log := logging.NewNop()
	registry := window.NewRegistry(log)
	provider := interactive.NewProvider(
		interactive.Config{WindowTypeID: "interactive", Title: "Interactive", LanguageID: "plain"},
		registry,
		func(ctx context.Context) (interactive.Evaluator, error) { return upperEvaluator{}, nil },
		log,
	)
	return provider, registry
}

func TestBuildDefaultCommandSet(t *testing.T) {
	provider, registry := newTestProvider(t)

	var cs commandSet
	if err := cs.build(provider, registry, "plain", ""); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(cs.resolved) != 3 {
		t.Fatalf("expected 3 resolved commands, got %d", len(cs.resolved))
	}
	if cs.resolved[0].Name() != "run" {
		t.Errorf("expected run first, got %q", cs.resolved[0].Name())
	}
	if cs.resolved[1].Name() != "help" || cs.resolved[1].Kind != command.KindSpecialized {
		t.Errorf("help slot should hold the specialized override, got %+v", cs.resolved[1])
	}

	// The displaced generic descriptor owned the "?" alias; the override
	// answers only to "help".
	if _, ok := command.Lookup(cs.resolved, "?"); ok {
		t.Error("? should not resolve after specialization")
	}
}

func TestRunCommandSubmitsToSession(t *testing.T) {
	provider, registry := newTestProvider(t)

	var cs commandSet
	if err := cs.build(provider, registry, "plain", ""); err != nil {
		t.Fatal(err)
	}

	run, ok := command.Lookup(cs.resolved, "run")
	if !ok {
		t.Fatal("run command missing")
	}

	if _, err := run.Handler(context.Background(), "hello"); err == nil {
		t.Error("run should fail with no open session")
	}

	if _, _, err := provider.Open(context.Background(), 0, false); err != nil {
		t.Fatal(err)
	}
	out, err := run.Handler(context.Background(), "hello")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "HELLO" {
		t.Errorf("expected HELLO, got %q", out)
	}
}

func TestHelpListsResolvedCommands(t *testing.T) {
	provider, registry := newTestProvider(t)

	var cs commandSet
	if err := cs.build(provider, registry, "plain", ""); err != nil {
		t.Fatal(err)
	}

	help, ok := command.Lookup(cs.resolved, "help")
	if !ok {
		t.Fatal("help command missing")
	}
	out, err := help.Handler(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"run", "help", "close"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "plain session commands") {
		t.Errorf("specialized help should name the language:\n%s", out)
	}
}

func TestCloseCommandTearsDownWindow(t *testing.T) {
	provider, registry := newTestProvider(t)

	var cs commandSet
	if err := cs.build(provider, registry, "plain", ""); err != nil {
		t.Fatal(err)
	}

	win, _, err := provider.Open(context.Background(), 0, false)
	if err != nil {
		t.Fatal(err)
	}

	closeCmd, _ := command.Lookup(cs.resolved, "close")
	if _, err := closeCmd.Handler(context.Background(), ""); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, ok := registry.Get(win.ID().String()); ok {
		t.Error("window should be removed from the registry")
	}
}

func TestBuildFromManifest(t *testing.T) {
	provider, registry := newTestProvider(t)

	manifest := `
commands:
  - handler: run
    names: [exec]
    kind: generic
    description: evaluate input
  - handler: help
    names: [commands]
    kind: generic
    description: list commands
`
	path := filepath.Join(t.TempDir(), "commands.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	var cs commandSet
	if err := cs.build(provider, registry, "plain", path); err != nil {
		t.Fatalf("build from manifest failed: %v", err)
	}
	if len(cs.resolved) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cs.resolved))
	}
	if _, ok := command.Lookup(cs.resolved, "exec"); !ok {
		t.Error("exec should resolve from the manifest")
	}
}

func TestBuildUnknownManifestHandlerFails(t *testing.T) {
	provider, registry := newTestProvider(t)

	manifest := `
commands:
  - handler: nonexistent
    names: [x]
    kind: generic
`
	path := filepath.Join(t.TempDir(), "commands.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	var cs commandSet
	if err := cs.build(provider, registry, "plain", path); err == nil {
		t.Error("unknown handler reference should fail the build")
	}
}
