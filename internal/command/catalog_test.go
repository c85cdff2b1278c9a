package command

import (
	"context"
	"errors"
	"testing"
)

func noop(ctx context.Context, args string) (string, error) { return "", nil }

func tagged(tag string) Handler {
	return func(ctx context.Context, args string) (string, error) {
		return tag, nil
	}
}

func invoke(t *testing.T, d Descriptor) string {
	t.Helper()
	out, err := d.Handler(context.Background(), "")
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	return out
}

func TestResolveSpecializedWins(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"reset"}, Kind: KindGeneric, Handler: tagged("generic-reset")},
		{Names: []string{"reset"}, Kind: KindSpecialized, Handler: tagged("special-reset")},
	}

	resolved, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(resolved))
	}
	if got := invoke(t, resolved[0]); got != "special-reset" {
		t.Errorf("expected specialized handler, got %q", got)
	}
}

func TestResolveDropsSpecializedOnlyNames(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"run"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"explain"}, Kind: KindSpecialized, Handler: noop},
	}

	resolved, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(resolved))
	}
	if _, ok := Lookup(resolved, "explain"); ok {
		t.Error("specialized-only name must not appear in resolved set")
	}
}

func TestResolvePreservesGenericOrder(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"a"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"b"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"c"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"b"}, Kind: KindSpecialized, Handler: noop},
	}

	resolved, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if resolved[i].Name() != name {
			t.Errorf("slot %d: expected %q, got %q", i, name, resolved[i].Name())
		}
	}
	if resolved[1].Kind != KindSpecialized {
		t.Error("slot b should hold the specialized descriptor")
	}
}

func TestResolveDuplicateGenericNameFails(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"help"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"help"}, Kind: KindGeneric, Handler: noop},
	}

	_, err := Resolve(all, KindGeneric, KindSpecialized)
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %T", err)
	}
	if dup.Name != "help" {
		t.Errorf("expected name help, got %q", dup.Name)
	}
}

func TestResolveFirstAliasMatchWins(t *testing.T) {
	// A specialized descriptor displaces only one slot, even when several
	// of its aliases exist in the generic map.
	all := []Descriptor{
		{Names: []string{"clear"}, Kind: KindGeneric, Handler: tagged("generic-clear")},
		{Names: []string{"cls"}, Kind: KindGeneric, Handler: tagged("generic-cls")},
		{Names: []string{"clear", "cls"}, Kind: KindSpecialized, Handler: tagged("special")},
	}

	resolved, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := invoke(t, resolved[0]); got != "special" {
		t.Errorf("first alias slot: expected special, got %q", got)
	}
	if got := invoke(t, resolved[1]); got != "generic-cls" {
		t.Errorf("second alias slot must stay generic, got %q", got)
	}
}

func TestResolveHelpAliasExample(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"run"}, Kind: KindGeneric, Handler: tagged("run")},
		{Names: []string{"help", "?"}, Kind: KindGeneric, Handler: tagged("generic-help")},
		{Names: []string{"help"}, Kind: KindSpecialized, Handler: tagged("special-help")},
	}

	resolved, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(resolved))
	}
	if got := invoke(t, resolved[0]); got != "run" {
		t.Errorf("slot 0: expected run, got %q", got)
	}
	if got := invoke(t, resolved[1]); got != "special-help" {
		t.Errorf("slot 1: expected specialized help, got %q", got)
	}
	// The "?" alias belonged to the displaced generic descriptor and is no
	// longer an active name.
	if _, ok := Lookup(resolved, "?"); ok {
		t.Error("alias of displaced generic descriptor should be inactive")
	}
}

func TestResolveEmptyNamesFails(t *testing.T) {
	all := []Descriptor{{Names: nil, Kind: KindGeneric, Handler: noop}}

	if _, err := Resolve(all, KindGeneric, KindSpecialized); !errors.Is(err, ErrEmptyNames) {
		t.Fatalf("expected ErrEmptyNames, got %v", err)
	}
}

func TestResolveDeterministic(t *testing.T) {
	all := []Descriptor{
		{Names: []string{"run"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"help", "?"}, Kind: KindGeneric, Handler: noop},
		{Names: []string{"help"}, Kind: KindSpecialized, Handler: noop},
	}

	first, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := Resolve(all, KindGeneric, KindSpecialized)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatal("resolution length differs between identical calls")
	}
	for i := range first {
		if first[i].Name() != second[i].Name() || first[i].Kind != second[i].Kind {
			t.Errorf("slot %d differs between identical calls", i)
		}
	}
}
