package command

import (
	"errors"
	"fmt"
)

// DuplicateNameError reports two generic descriptors declaring the same
// display name. This is a configuration error: registration must fail
// eagerly rather than pick a winner at invocation time.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate generic command name: %q", e.Name)
}

// ErrEmptyNames reports a descriptor with no display names.
var ErrEmptyNames = errors.New("command descriptor has no names")

// Resolve merges a flat list of descriptors into the final per-window
// command set.
//
// Descriptors tagged generic form the base list, order preserved. Each
// specialized descriptor then displaces the generic slot of the first of
// its names that matches a generic name; its remaining aliases are not
// scanned. Specialized names with no generic counterpart are dropped: the
// resolved set never grows beyond the generic name-space.
func Resolve(all []Descriptor, generic, specialized Kind) ([]Descriptor, error) {
	var genericSet, specializedSet []Descriptor
	for _, d := range all {
		if len(d.Names) == 0 {
			return nil, ErrEmptyNames
		}
		switch d.Kind {
		case generic:
			genericSet = append(genericSet, d)
		case specialized:
			specializedSet = append(specializedSet, d)
		}
	}

	// Index every generic alias. A clash between generic descriptors is
	// fatal, mirroring an insert-must-not-exist contract.
	slots := make(map[string]int, len(genericSet))
	for i, d := range genericSet {
		for _, name := range d.Names {
			if _, exists := slots[name]; exists {
				return nil, &DuplicateNameError{Name: name}
			}
			slots[name] = i
		}
	}

	resolved := make([]Descriptor, len(genericSet))
	copy(resolved, genericSet)

	for _, d := range specializedSet {
		for _, name := range d.Names {
			if i, ok := slots[name]; ok {
				resolved[i] = d
				break // first match wins; one slot per specialized descriptor
			}
		}
	}

	return resolved, nil
}

// Lookup finds the descriptor answering to name within a resolved set.
func Lookup(resolved []Descriptor, name string) (Descriptor, bool) {
	for _, d := range resolved {
		for _, n := range d.Names {
			if n == name {
				return d, true
			}
		}
	}
	return Descriptor{}, false
}
