package refactor

import (
	"context"
	"fmt"
	"sort"
)

// ApplyEdits applies a set of edits to a document and returns the result.
// Edits must not overlap; they may arrive in any order.
func ApplyEdits(src string, edits []TextEdit) (string, error) {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return "", fmt.Errorf("edit %d out of range [%d,%d) for document of %d bytes", i, e.Start, e.End, len(src))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return "", fmt.Errorf("edit %d overlaps previous edit", i)
		}
	}

	// Apply back to front so earlier offsets stay valid.
	out := src
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		out = out[:e.Start] + e.NewText + out[e.End:]
	}
	return out, nil
}

// Harness drives the refactoring service against in-memory documents. It
// exists for test suites that verify end-to-end signature changes without
// a real workspace.
type Harness struct {
	client *Client
	docs   map[string]string
}

// NewHarness creates a harness over the given client and document set.
func NewHarness(client *Client, docs map[string]string) *Harness {
	copied := make(map[string]string, len(docs))
	for k, v := range docs {
		copied[k] = v
	}
	return &Harness{client: client, docs: copied}
}

// Document returns the current content of a document.
func (h *Harness) Document(name string) (string, bool) {
	src, ok := h.docs[name]
	return src, ok
}

// ChangeSignature submits the request and applies the returned edits to the
// held documents. A service-level failure is returned as an error carrying
// the service's message.
func (h *Harness) ChangeSignature(ctx context.Context, req *ChangeSignatureRequest) error {
	result, err := h.client.ChangeSignature(ctx, req)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("refactoring rejected: %s", result.Error)
	}

	byDoc := make(map[string][]TextEdit)
	for _, e := range result.Edits {
		byDoc[e.Document] = append(byDoc[e.Document], e)
	}
	for doc, edits := range byDoc {
		src, ok := h.docs[doc]
		if !ok {
			return fmt.Errorf("edit targets unknown document %q", doc)
		}
		updated, err := ApplyEdits(src, edits)
		if err != nil {
			return fmt.Errorf("apply edits to %s: %w", doc, err)
		}
		h.docs[doc] = updated
	}
	return nil
}
