package refactor

// Parameter describes one entry in the target signature. OriginalIndex is
// the position of the parameter in the existing signature, or -1 for a
// parameter introduced by the refactoring.
type Parameter struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	OriginalIndex int    `json:"original_index"`
	CallSiteValue string `json:"call_site_value,omitempty"`
}

// ChangeSignatureRequest asks the service to rewrite a symbol's signature
// and every call site to match the given parameter list. Parameters absent
// from the list are removed; order in the list is the new order.
type ChangeSignatureRequest struct {
	Document   string      `json:"document"`
	Position   int         `json:"position"`
	Symbol     string      `json:"symbol"`
	Parameters []Parameter `json:"parameters"`
}

// TextEdit is a single replacement in a document. Offsets are byte
// positions; Start is inclusive, End exclusive.
type TextEdit struct {
	Document string `json:"document"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	NewText  string `json:"new_text"`
}

// ChangeSignatureResult is the service's response.
type ChangeSignatureResult struct {
	Succeeded bool       `json:"succeeded"`
	Edits     []TextEdit `json:"edits,omitempty"`
	Error     string     `json:"error,omitempty"`
}
