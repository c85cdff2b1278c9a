package refactor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeSignatureRoundTrip(t *testing.T) {
	var got ChangeSignatureRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/refactor/change-signature", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChangeSignatureResult{
			Succeeded: true,
			Edits: []TextEdit{
				{Document: "main.cs", Start: 10, End: 20, NewText: "int b, int a"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Addr: srv.URL})
	result, err := c.ChangeSignature(context.Background(), &ChangeSignatureRequest{
		Document: "main.cs",
		Symbol:   "Frob",
		Parameters: []Parameter{
			{Name: "b", Type: "int", OriginalIndex: 1},
			{Name: "a", Type: "int", OriginalIndex: 0},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	require.Len(t, result.Edits, 1)
	assert.Equal(t, "int b, int a", result.Edits[0].NewText)
	assert.Equal(t, "Frob", got.Symbol)
	require.Len(t, got.Parameters, 2)
	assert.Equal(t, 1, got.Parameters[0].OriginalIndex)
}

func TestChangeSignatureServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad symbol", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Addr: srv.URL})
	_, err := c.ChangeSignature(context.Background(), &ChangeSignatureRequest{Symbol: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change signature failed")
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Addr: srv.URL})
	assert.True(t, c.Healthy(context.Background()))

	srv.Close()
	assert.False(t, c.Healthy(context.Background()))
}

func TestApplyEdits(t *testing.T) {
	src := "func Frob(a int, b int) {}"
	out, err := ApplyEdits(src, []TextEdit{
		{Start: 10, End: 22, NewText: "b int, a int"},
	})
	require.NoError(t, err)
	assert.Equal(t, "func Frob(b int, a int) {}", out)
}

func TestApplyEditsMultipleBackToFront(t *testing.T) {
	src := "aaa bbb ccc"
	out, err := ApplyEdits(src, []TextEdit{
		{Start: 8, End: 11, NewText: "C"},
		{Start: 0, End: 3, NewText: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A bbb C", out)
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	_, err := ApplyEdits("abcdef", []TextEdit{
		{Start: 0, End: 4, NewText: "x"},
		{Start: 2, End: 6, NewText: "y"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")
}

func TestApplyEditsRejectsOutOfRange(t *testing.T) {
	_, err := ApplyEdits("abc", []TextEdit{{Start: 1, End: 9, NewText: "x"}})
	require.Error(t, err)
}

func TestHarnessAppliesEditsAcrossDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChangeSignatureResult{
			Succeeded: true,
			Edits: []TextEdit{
				{Document: "def.cs", Start: 5, End: 9, NewText: "y, x"},
				{Document: "use.cs", Start: 5, End: 9, NewText: "2, 1"},
			},
		})
	}))
	defer srv.Close()

	h := NewHarness(NewClient(ClientConfig{Addr: srv.URL}), map[string]string{
		"def.cs": "Frob(x, y)",
		"use.cs": "Frob(1, 2)",
	})
	require.NoError(t, h.ChangeSignature(context.Background(), &ChangeSignatureRequest{Symbol: "Frob"}))

	def, _ := h.Document("def.cs")
	use, _ := h.Document("use.cs")
	assert.Equal(t, "Frob(y, x)", def)
	assert.Equal(t, "Frob(2, 1)", use)
}

func TestHarnessSurfacesServiceRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChangeSignatureResult{Succeeded: false, Error: "symbol not found"})
	}))
	defer srv.Close()

	h := NewHarness(NewClient(ClientConfig{Addr: srv.URL}), nil)
	err := h.ChangeSignature(context.Background(), &ChangeSignatureRequest{Symbol: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol not found")
}
