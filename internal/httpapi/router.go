// Package httpapi serves point lookups against a loaded index. The
// server is read-only; the index is built offline by the build command.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/freeeve/openingstats/internal/store"
)

// Normalizer maps a user-supplied FEN to a canonical position ID.
type Normalizer func(fen string) (string, error)

// Handler serves queries against one loaded index.
type Handler struct {
	idx  *store.Index
	norm Normalizer
	log  zerolog.Logger
}

// NewRouter creates the HTTP router for a loaded index.
func NewRouter(log zerolog.Logger, idx *store.Index, norm Normalizer) http.Handler {
	h := &Handler{
		idx:  idx,
		norm: norm,
		log:  log,
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(h.health))
	mux.Handle("/readyz", http.HandlerFunc(h.health))
	mux.Handle("/v1/position", http.HandlerFunc(h.position))
	mux.Handle("/v1/stats", http.HandlerFunc(h.stats))

	return RequestID(AccessLog(log, mux))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"positions": h.idx.Len(),
	})
}

// position looks up the outcome triple for a position, by FEN or by raw
// canonical ID. A position never seen in the corpus is a normal miss
// and returns the zero triple, not an error.
func (h *Handler) position(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if fen := r.URL.Query().Get("fen"); fen != "" {
		var err error
		id, err = h.norm(fen)
		if err != nil {
			http.Error(w, "invalid FEN: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if id == "" {
		http.Error(w, "missing fen or id parameter", http.StatusBadRequest)
		return
	}

	writeJSON(w, toPositionResponse(id, h.idx.Lookup(id)))
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
