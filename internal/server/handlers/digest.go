// internal/server/handlers/digest.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"viralwatch/internal/domain/content"
	"viralwatch/internal/service/collect"
)

// DigestHandler handles digest-related HTTP requests
type DigestHandler struct {
	aggregator *collect.Aggregator
	store      content.DigestStore
}

// NewDigestHandler creates a new digest handler. The store may be nil when
// running without a database; only in-memory digests are served then.
func NewDigestHandler(aggregator *collect.Aggregator, store content.DigestStore) *DigestHandler {
	return &DigestHandler{
		aggregator: aggregator,
		store:      store,
	}
}

// latest returns the most recent digest, falling back to the archive when no
// collection run has completed since startup
func (h *DigestHandler) latest(r *http.Request) (*content.Digest, error) {
	if digest := h.aggregator.Latest(); digest != nil {
		return digest, nil
	}
	if h.store != nil {
		return h.store.LatestDigest(r.Context())
	}
	return nil, nil
}

// GetDigest returns the latest full digest
func (h *DigestHandler) GetDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.latest(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load digest", err)
		return
	}
	if digest == nil {
		respondWithError(w, http.StatusNotFound, "No digest available yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, digest)
}

// GetTopViral returns the top-N viral records of the latest digest
func (h *DigestHandler) GetTopViral(w http.ResponseWriter, r *http.Request) {
	digest, err := h.latest(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load digest", err)
		return
	}
	if digest == nil {
		respondWithError(w, http.StatusNotFound, "No digest available yet", nil)
		return
	}

	top := digest.TopViral
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid n parameter", err)
			return
		}
		if n < len(top) {
			top = top[:n]
		}
	}

	respondWithJSON(w, http.StatusOK, top)
}

// GetCrossPlatform returns the cross-platform hits of the latest digest
func (h *DigestHandler) GetCrossPlatform(w http.ResponseWriter, r *http.Request) {
	digest, err := h.latest(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load digest", err)
		return
	}
	if digest == nil {
		respondWithError(w, http.StatusNotFound, "No digest available yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, digest.CrossPlatformHits)
}

// GetByCategory returns the latest digest's records for one category
func (h *DigestHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Missing category", nil)
		return
	}

	digest, err := h.latest(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load digest", err)
		return
	}
	if digest == nil {
		respondWithError(w, http.StatusNotFound, "No digest available yet", nil)
		return
	}

	records, ok := digest.ByCategory[category]
	if !ok {
		records = []*content.ContentRecord{}
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GetByPlatform returns the latest digest's records for one platform
func (h *DigestHandler) GetByPlatform(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	if platform == "" {
		respondWithError(w, http.StatusBadRequest, "Missing platform", nil)
		return
	}

	digest, err := h.latest(r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load digest", err)
		return
	}
	if digest == nil {
		respondWithError(w, http.StatusNotFound, "No digest available yet", nil)
		return
	}

	records, ok := digest.ByPlatform[content.Source(platform)]
	if !ok {
		records = []*content.ContentRecord{}
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GetStats returns trend summary statistics for the latest collection run
func (h *DigestHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.aggregator.Summary())
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
