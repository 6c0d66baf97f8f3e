// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Mentallyspammed1/neonsearch/internal/database"
	"github.com/Mentallyspammed1/neonsearch/internal/models"
	"github.com/Mentallyspammed1/neonsearch/internal/search"
	"github.com/Mentallyspammed1/neonsearch/internal/source"
)

// Version is reported by the liveness endpoint.
const Version = "1.0.0"

// Searcher runs an aggregated search. Satisfied by *search.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	searcher Searcher
	registry *source.Registry
	store    database.Store
}

// NewHandler creates a new handler. store may be nil, in which case status
// endpoints are unavailable and searches are not audited.
func NewHandler(searcher Searcher, registry *source.Registry, store database.Store) *Handler {
	return &Handler{
		searcher: searcher,
		registry: registry,
		store:    store,
	}
}

// Root returns the service liveness message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Video Search API",
		"version": Version,
	})
}

// Search handles aggregated video search requests.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	resp, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Search failed")
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	if h.store != nil {
		// Audit asynchronously; a slow disk must not delay the response.
		entry := &models.SearchLog{
			ID:          uuid.New().String(),
			Query:       strings.TrimSpace(req.Query),
			Sources:     resp.SourcesSearched,
			ResultCount: resp.Total,
			DurationMs:  time.Since(start).Milliseconds(),
			Timestamp:   start,
		}
		go func() {
			if err := h.store.LogSearch(context.Background(), entry); err != nil {
				log.Error().Err(err).Msg("Failed to log search")
			}
		}()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Sources returns all registered sources and their state in registration order.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sources": h.registry.Infos(),
	})
}

// ToggleSource flips a source's enabled flag.
func (h *Handler) ToggleSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	enabled, err := h.registry.Toggle(name)
	if err != nil {
		if errors.Is(err, source.ErrUnknownSource) {
			writeError(w, http.StatusNotFound, "Source not found")
			return
		}
		log.Error().Err(err).Str("source", name).Msg("Failed to toggle source")
		writeError(w, http.StatusInternalServerError, "Failed to toggle source")
		return
	}

	log.Info().Str("source", name).Bool("enabled", enabled).Msg("Source toggled")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":  name,
		"enabled": enabled,
	})
}

// Suggestions returns query-expansion strings for the q parameter.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": search.Suggest(q),
	})
}

// CreateStatusCheck persists a client liveness ping.
func (h *Handler) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Persistence unavailable")
		return
	}

	var req struct {
		ClientName string `json:"client_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ClientName) == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}

	check := &models.StatusCheck{
		ID:         uuid.New().String(),
		ClientName: req.ClientName,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.store.SaveStatusCheck(r.Context(), check); err != nil {
		log.Error().Err(err).Msg("Failed to save status check")
		writeError(w, http.StatusInternalServerError, "Failed to save status check")
		return
	}

	writeJSON(w, http.StatusCreated, check)
}

// ListStatusChecks returns recent status checks.
func (h *Handler) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Persistence unavailable")
		return
	}

	checks, err := h.store.ListStatusChecks(r.Context(), 100)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list status checks")
		writeError(w, http.StatusInternalServerError, "Failed to list status checks")
		return
	}
	if checks == nil {
		checks = []*models.StatusCheck{}
	}

	writeJSON(w, http.StatusOK, checks)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
