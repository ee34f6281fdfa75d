package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/benvon/content-api/internal/content"
	"github.com/benvon/content-api/internal/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const welcomeMessage = "Welcome to the Content API"

// ContentHandler serves the welcome message and the content collections
type ContentHandler struct {
	content *content.Provider
	version string
	logger  *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(p *content.Provider, version string, logger *zap.Logger) *ContentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentHandler{content: p, version: version, logger: logger}
}

// RegisterRoutes registers content routes
func (h *ContentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Welcome).Methods("GET")
	r.HandleFunc("/jokes", h.ListJokes).Methods("GET")
	r.HandleFunc("/quotes", h.ListQuotes).Methods("GET")
	r.HandleFunc("/facts", h.ListFacts).Methods("GET")
}

// WelcomeResponse is the body of GET /
type WelcomeResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// JokesResponse is the body of GET /jokes
type JokesResponse struct {
	Jokes    []string `json:"jokes"`
	Total    int      `json:"total"`
	Returned int      `json:"returned"`
}

// Welcome handles GET /
func (h *ContentHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, WelcomeResponse{
		Message:   welcomeMessage,
		Timestamp: now(),
		Version:   h.version,
	}, h.logger)
}

// ListJokes handles GET /jokes. A positive integer limit truncates the list;
// anything else returns every joke. Failures are answered with a generic 500
// here instead of escaping to the pipeline.
func (h *ContentHandler) ListJokes(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("list_jokes_failed", zap.Any("error", rec))
			middleware.WriteError(w, r, fmt.Errorf("list jokes: %w", middleware.ErrHandlerFailure), h.logger)
		}
	}()

	jokes, total := h.content.Jokes(parseLimit(r.URL.Query().Get("limit")))
	respondJSON(w, r, http.StatusOK, JokesResponse{
		Jokes:    jokes,
		Total:    total,
		Returned: len(jokes),
	}, h.logger)
}

// ListQuotes handles GET /quotes
func (h *ContentHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string][]string{"quotes": h.content.Quotes()}, h.logger)
}

// ListFacts handles GET /facts
func (h *ContentHandler) ListFacts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string][]string{"facts": h.content.Facts()}, h.logger)
}

// parseLimit returns 0 (no limit) for missing, non-numeric or non-positive values
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
