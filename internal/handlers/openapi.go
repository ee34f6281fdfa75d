package handlers

import (
	"fmt"
	"net/http"

	"github.com/benvon/content-api/api/openapi"
	"github.com/benvon/content-api/internal/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// OpenAPIHandler serves the embedded API description
type OpenAPIHandler struct {
	logger *zap.Logger
}

// NewOpenAPIHandler creates a new OpenAPI handler
func NewOpenAPIHandler(logger *zap.Logger) *OpenAPIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAPIHandler{logger: logger}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api-docs", h.ServeJSON).Methods("GET")
	r.HandleFunc("/api-docs/openapi.yaml", h.ServeYAML).Methods("GET")
}

// ServeYAML serves the OpenAPI document in YAML format
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(openapi.YAML()); err != nil {
		h.logger.Debug("failed_to_write_response", zap.Error(err), zap.String("path", r.URL.Path))
	}
}

// ServeJSON serves the OpenAPI document in JSON format
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Document()
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("serve api docs: %w", err), h.logger)
		return
	}
	respondJSON(w, r, http.StatusOK, doc, h.logger)
}
