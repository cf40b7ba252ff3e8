package httpserver

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/nvarley/querycache/internal/gateway"
	"github.com/nvarley/querycache/pkg/fingerprint"
	"go.uber.org/zap"
)

// QueryHandler handles query resolution and cache administration requests.
type QueryHandler struct {
	gateway *gateway.Service
	logger  *zap.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(gw *gateway.Service, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		gateway: gw,
		logger:  logger,
	}
}

// QueryRequest is the body for /v1/query and /v1/cache/invalidate.
type QueryRequest struct {
	Query   string                 `json:"query"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// QueryResponse is the response for /v1/query.
type QueryResponse struct {
	Result interface{} `json:"result"`
	Key    string      `json:"key"`
	Cached bool        `json:"cached"`
}

// InvalidateResponse is the response for /v1/cache/invalidate.
type InvalidateResponse struct {
	Invalidated bool `json:"invalidated"`
}

// SweepResponse is the response for /v1/cache/sweep.
type SweepResponse struct {
	Removed int `json:"removed"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleQuery handles POST /v1/query requests.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.gateway.Resolve(r.Context(), req.Query, req.Context)
	if err != nil {
		var serr *fingerprint.SerializationError
		if errors.As(err, &serr) {
			h.writeError(w, serr.Error(), http.StatusBadRequest)
			return
		}

		h.logger.Error("query-resolve-failed", zap.Error(err))
		h.writeError(w, "resolve failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, QueryResponse{
		Result: result.Value,
		Key:    result.Key,
		Cached: result.Cached,
	})
}

// HandleInvalidate handles POST /v1/cache/invalidate requests.
func (h *QueryHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	removed, err := h.gateway.Invalidate(req.Query, req.Context)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, InvalidateResponse{Invalidated: removed})
}

// HandleSweep handles POST /v1/cache/sweep requests.
func (h *QueryHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	removed := h.gateway.SweepExpired()
	h.writeJSON(w, http.StatusOK, SweepResponse{Removed: removed})
}

// HandleClear handles DELETE /v1/cache requests.
func (h *QueryHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.gateway.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *QueryHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*QueryRequest, bool) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid JSON body", http.StatusBadRequest)
		return nil, false
	}

	if req.Query == "" {
		h.writeError(w, "missing required field: query", http.StatusBadRequest)
		return nil, false
	}

	return &req, true
}

func (h *QueryHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response-encode-failed", zap.Error(err))
	}
}

func (h *QueryHandler) writeError(w http.ResponseWriter, msg string, status int) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}
