package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/ciphersql/sandbox/internal/middleware"
	"github.com/ciphersql/sandbox/internal/service"
)

// HintProvider generates one tutoring hint.
type HintProvider interface {
	Hint(ctx context.Context, req service.HintRequest) (string, error)
}

type HintHandler struct {
	hints HintProvider
}

func NewHintHandler(hints HintProvider) *HintHandler {
	return &HintHandler{hints: hints}
}

// POST /api/hint
func (h *HintHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req service.HintRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if req.Question == "" {
		writeFailure(w, http.StatusBadRequest, "question field is required.")
		return
	}

	hint, err := h.hints.Hint(r.Context(), req)
	if err != nil {
		log.Printf("[%s] hint: %v", middleware.TraceIDFromCtx(r.Context()), err)
		writeFailure(w, http.StatusServiceUnavailable,
			"Hint service is temporarily unavailable. Check your API key configuration.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"hint":    hint,
	})
}
