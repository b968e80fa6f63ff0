package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ciphersql/sandbox/internal/middleware"
	"github.com/ciphersql/sandbox/internal/service"
)

// TablePreviewer fetches schema + sample rows for the data viewer.
type TablePreviewer interface {
	Previews(ctx context.Context, tables []string) map[string]service.TablePreview
}

type AssignmentHandler struct {
	assignments *service.AssignmentService
	previews    TablePreviewer
}

func NewAssignmentHandler(assignments *service.AssignmentService, previews TablePreviewer) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, previews: previews}
}

// GET /api/assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignments.List(r.Context())
	if err != nil {
		log.Printf("[%s] list assignments: %v", middleware.TraceIDFromCtx(r.Context()), err)
		writeFailure(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"assignments": assignments,
	})
}

// GET /api/assignments/{assignment_id}
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignment_id")

	assignment, err := h.assignments.Get(r.Context(), id)
	if err != nil {
		log.Printf("[%s] get assignment %s: %v", middleware.TraceIDFromCtx(r.Context()), id, err)
		writeFailure(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}
	if assignment == nil {
		writeFailure(w, http.StatusNotFound, "Assignment not found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"assignment":    assignment,
		"tablePreviews": h.previews.Previews(r.Context(), assignment.Tables),
	})
}
