package handler

import (
	"context"
	"net/http"

	"github.com/ciphersql/sandbox/internal/service"
)

// QueryExecutor runs one validated statement against the sandbox.
type QueryExecutor interface {
	Execute(ctx context.Context, sql string) service.ExecutionResult
}

// AttemptRecorder submits an attempt for fire-and-forget persistence.
type AttemptRecorder interface {
	Record(assignmentID, sessionID, sqlText string, res service.ExecutionResult)
}

type QueryHandler struct {
	validator *service.Validator
	executor  QueryExecutor
	recorder  AttemptRecorder
	maxRows   int
}

func NewQueryHandler(validator *service.Validator, executor QueryExecutor, recorder AttemptRecorder, maxRows int) *QueryHandler {
	return &QueryHandler{validator: validator, executor: executor, recorder: recorder, maxRows: maxRows}
}

type executeRequest struct {
	SQL          string `json:"sql"`
	AssignmentID string `json:"assignmentId"`
	SessionID    string `json:"sessionId"`
}

// POST /api/query/execute
//
// Validation rejects with 400. Anything that reached the database answers
// 200, whether the statement succeeded or failed: a broken query is feedback
// for the student, not a server fault.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if req.SQL == "" {
		writeFailure(w, http.StatusBadRequest, "sql field is required.")
		return
	}

	outcome := h.validator.Validate(req.SQL)
	if !outcome.Valid {
		writeFailure(w, http.StatusBadRequest, outcome.Message)
		return
	}

	res := h.executor.Execute(r.Context(), req.SQL)

	// Best effort, off the response path. The recorder stores the raw
	// submitted SQL, not the normalized form.
	h.recorder.Record(req.AssignmentID, req.SessionID, req.SQL, res)

	writeJSON(w, http.StatusOK, service.Shape(res, h.maxRows).Payload())
}
