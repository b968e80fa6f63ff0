package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ciphersql/sandbox/internal/service"
)

type stubExecutor struct {
	result service.ExecutionResult
	gotSQL string
	called bool
}

func (s *stubExecutor) Execute(_ context.Context, sql string) service.ExecutionResult {
	s.called = true
	s.gotSQL = sql
	return s.result
}

type stubRecorder struct {
	assignmentID string
	sessionID    string
	sqlText      string
	called       bool
}

func (s *stubRecorder) Record(assignmentID, sessionID, sqlText string, _ service.ExecutionResult) {
	s.called = true
	s.assignmentID = assignmentID
	s.sessionID = sessionID
	s.sqlText = sqlText
}

func postQuery(t *testing.T, h *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/query/execute", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Execute(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
	}
	return payload
}

func newTestHandler(result service.ExecutionResult) (*QueryHandler, *stubExecutor, *stubRecorder) {
	exec := &stubExecutor{result: result}
	rec := &stubRecorder{}
	return NewQueryHandler(service.NewValidator(0), exec, rec, 500), exec, rec
}

func manyRows(n int) service.ExecutionResult {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"id": i}
	}
	return service.ExecutionResult{
		Rows:     rows,
		Fields:   []service.Field{{Name: "id", DataTypeID: 23}},
		RowCount: n,
	}
}

func TestExecuteRejectsMissingSQL(t *testing.T) {
	h, exec, _ := newTestHandler(service.ExecutionResult{})

	rr := postQuery(t, h, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if exec.called {
		t.Fatal("executor must not run for missing sql")
	}
}

func TestExecuteRejectsForbiddenStatement(t *testing.T) {
	h, exec, rec := newTestHandler(service.ExecutionResult{})

	rr := postQuery(t, h, `{"sql":"DROP TABLE employees"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	payload := decodeResponse(t, rr)
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload)
	}
	if !strings.Contains(payload["error"].(string), "DROP") {
		t.Fatalf("expected the keyword in the message, got %v", payload["error"])
	}
	if exec.called {
		t.Fatal("rejected statements must never reach the executor")
	}
	if rec.called {
		t.Fatal("rejected statements must not be recorded as attempts")
	}
}

func TestExecuteReturnsShapedSuccess(t *testing.T) {
	h, exec, rec := newTestHandler(manyRows(600))

	rr := postQuery(t, h, `{"sql":"SELECT * FROM employees;","assignmentId":"a1","sessionId":"s1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	payload := decodeResponse(t, rr)
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload)
	}
	if got := len(payload["rows"].([]any)); got != 500 {
		t.Fatalf("expected 500 rows after truncation, got %d", got)
	}
	if payload["rowCount"].(float64) != 600 {
		t.Fatalf("expected rowCount=600, got %v", payload["rowCount"])
	}
	if payload["truncated"] != true || payload["truncatedAt"].(float64) != 500 {
		t.Fatalf("expected truncated at 500, got %v / %v", payload["truncated"], payload["truncatedAt"])
	}

	if exec.gotSQL != "SELECT * FROM employees;" {
		t.Fatalf("executor must receive the raw SQL, got %q", exec.gotSQL)
	}
	if !rec.called || rec.assignmentID != "a1" || rec.sessionID != "s1" {
		t.Fatalf("recorder not invoked with identifiers: %+v", rec)
	}
	if rec.sqlText != "SELECT * FROM employees;" {
		t.Fatalf("recorder must receive the raw SQL, got %q", rec.sqlText)
	}
}

func TestExecuteReturnsExecutionFailureWithStatus200(t *testing.T) {
	h, _, _ := newTestHandler(service.ExecutionResult{Failure: &service.ExecutionFailure{
		Message:  "ERROR: canceling statement due to statement timeout (SQLSTATE 57014)",
		Category: service.CategoryTimeout,
	}})

	rr := postQuery(t, h, `{"sql":"SELECT pg_sleep(60)"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("execution failures are feedback, expected 200, got %d", rr.Code)
	}

	payload := decodeResponse(t, rr)
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload)
	}
	if payload["error"] != "canceling statement due to statement timeout" {
		t.Fatalf("expected cleaned timeout message, got %q", payload["error"])
	}
	if _, ok := payload["rows"]; ok {
		t.Fatal("failure payload must not include rows")
	}
}

func TestExecuteRejectsMalformedJSON(t *testing.T) {
	h, _, _ := newTestHandler(service.ExecutionResult{})
	rr := postQuery(t, h, `{"sql":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rr.Code)
	}
}
