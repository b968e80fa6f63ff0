package handler

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/ciphersql/sandbox/internal/middleware"
	"github.com/ciphersql/sandbox/internal/service"
)

type stubPreviewer struct{}

func (stubPreviewer) Previews(context.Context, []string) map[string]service.TablePreview {
	return map[string]service.TablePreview{}
}

func TestListLogsTraceIDOnFailure(t *testing.T) {
	// A closed handle makes every query fail, which is the path that logs.
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Close()

	h := NewAssignmentHandler(service.NewAssignmentService(db), stubPreviewer{})

	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(orig) })

	req := httptest.NewRequest(http.MethodGet, "/api/assignments", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	rr := httptest.NewRecorder()
	middleware.Trace(http.HandlerFunc(h.List)).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from a dead content store, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "[trace-abc] list assignments") {
		t.Fatalf("expected log line tagged with trace id, got %q", buf.String())
	}
}
