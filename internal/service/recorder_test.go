package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ciphersql/sandbox/internal/model"
)

type captureWriter struct {
	mu       sync.Mutex
	attempts []model.Attempt
	fail     bool
}

func (w *captureWriter) InsertAttempt(_ context.Context, a model.Attempt) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("store down")
	}
	w.attempts = append(w.attempts, a)
	return nil
}

func (w *captureWriter) all() []model.Attempt {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.Attempt(nil), w.attempts...)
}

func TestRecorderPersistsCompleteAttempts(t *testing.T) {
	store := &captureWriter{}
	rec := NewRecorder(store)

	failed := ExecutionResult{Failure: &ExecutionFailure{Message: "ERROR: boom (SQLSTATE 42601)", Category: CategoryExecutionError}}
	rec.Record("a1", "s1", "SELECT * FROM employes", failed)
	rec.Record("a1", "s1", "SELECT * FROM employees", successResult(3))
	rec.Close()

	attempts := store.all()
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}

	first := attempts[0]
	if first.Succeeded {
		t.Fatal("failed execution must record succeeded=false")
	}
	if first.ErrorMessage != "ERROR: boom (SQLSTATE 42601)" {
		t.Fatalf("attempt must store the raw error, got %q", first.ErrorMessage)
	}
	if first.SQL != "SELECT * FROM employes" {
		t.Fatalf("attempt must store the exact submitted SQL, got %q", first.SQL)
	}

	second := attempts[1]
	if !second.Succeeded || second.RowCount != 3 || second.ErrorMessage != "" {
		t.Fatalf("unexpected success attempt: %+v", second)
	}
}

func TestRecorderSkipsAttemptsWithoutBothIdentifiers(t *testing.T) {
	store := &captureWriter{}
	rec := NewRecorder(store)

	rec.Record("", "s1", "SELECT 1", successResult(1))
	rec.Record("a1", "", "SELECT 1", successResult(1))
	rec.Record("", "", "SELECT 1", successResult(1))
	rec.Close()

	if got := len(store.all()); got != 0 {
		t.Fatalf("expected no attempts without both identifiers, got %d", got)
	}
}

func TestRecorderSwallowsStoreFailures(t *testing.T) {
	store := &captureWriter{fail: true}
	rec := NewRecorder(store)

	// Must not panic or block the caller.
	rec.Record("a1", "s1", "SELECT 1", successResult(1))
	rec.Close()
}
