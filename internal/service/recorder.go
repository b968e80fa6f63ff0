package service

import (
	"context"
	"log"
	"time"

	"github.com/ciphersql/sandbox/internal/model"
)

// AttemptWriter persists one attempt record.
type AttemptWriter interface {
	InsertAttempt(ctx context.Context, a model.Attempt) error
}

// Recorder persists query attempts off the request path. Submissions never
// block: when the buffer is full the attempt is dropped with a log line.
type Recorder struct {
	store AttemptWriter
	ch    chan model.Attempt
	done  chan struct{}
}

func NewRecorder(store AttemptWriter) *Recorder {
	r := &Recorder{
		store: store,
		ch:    make(chan model.Attempt, 256),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record submits an attempt for background persistence. No-op unless both
// identifiers are present. sqlText is stored exactly as the student sent it.
func (r *Recorder) Record(assignmentID, sessionID, sqlText string, res ExecutionResult) {
	if assignmentID == "" || sessionID == "" {
		return
	}
	a := model.Attempt{
		AssignmentID: assignmentID,
		SessionID:    sessionID,
		SQL:          sqlText,
		Succeeded:    res.Failure == nil,
		RowCount:     res.RowCount,
		CreatedAt:    time.Now().UTC(),
	}
	if res.Failure != nil {
		a.ErrorMessage = res.Failure.Message
	}

	select {
	case r.ch <- a:
	default:
		log.Printf("attempt buffer full, dropping attempt (assignment=%s)", assignmentID)
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for a := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.InsertAttempt(ctx, a); err != nil {
			log.Printf("attempt write: %v", err)
		}
		cancel()
	}
}

// Close drains pending attempts and stops the worker.
func (r *Recorder) Close() {
	close(r.ch)
	<-r.done
}
