package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ciphersql/sandbox/internal/model"
)

// AttemptService writes attempt records to the content store. The gateway
// only ever writes attempts; reading them back is an instructor concern
// outside this service.
type AttemptService struct {
	db *sql.DB
}

func NewAttemptService(db *sql.DB) *AttemptService {
	return &AttemptService{db: db}
}

func (s *AttemptService) InsertAttempt(ctx context.Context, a model.Attempt) error {
	succeeded := 0
	if a.Succeeded {
		succeeded = 1
	}
	var errMsg any
	if a.ErrorMessage != "" {
		errMsg = a.ErrorMessage
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (attempt_id, assignment_id, session_id, sql_text,
		                      succeeded, error_message, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), a.AssignmentID, a.SessionID, a.SQL,
		succeeded, errMsg, a.RowCount, a.CreatedAt.Format(time.RFC3339))
	return err
}
