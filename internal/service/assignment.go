package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ciphersql/sandbox/internal/model"
)

// AssignmentService reads assignment metadata from the content store.
type AssignmentService struct {
	db *sql.DB
}

func NewAssignmentService(db *sql.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// List returns active assignments in display order. The listing is
// lightweight: question text and table metadata are left out.
func (s *AssignmentService) List(ctx context.Context) ([]model.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT assignment_id, title, description, difficulty, tags, display_order, created_at
		FROM assignments
		WHERE is_active = 1
		ORDER BY display_order, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		var tags string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Difficulty, &tags, &a.Order, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.IsActive = true
		a.Tags = decodeStringList(tags)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one active assignment, or nil when it does not exist or has
// been deactivated.
func (s *AssignmentService) Get(ctx context.Context, id string) (*model.Assignment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT assignment_id, title, description, question, difficulty, tags,
		       tables_used, expected_columns, display_order, created_at, updated_at
		FROM assignments
		WHERE assignment_id = ? AND is_active = 1`, id)

	var a model.Assignment
	var tags, tables, expected string
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Question, &a.Difficulty,
		&tags, &tables, &expected, &a.Order, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.IsActive = true
	a.Tags = decodeStringList(tags)
	a.Tables = decodeStringList(tables)
	a.ExpectedColumns = decodeStringList(expected)
	return &a, nil
}

// ReplaceAll swaps the full assignment set, used by the seeder.
func (s *AssignmentService) ReplaceAll(ctx context.Context, assignments []model.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, a := range assignments {
		id := a.ID
		if id == "" {
			id = uuid.NewString()
		}
		active := 0
		if a.IsActive {
			active = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assignments (assignment_id, title, description, question, difficulty,
			                         tags, tables_used, expected_columns, is_active, display_order,
			                         created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, a.Title, a.Description, a.Question, a.Difficulty,
			encodeStringList(a.Tags), encodeStringList(a.Tables), encodeStringList(a.ExpectedColumns),
			active, a.Order, now, now)
		if err != nil {
			return fmt.Errorf("insert assignment %q: %w", a.Title, err)
		}
	}
	return tx.Commit()
}

func decodeStringList(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}
