package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciphersql/sandbox/internal/config"
)

// FailureCategory classifies an execution failure for logging and metrics.
// It is never exposed to the student; only the message text is.
type FailureCategory string

const (
	CategoryTimeout        FailureCategory = "timeout"
	CategoryExecutionError FailureCategory = "execution_error"
	CategoryPoolExhausted  FailureCategory = "pool_exhausted"
)

// Postgres SQLSTATE for a statement cancelled by statement_timeout.
const sqlstateQueryCanceled = "57014"

// Field describes one result column.
type Field struct {
	Name       string `json:"name"`
	DataTypeID uint32 `json:"dataTypeID"`
}

// ExecutionFailure carries the raw engine message plus its category. The raw
// message is for the attempt log and operator logs; the shaper produces the
// student-facing text.
type ExecutionFailure struct {
	Message  string
	Category FailureCategory
}

// ExecutionResult is the outcome of running one validated statement.
// Failure nil means success. RowCount always reflects the full result size;
// truncation happens later, in the shaper.
type ExecutionResult struct {
	Rows     []map[string]any
	Fields   []Field
	RowCount int
	Failure  *ExecutionFailure
}

// Executor runs validated statements against the sandbox pool with a
// server-side statement timeout and a bounded connection-acquisition wait.
type Executor struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
	acquireTimeout   time.Duration
}

func NewExecutor(pool *pgxpool.Pool, cfg *config.Config) *Executor {
	return &Executor{
		pool:             pool,
		statementTimeout: time.Duration(cfg.StatementTimeoutMS) * time.Millisecond,
		acquireTimeout:   time.Duration(cfg.AcquireTimeoutMS) * time.Millisecond,
	}
}

// Execute runs exactly one already-validated statement. It blocks at most
// acquireTimeout waiting for a connection and statementTimeout (plus a small
// client-side margin) for the statement itself.
func (e *Executor) Execute(ctx context.Context, sql string) ExecutionResult {
	acqCtx, cancelAcq := context.WithTimeout(ctx, e.acquireTimeout)
	defer cancelAcq()

	conn, err := e.pool.Acquire(acqCtx)
	if err != nil {
		log.Printf("sandbox pool acquire: %v", err)
		return ExecutionResult{Failure: &ExecutionFailure{
			Message:  "The sandbox is busy right now. Please try again in a moment.",
			Category: CategoryPoolExhausted,
		}}
	}
	defer conn.Release()

	// Server-enforced wall-clock cap, scoped to this session. The value
	// comes from config, never from user input.
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET statement_timeout = %d", e.statementTimeout.Milliseconds())); err != nil {
		log.Printf("set statement_timeout: %v", err)
		return failureResult(err)
	}

	// Client-side backstop slightly above the server-side cap. If it fires,
	// pgx closes the connection instead of returning it dirty to the pool.
	runCtx, cancelRun := context.WithTimeout(ctx, e.statementTimeout+time.Second)
	defer cancelRun()

	rows, err := conn.Query(runCtx, sql)
	if err != nil {
		return failureResult(err)
	}
	defer rows.Close()

	fields := fieldsOf(rows)
	collected, err := collectRows(rows, fields)
	if err != nil {
		return failureResult(err)
	}

	return ExecutionResult{Rows: collected, Fields: fields, RowCount: len(collected)}
}

func failureResult(err error) ExecutionResult {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		category := CategoryExecutionError
		if pgErr.Code == sqlstateQueryCanceled {
			category = CategoryTimeout
		}
		return ExecutionResult{Failure: &ExecutionFailure{Message: pgErr.Error(), Category: category}}
	case errors.Is(err, context.DeadlineExceeded):
		return ExecutionResult{Failure: &ExecutionFailure{
			Message:  "Query timed out.",
			Category: CategoryTimeout,
		}}
	default:
		return ExecutionResult{Failure: &ExecutionFailure{Message: err.Error(), Category: CategoryExecutionError}}
	}
}

func fieldsOf(rows pgx.Rows) []Field {
	descs := rows.FieldDescriptions()
	fields := make([]Field, len(descs))
	for i, d := range descs {
		fields[i] = Field{Name: d.Name, DataTypeID: d.DataTypeOID}
	}
	return fields
}

// collectRows drains the full row set into ordered name->value maps. The
// caller decides how much of it to return to the client.
func collectRows(rows pgx.Rows, fields []Field) ([]map[string]any, error) {
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			if i < len(values) {
				row[f.Name] = jsonValue(values[i])
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonValue converts pgx-native values into JSON-friendly ones.
func jsonValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case []byte:
		return fmt.Sprintf("\\x%x", val)
	default:
		return v
	}
}
