package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

// sampleRowLimit caps how many rows the data viewer shows per table.
const sampleRowLimit = 10

var identifierRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PreviewColumn mirrors information_schema.columns for the data viewer.
type PreviewColumn struct {
	Name       string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}

// TablePreview is the schema plus a handful of sample rows for one table.
// A per-table error is reported in place of the data, never as a request
// failure.
type TablePreview struct {
	Columns  []PreviewColumn  `json:"columns,omitempty"`
	Rows     []map[string]any `json:"rows,omitempty"`
	RowCount int              `json:"rowCount,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// PreviewService reads table schemas and sample rows from the sandbox for
// the student-facing data viewer.
type PreviewService struct {
	pool *pgxpool.Pool
}

func NewPreviewService(pool *pgxpool.Pool) *PreviewService {
	return &PreviewService{pool: pool}
}

// Previews fetches a preview for each named table. Names that are not plain
// identifiers are skipped; they cannot be quoted safely into the sample
// query.
func (s *PreviewService) Previews(ctx context.Context, tables []string) map[string]TablePreview {
	out := make(map[string]TablePreview, len(tables))
	for _, table := range tables {
		if !identifierRE.MatchString(table) {
			continue
		}
		preview, err := s.previewTable(ctx, table)
		if err != nil {
			out[table] = TablePreview{Error: cleanErrorMessage(err.Error())}
			continue
		}
		out[table] = preview
	}
	return out
}

func (s *PreviewService) previewTable(ctx context.Context, table string) (TablePreview, error) {
	columns, err := s.tableColumns(ctx, table)
	if err != nil {
		return TablePreview{}, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %q LIMIT %d`, table, sampleRowLimit))
	if err != nil {
		return TablePreview{}, err
	}
	defer rows.Close()

	sample, err := collectRows(rows, fieldsOf(rows))
	if err != nil {
		return TablePreview{}, err
	}

	return TablePreview{Columns: columns, Rows: sample, RowCount: len(sample)}, nil
}

func (s *PreviewService) tableColumns(ctx context.Context, table string) ([]PreviewColumn, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []PreviewColumn
	for rows.Next() {
		var c PreviewColumn
		if err := rows.Scan(&c.Name, &c.DataType, &c.IsNullable); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
