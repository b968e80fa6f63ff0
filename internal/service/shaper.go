package service

import (
	"regexp"
	"strings"
)

// Redaction patterns for engine error text. Deliberately a short allow-list:
// an unrecognised error format is shown as-is rather than over-scrubbed.
var (
	atCharacterRE = regexp.MustCompile(`\s+at character \d+`)
	errorPrefixRE = regexp.MustCompile(`(?i)^ERROR:\s+`)
	sqlstateRE    = regexp.MustCompile(`\s+\(SQLSTATE [0-9A-Z]{5}\)$`)
)

// ShapedResponse is the caller-facing view of an execution result.
type ShapedResponse struct {
	Success     bool
	Rows        []map[string]any
	RowCount    int
	Fields      []Field
	Truncated   bool
	TruncatedAt *int
	Error       string // cleaned message, only set when Success is false
}

// Shape truncates oversized results and cleans failure text. RowCount keeps
// the full result size even when the row payload is cut at maxRows.
func Shape(res ExecutionResult, maxRows int) ShapedResponse {
	if res.Failure != nil {
		return ShapedResponse{Error: cleanErrorMessage(res.Failure.Message)}
	}

	rows := res.Rows
	truncated := res.RowCount > maxRows
	var truncatedAt *int
	if truncated {
		rows = rows[:maxRows]
		at := maxRows
		truncatedAt = &at
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	return ShapedResponse{
		Success:     true,
		Rows:        rows,
		RowCount:    res.RowCount,
		Fields:      res.Fields,
		Truncated:   truncated,
		TruncatedAt: truncatedAt,
	}
}

// Payload renders the response body for POST /api/query/execute. Execution
// failures still ship with HTTP 200; they are feedback, not faults.
func (r ShapedResponse) Payload() map[string]any {
	if !r.Success {
		return map[string]any{"success": false, "error": r.Error}
	}
	fields := r.Fields
	if fields == nil {
		fields = []Field{}
	}
	var truncatedAt any
	if r.TruncatedAt != nil {
		truncatedAt = *r.TruncatedAt
	}
	return map[string]any{
		"success":     true,
		"rows":        r.Rows,
		"rowCount":    r.RowCount,
		"fields":      fields,
		"truncated":   r.Truncated,
		"truncatedAt": truncatedAt,
	}
}

func cleanErrorMessage(msg string) string {
	if msg == "" {
		return "Query execution failed."
	}
	msg = atCharacterRE.ReplaceAllString(msg, "")
	msg = errorPrefixRE.ReplaceAllString(msg, "")
	msg = sqlstateRE.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}
