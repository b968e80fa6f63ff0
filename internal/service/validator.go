package service

import (
	"fmt"
	"regexp"
	"strings"
)

// RejectReason classifies why a query was refused admission.
type RejectReason string

const (
	ReasonEmpty              RejectReason = "empty"
	ReasonTooLong            RejectReason = "too_long"
	ReasonNotReadOnly        RejectReason = "not_read_only"
	ReasonForbiddenKeyword   RejectReason = "forbidden_keyword"
	ReasonMultipleStatements RejectReason = "multiple_statements"
)

// Outcome is the result of validating one raw query text.
type Outcome struct {
	Valid   bool
	Reason  RejectReason
	Keyword string // set when Reason is ReasonForbiddenKeyword
	Message string // human-readable, safe to return to the student
}

// Statement types and session-control commands that must never reach the
// sandbox. Matched as whole tokens against the normalized text, so
// identifiers like created_at do not trip the CREATE entry. Derived from
// Postgres DDL/DML and session-control vocabulary; do not extend casually.
var forbiddenKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "DROP": true,
	"TRUNCATE": true, "ALTER": true, "CREATE": true, "REPLACE": true,
	"GRANT": true, "REVOKE": true, "EXEC": true, "EXECUTE": true,
	"CALL": true, "DO": true, "COPY": true, "VACUUM": true,
	"REINDEX": true, "CLUSTER": true, "COMMENT": true, "SECURITY": true,
	"LOCK": true, "UNLISTEN": true, "NOTIFY": true, "LISTEN": true,
	"SET": true, "RESET": true, "SHOW": true,
}

var (
	lineCommentRE  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
)

// Validator is the pure text-level admission gate in front of the sandbox.
// It never touches the database and holds no mutable state.
type Validator struct {
	maxLength int
}

func NewValidator(maxLength int) *Validator {
	if maxLength <= 0 {
		maxLength = 2000
	}
	return &Validator{maxLength: maxLength}
}

// Validate decides whether raw may be executed. The normalized form is used
// for keyword and shape checks only; callers execute and persist the raw
// text untouched.
func (v *Validator) Validate(raw string) Outcome {
	if strings.TrimSpace(raw) == "" {
		return reject(ReasonEmpty, "Query cannot be empty.")
	}
	if len(raw) > v.maxLength {
		return reject(ReasonTooLong, fmt.Sprintf("Query exceeds maximum length of %d characters.", v.maxLength))
	}

	normalized := normalize(raw)

	// Keyword check runs before the shape check so that "DROP TABLE x" is
	// reported as the forbidden keyword it is, not as a generic non-SELECT.
	for _, token := range tokenize(normalized) {
		if forbiddenKeywords[token] {
			out := reject(ReasonForbiddenKeyword, fmt.Sprintf("Forbidden keyword detected: %q.", token))
			out.Keyword = token
			return out
		}
	}

	if !strings.HasPrefix(normalized, "SELECT") && !strings.HasPrefix(normalized, "WITH") {
		return reject(ReasonNotReadOnly, "Only SELECT queries are allowed.")
	}

	// One trailing semicolon is tolerated; any other semicolon means a
	// second statement.
	withoutTrailing := strings.TrimSuffix(strings.TrimRight(raw, " \t\r\n"), ";")
	if strings.Contains(withoutTrailing, ";") {
		return reject(ReasonMultipleStatements, "Multiple statements are not allowed.")
	}

	return Outcome{Valid: true}
}

func reject(reason RejectReason, message string) Outcome {
	return Outcome{Reason: reason, Message: message}
}

func normalize(sql string) string {
	s := lineCommentRE.ReplaceAllString(sql, " ")
	s = blockCommentRE.ReplaceAllString(s, " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

func tokenize(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return false
		}
		return true
	})
}
