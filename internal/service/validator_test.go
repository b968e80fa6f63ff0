package service

import "testing"

func TestValidateAcceptsPlainSelect(t *testing.T) {
	v := NewValidator(0)
	out := v.Validate("SELECT * FROM employees;")
	if !out.Valid {
		t.Fatalf("expected accept, got reason=%s message=%q", out.Reason, out.Message)
	}
}

func TestValidateAcceptsCTE(t *testing.T) {
	v := NewValidator(0)
	out := v.Validate("WITH top AS (SELECT * FROM employees) SELECT name FROM top")
	if !out.Valid {
		t.Fatalf("expected accept, got reason=%s", out.Reason)
	}
}

func TestValidateRejectsEmptyInput(t *testing.T) {
	v := NewValidator(0)
	for _, input := range []string{"", "   ", "\n\t  "} {
		out := v.Validate(input)
		if out.Valid || out.Reason != ReasonEmpty {
			t.Fatalf("input %q: expected ReasonEmpty, got valid=%v reason=%s", input, out.Valid, out.Reason)
		}
	}
}

func TestValidateRejectsOversizedInput(t *testing.T) {
	v := NewValidator(50)
	long := "SELECT '"
	for len(long) < 60 {
		long += "x"
	}
	long += "'"
	out := v.Validate(long)
	if out.Valid || out.Reason != ReasonTooLong {
		t.Fatalf("expected ReasonTooLong, got valid=%v reason=%s", out.Valid, out.Reason)
	}
}

func TestValidateRejectsNonSelect(t *testing.T) {
	v := NewValidator(0)
	for _, input := range []string{
		"EXPLAIN SELECT 1",
		"BEGIN",
		"TABLE employees",
	} {
		out := v.Validate(input)
		if out.Valid || out.Reason != ReasonNotReadOnly {
			t.Fatalf("input %q: expected ReasonNotReadOnly, got valid=%v reason=%s", input, out.Valid, out.Reason)
		}
	}
}

func TestValidateRejectsForbiddenKeywords(t *testing.T) {
	v := NewValidator(0)

	cases := []struct {
		input   string
		keyword string
	}{
		{"DROP TABLE employees", "DROP"},
		{"SELECT * FROM employees; DELETE FROM employees", "DELETE"},
		{"select * from pg_shadow where usename = 'x'; update pg_shadow set passwd='y'", "UPDATE"},
		{"TRUNCATE orders", "TRUNCATE"},
		{"SELECT 1; grant all on employees to public", "GRANT"},
	}
	for _, tc := range cases {
		out := v.Validate(tc.input)
		if out.Valid || out.Reason != ReasonForbiddenKeyword {
			t.Fatalf("input %q: expected ForbiddenKeyword, got valid=%v reason=%s", tc.input, out.Valid, out.Reason)
		}
		if out.Keyword != tc.keyword {
			t.Fatalf("input %q: expected keyword %s, got %s", tc.input, tc.keyword, out.Keyword)
		}
	}
}

func TestValidateKeywordMatchesWholeTokensOnly(t *testing.T) {
	v := NewValidator(0)

	// created_at contains CREATE, updated_by contains UPDATE; neither is a
	// standalone token and neither may trip the gate.
	out := v.Validate("SELECT created_at, updated_by, resetting, showcase FROM employees")
	if !out.Valid {
		t.Fatalf("identifier containing keyword was rejected: reason=%s keyword=%s", out.Reason, out.Keyword)
	}
}

func TestValidateRejectsMultipleStatements(t *testing.T) {
	v := NewValidator(0)
	out := v.Validate("SELECT 1; SELECT 2")
	if out.Valid || out.Reason != ReasonMultipleStatements {
		t.Fatalf("expected ReasonMultipleStatements, got valid=%v reason=%s", out.Valid, out.Reason)
	}
}

func TestValidateAllowsSingleTrailingSemicolon(t *testing.T) {
	v := NewValidator(0)
	for _, input := range []string{
		"SELECT 1;",
		"SELECT 1;   ",
		"SELECT 1;\n",
	} {
		if out := v.Validate(input); !out.Valid {
			t.Fatalf("input %q: expected accept, got reason=%s", input, out.Reason)
		}
	}
}

func TestValidateStripsCommentsBeforeShapeCheck(t *testing.T) {
	v := NewValidator(0)
	out := v.Validate("-- preamble\n/* block */ SELECT 1")
	if !out.Valid {
		t.Fatalf("expected accept after comment stripping, got reason=%s", out.Reason)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	v := NewValidator(0)
	input := "SELECT 1; SELECT 2"
	first := v.Validate(input)
	second := v.Validate(input)
	if first != second {
		t.Fatalf("validation not idempotent: %+v vs %+v", first, second)
	}
}
