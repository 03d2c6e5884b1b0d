package domain

import "testing"

func TestResultMergeAndBlocking(t *testing.T) {
	var res Result
	res.Merge(Result{})
	if len(res.Violations) != 0 {
		t.Fatalf("merge of empty result should be a no-op")
	}
	res.Merge(Result{Violations: []Violation{{Rule: "r1", Severity: SeverityWarn}}})
	if res.HasBlocking() {
		t.Fatalf("warn severity should not block")
	}
	res.Merge(Result{Violations: []Violation{{Rule: "r2", Severity: SeverityBlock}}})
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result after merging block violation")
	}
	if len(res.Violations) != 2 {
		t.Fatalf("violations = %d, want 2", len(res.Violations))
	}
}

func TestRuleViolationErrorMessage(t *testing.T) {
	err := RuleViolationError{}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
}
