package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseLogicalOperatorType(t *testing.T) {
	tests := []struct {
		in     string
		want   LogicalOperatorType
		wantOK bool
	}{
		{in: "AND", want: AND, wantOK: true},
		{in: "OR", want: OR, wantOK: true},
		{in: "and", wantOK: false},
		{in: "NOT", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseLogicalOperatorType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLogicalOperatorType(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLogicalOperator_ChildrenAreCopies(t *testing.T) {
	root := NewLogicalOperator(AND)
	root.AddCondition(NewCondition("age", "equalTo", 3))
	root.AddLogicalOperator(NewLogicalOperator(OR))

	conds := root.Conditions()
	conds[0] = nil
	ops := root.LogicalOperators()
	ops[0] = nil

	if root.Conditions()[0] == nil {
		t.Error("Conditions() exposed internal slice")
	}
	if root.LogicalOperators()[0] == nil {
		t.Error("LogicalOperators() exposed internal slice")
	}
}

func TestLogicalOperator_IsEmpty(t *testing.T) {
	root := NewLogicalOperator(OR)
	if !root.IsEmpty() {
		t.Error("IsEmpty() = false for new group")
	}
	root.AddLogicalOperator(NewLogicalOperator(AND))
	if root.IsEmpty() {
		t.Error("IsEmpty() = true for group with nested group")
	}
}

func TestLogicalOperator_Walk(t *testing.T) {
	inner := NewLogicalOperator(OR)
	inner.AddCondition(NewCondition("b", "equalTo", 2))
	root := NewLogicalOperator(AND)
	root.AddLogicalOperator(inner)
	root.AddCondition(NewCondition("a", "equalTo", 1))
	root.AddCondition(NewCondition("c", "equalTo", 3))

	var seen []string
	if err := root.Walk(func(c *Condition) error {
		seen = append(seen, c.TagKey)
		return nil
	}); err != nil {
		t.Fatalf("Walk() error = %v, want nil", err)
	}
	if got := len(seen); got != 3 || seen[0] != "a" || seen[1] != "c" || seen[2] != "b" {
		t.Errorf("Walk() order = %v, want [a c b]", seen)
	}

	stop := errors.New("stop")
	calls := 0
	err := root.Walk(func(*Condition) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Walk() = %v after %d calls, want stop after 1", err, calls)
	}
}

func TestConditionalExpressionGUID(t *testing.T) {
	before := time.Now().Add(-time.Second)
	guid := NewConditionalExpressionGUID()

	parsed, err := ParseConditionalExpressionGUID(guid)
	if err != nil {
		t.Fatalf("ParseConditionalExpressionGUID() error = %v, want nil", err)
	}
	if parsed != guid {
		t.Errorf("ParseConditionalExpressionGUID() = %q, want %q", parsed, guid)
	}
	if ts := GUIDTime(guid); ts.Before(before) {
		t.Errorf("GUIDTime() = %v, want after %v", ts, before)
	}

	if _, err := ParseConditionalExpressionGUID("not-a-guid"); err == nil {
		t.Error("ParseConditionalExpressionGUID(not-a-guid) error = nil, want error")
	}
	if !GUIDTime("not-a-guid").IsZero() {
		t.Error("GUIDTime(not-a-guid) is not zero")
	}
}
