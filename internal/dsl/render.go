package dsl

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/solatis/tagkeeper/internal/types"
)

// Render converts a tree to canonical DSL text. A nil tree renders as "".
//
// Layout, byte for byte:
//
//	document  = " " + group + " "
//	group     = "{ " + KIND + " " + join(members, "  ") + "  }"
//	condition = "{ " + tagKey + "." + operator + " " + literal + " }"
//
// Members are the node's conditions in order, then its nested groups in order.
// Render fails without partial output if any value cannot be expressed.
func Render(root *types.LogicalOperator) (string, error) {
	if root == nil {
		return "", nil
	}
	r := &renderer{}
	r.sb.WriteByte(' ')
	if err := r.group(root); err != nil {
		return "", err
	}
	r.sb.WriteByte(' ')
	return r.sb.String(), nil
}

// renderer accumulates output for a single Render call.
type renderer struct {
	sb strings.Builder
}

func (r *renderer) group(o *types.LogicalOperator) error {
	if o == nil {
		return &types.InvalidConditionTreeError{Reason: "nil logical operator"}
	}
	if !o.Type().Valid() {
		return &types.InvalidConditionTreeError{Reason: fmt.Sprintf("logical operator type %q is not AND or OR", o.Type())}
	}
	r.sb.WriteString("{ ")
	r.sb.WriteString(o.Type().String())
	r.sb.WriteByte(' ')

	first := true
	sep := func() {
		if !first {
			r.sb.WriteString("  ")
		}
		first = false
	}
	for _, c := range o.Conditions() {
		sep()
		if err := r.condition(c); err != nil {
			return err
		}
	}
	for _, child := range o.LogicalOperators() {
		sep()
		if err := r.group(child); err != nil {
			return err
		}
	}

	r.sb.WriteString("  }")
	return nil
}

func (r *renderer) condition(c *types.Condition) error {
	if c == nil {
		return &types.InvalidConditionTreeError{Reason: "nil condition"}
	}
	if !isIdentifier(c.TagKey) {
		return &types.InvalidConditionTreeError{Reason: fmt.Sprintf("tag key %q cannot be written in the DSL", c.TagKey)}
	}
	if !isIdentifier(c.Operator) || strings.Contains(c.Operator, ".") {
		return &types.InvalidConditionTreeError{Reason: fmt.Sprintf("operator %q cannot be written in the DSL for tag %s", c.Operator, c.TagKey)}
	}
	literal, err := formatValue(c.TagKey, c.Value)
	if err != nil {
		return err
	}
	r.sb.WriteString("{ ")
	r.sb.WriteString(c.TagKey)
	r.sb.WriteByte('.')
	r.sb.WriteString(c.Operator)
	r.sb.WriteByte(' ')
	r.sb.WriteString(literal)
	r.sb.WriteString(" }")
	return nil
}

// isIdentifier reports whether s survives tokenizing as part of a single word.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || isDelimiter(r) {
			return false
		}
	}
	return true
}
