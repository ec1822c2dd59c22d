// internal/types/conditions.go
package types

import "slices"

/*
 * Logical tree model for targeting conditions.
 *
 * A tree is one root LogicalOperator. Each node keeps its leaf comparisons
 * and its nested groups in two ordered lists; the relative order inside each
 * list is the order members were added (parse order, or call order when a
 * tree is built by hand).
 *
 * Key types:
 *   - LogicalOperatorType: AND or OR. There is no NOT node; negation lives in
 *     comparison operator names such as notEqualTo.
 *   - LogicalOperator: group node, kind fixed at construction
 *   - Condition: single "tag.operator value" comparison
 */

// LogicalOperatorType is the boolean connective of a group.
type LogicalOperatorType string

const (
	AND LogicalOperatorType = "AND"
	OR  LogicalOperatorType = "OR"
)

// ParseLogicalOperatorType converts a DSL keyword to a LogicalOperatorType.
// Matching is exact: the keywords are upper case in the DSL.
func ParseLogicalOperatorType(s string) (LogicalOperatorType, bool) {
	switch LogicalOperatorType(s) {
	case AND:
		return AND, true
	case OR:
		return OR, true
	default:
		return "", false
	}
}

// Valid reports whether t is AND or OR.
func (t LogicalOperatorType) Valid() bool {
	return t == AND || t == OR
}

// String returns the DSL keyword.
func (t LogicalOperatorType) String() string {
	return string(t)
}

// Condition is a leaf comparison of a tag against a scalar value.
// The legal operators for a tag depend on its declared value type, which is
// checked by internal/validation rather than here.
type Condition struct {
	TagKey   string
	Operator string
	Value    any
}

// NewCondition creates a condition.
func NewCondition(tagKey, operator string, value any) *Condition {
	return &Condition{TagKey: tagKey, Operator: operator, Value: value}
}

// LogicalOperator is a group node: AND or OR over its conditions and nested groups.
type LogicalOperator struct {
	kind       LogicalOperatorType
	conditions []*Condition
	operators  []*LogicalOperator
}

// NewLogicalOperator creates an empty group of the given kind.
func NewLogicalOperator(kind LogicalOperatorType) *LogicalOperator {
	return &LogicalOperator{kind: kind}
}

// Type returns the group's connective.
func (o *LogicalOperator) Type() LogicalOperatorType {
	return o.kind
}

// AddCondition appends a leaf condition.
func (o *LogicalOperator) AddCondition(c *Condition) {
	o.conditions = append(o.conditions, c)
}

// AddLogicalOperator appends a nested group.
func (o *LogicalOperator) AddLogicalOperator(child *LogicalOperator) {
	o.operators = append(o.operators, child)
}

// Conditions returns the direct leaf children in insertion order.
// The returned slice is a copy; the conditions themselves are shared.
func (o *LogicalOperator) Conditions() []*Condition {
	return slices.Clone(o.conditions)
}

// LogicalOperators returns the direct nested groups in insertion order.
// The returned slice is a copy; the groups themselves are shared.
func (o *LogicalOperator) LogicalOperators() []*LogicalOperator {
	return slices.Clone(o.operators)
}

// IsEmpty reports whether the group has no members.
func (o *LogicalOperator) IsEmpty() bool {
	return len(o.conditions) == 0 && len(o.operators) == 0
}

// Walk visits every condition depth-first: a node's conditions before its
// nested groups, matching render order. Walk stops at the first non-nil
// error returned by fn and returns it.
func (o *LogicalOperator) Walk(fn func(*Condition) error) error {
	for _, c := range o.conditions {
		if err := fn(c); err != nil {
			return err
		}
	}
	for _, child := range o.operators {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
