// Package types provides domain models shared across tagkeeper components.
//
// The logical tree (LogicalOperator, Condition) is the in-memory form of a
// targeting condition. Its textual form is owned by internal/dsl; its stored
// form is ConditionalExpression.ConditionString.
//
// Zero-dependency design: everything except ids.go uses only the standard
// library so the tree model can be shared by the parser, the validators, and
// the transport layer without pulling in their dependencies.
package types

import "time"

// ConditionalExpression is a persisted targeting condition.
// ConditionString always holds canonical DSL text as produced by dsl.Render.
type ConditionalExpression struct {
	GUID            string    `db:"guid" json:"guid"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description,omitempty"`
	ConditionString string    `db:"condition_string" json:"conditionString"`
	Named           bool      `db:"named" json:"named"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Resource limits enforced by the parser so that hostile input cannot exhaust
// the stack or memory of a request worker.
const (
	// MaxExpressionLength bounds the DSL text accepted by the parser.
	// 64KB holds thousands of conditions; larger segments belong in several expressions.
	MaxExpressionLength = 64 * 1024

	// MaxNestingDepth bounds group nesting during recursive descent.
	MaxNestingDepth = 32
)
