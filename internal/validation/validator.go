// Package validation defines the condition validation hook and its
// catalog-driven implementation.
//
// The DSL engine depends only on the ConditionValidator interface. Pure
// dsl.Parse and dsl.Render never validate; dsl.Builder validates when it is
// given a validator, and services may call validators directly.
package validation

import (
	"fmt"

	"github.com/solatis/tagkeeper/internal/types"
)

// ValidationResult is a valid/invalid verdict with a reason for invalid ones.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Valid is the result for a condition or tree that passed validation.
var Valid = ValidationResult{Valid: true}

// Invalid builds a failing result.
func Invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Reason: fmt.Sprintf(format, args...)}
}

// ConditionValidator checks conditions and trees against business rules.
// Implementations must be safe for concurrent use.
type ConditionValidator interface {
	// ValidateCondition checks a condition as it stands.
	ValidateCondition(c *types.Condition) ValidationResult
	// ValidateConditionValue checks a condition as if its value were proposed.
	ValidateConditionValue(c *types.Condition, proposed any) ValidationResult
	// ValidateTree checks every condition of a tree. A nil tree is valid.
	ValidateTree(root *types.LogicalOperator) ValidationResult
}

// AllowAll accepts every condition and tree.
type AllowAll struct{}

func (AllowAll) ValidateCondition(*types.Condition) ValidationResult { return Valid }

func (AllowAll) ValidateConditionValue(*types.Condition, any) ValidationResult { return Valid }

func (AllowAll) ValidateTree(*types.LogicalOperator) ValidationResult { return Valid }

var _ ConditionValidator = AllowAll{}
