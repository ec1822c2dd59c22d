// internal/validation/operators.go
package validation

import (
	"errors"

	"github.com/solatis/tagkeeper/internal/tags"
	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Catalog-driven condition validation.
 *
 * A condition is valid when:
 *   1. its tag resolves in the catalog
 *   2. its operator is allowed by the tag's value type (empty list = any)
 *   3. its value conforms to the tag's value kind (tags.Conforms)
 *
 * Tree validation walks conditions depth-first in render order and reports
 * the first failure, so the same tree always yields the same reason.
 */

// errStop ends a tree walk at the first invalid condition.
var errStop = errors.New("stop")

// OperatorValidator validates against a tag catalog.
type OperatorValidator struct {
	catalog tags.Lookup
}

// NewOperatorValidator creates a validator over catalog.
func NewOperatorValidator(catalog tags.Lookup) *OperatorValidator {
	return &OperatorValidator{catalog: catalog}
}

// ValidateCondition implements ConditionValidator.
func (v *OperatorValidator) ValidateCondition(c *types.Condition) ValidationResult {
	if c == nil {
		return Invalid("condition is nil")
	}
	return v.ValidateConditionValue(c, c.Value)
}

// ValidateConditionValue implements ConditionValidator.
func (v *OperatorValidator) ValidateConditionValue(c *types.Condition, proposed any) ValidationResult {
	if c == nil {
		return Invalid("condition is nil")
	}
	def, err := v.catalog.Resolve(c.TagKey)
	if err != nil {
		return Invalid("tag %q is not defined", c.TagKey)
	}
	if !def.ValueType.AllowsOperator(c.Operator) {
		return Invalid("operator %q is not allowed for %s tag %q", c.Operator, def.ValueType.Name, c.TagKey)
	}
	if !tags.Conforms(proposed, def.ValueType.Name) {
		return Invalid("value %v is not a valid %s for tag %q", proposed, def.ValueType.Name, c.TagKey)
	}
	return Valid
}

// ValidateTree implements ConditionValidator.
func (v *OperatorValidator) ValidateTree(root *types.LogicalOperator) ValidationResult {
	if root == nil {
		return Valid
	}
	result := Valid
	_ = root.Walk(func(c *types.Condition) error {
		if r := v.ValidateCondition(c); !r.Valid {
			result = r
			return errStop
		}
		return nil
	})
	return result
}

var _ ConditionValidator = (*OperatorValidator)(nil)
