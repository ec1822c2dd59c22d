package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for tagkeeper operations.
// Typed errors below match their sentinel with errors.Is.
var (
	// ErrMalformedExpression indicates DSL text that does not follow the grammar.
	ErrMalformedExpression = errors.New("malformed conditional expression")

	// ErrUnknownTag indicates a tag key with no catalog entry.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnsupportedValueShape indicates a condition value that cannot be rendered.
	ErrUnsupportedValueShape = errors.New("unsupported condition value shape")

	// ErrInvalidConditionTree indicates a tree rejected by a validator.
	ErrInvalidConditionTree = errors.New("invalid condition tree")

	// ErrExpressionTooLong indicates DSL text exceeds MaxExpressionLength.
	ErrExpressionTooLong = errors.New("expression exceeds maximum length")

	// ErrNestingTooDeep indicates group nesting exceeds MaxNestingDepth.
	ErrNestingTooDeep = errors.New("expression exceeds maximum nesting depth")

	// ErrCoercionFailed indicates a literal could not be converted to the tag's value kind.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrTagNotFound is returned by catalog lookups for absent keys.
	ErrTagNotFound = errors.New("tag definition not found")

	// ErrExpressionNotFound indicates no stored conditional expression has the given guid.
	ErrExpressionNotFound = errors.New("conditional expression not found")
)

// MalformedExpressionError reports where parsing failed.
// Offset is a byte offset into the input; Fragment is the input starting there.
type MalformedExpressionError struct {
	Offset   int
	Fragment string
	Reason   string
	Err      error // optional cause, e.g. ErrCoercionFailed
}

func (e *MalformedExpressionError) Error() string {
	msg := fmt.Sprintf("malformed conditional expression at offset %d: %s", e.Offset, e.Reason)
	if e.Fragment != "" {
		msg += fmt.Sprintf(" near %q", e.Fragment)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedExpressionError) Is(target error) bool {
	return target == ErrMalformedExpression
}

func (e *MalformedExpressionError) Unwrap() error {
	return e.Err
}

// UnknownTagError reports a tag key missing from the catalog.
type UnknownTagError struct {
	TagKey string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.TagKey)
}

func (e *UnknownTagError) Is(target error) bool {
	return target == ErrUnknownTag
}

// UnsupportedValueShapeError reports a condition value the renderer refuses.
// Shape names the offending kind: collection, map, array, struct, nil, ...
type UnsupportedValueShapeError struct {
	TagKey string
	Shape  string
}

func (e *UnsupportedValueShapeError) Error() string {
	return fmt.Sprintf("unsupported value shape %s for tag %q", e.Shape, e.TagKey)
}

func (e *UnsupportedValueShapeError) Is(target error) bool {
	return target == ErrUnsupportedValueShape
}

// InvalidConditionTreeError carries the reason a validator rejected a tree.
type InvalidConditionTreeError struct {
	Reason string
}

func (e *InvalidConditionTreeError) Error() string {
	return "invalid condition tree: " + e.Reason
}

func (e *InvalidConditionTreeError) Is(target error) bool {
	return target == ErrInvalidConditionTree
}
