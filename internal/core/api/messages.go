package api

import (
	"github.com/solatis/tagkeeper/internal/types"
	"github.com/solatis/tagkeeper/internal/validation"
)

// Request and response messages. They travel as JSON (see codec.go); trees
// use the JSON form defined by types.LogicalOperator.

type ParseRequest struct {
	Expression string `json:"expression"`
}

// ParseResponse carries a nil Tree for blank input.
type ParseResponse struct {
	Tree *types.LogicalOperator `json:"tree"`
}

type RenderRequest struct {
	Tree *types.LogicalOperator `json:"tree"`
}

type RenderResponse struct {
	Expression string `json:"expression"`
}

// ValidateRequest names a tree either as DSL text or as a tree; Expression
// wins when both are set.
type ValidateRequest struct {
	Expression string                 `json:"expression,omitempty"`
	Tree       *types.LogicalOperator `json:"tree,omitempty"`
}

type ValidateResponse struct {
	Result validation.ValidationResult `json:"result"`
}

// SaveRequest creates an expression when GUID is empty and updates it
// otherwise. The condition is given as Expression text or as Tree.
type SaveRequest struct {
	GUID        string                 `json:"guid,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Named       bool                   `json:"named"`
	Expression  string                 `json:"expression,omitempty"`
	Tree        *types.LogicalOperator `json:"tree,omitempty"`
}

type SaveResponse struct {
	Expression types.ConditionalExpression `json:"expression"`
}

type GetRequest struct {
	GUID string `json:"guid"`
}

type GetResponse struct {
	Expression types.ConditionalExpression `json:"expression"`
	Tree       *types.LogicalOperator      `json:"tree"`
}

type ListRequest struct {
	NamedOnly bool `json:"namedOnly"`
}

type ListResponse struct {
	Expressions []types.ConditionalExpression `json:"expressions"`
}

type DeleteRequest struct {
	GUID string `json:"guid"`
}

type DeleteResponse struct{}
