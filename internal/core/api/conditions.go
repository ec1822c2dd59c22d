package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/tagkeeper/internal/types"
	"github.com/solatis/tagkeeper/internal/validation"
)

// Parse converts DSL text into a tree. Blank text yields a nil tree.
func (s *ConditionService) Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	if err := s.checkLength(req.Expression); err != nil {
		return nil, err
	}
	root, err := s.builder.Parse(req.Expression)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ParseResponse{Tree: root}, nil
}

// Render converts a tree into canonical DSL text, validating it first when
// the builder has a validator. A nil tree renders as "".
func (s *ConditionService) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	text, err := s.builder.Render(req.Tree)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RenderResponse{Expression: text}, nil
}

// Validate reports whether a tree passes the configured validator.
// An invalid tree is a successful call with an invalid result; only
// unparseable text is an error.
func (s *ConditionService) Validate(ctx context.Context, req *ValidateRequest) (*ValidateResponse, error) {
	root, err := s.resolveTree(req.Expression, req.Tree)
	if err != nil {
		return nil, err
	}
	v := s.builder.Validator()
	if v == nil {
		v = validation.AllowAll{}
	}
	result := v.ValidateTree(root)
	if !result.Valid {
		s.logger.Debug("validation rejected condition tree", zap.String("reason", result.Reason))
	}
	return &ValidateResponse{Result: result}, nil
}

// resolveTree returns the tree named by text, or tree when text is blank.
func (s *ConditionService) resolveTree(text string, tree *types.LogicalOperator) (*types.LogicalOperator, error) {
	if text == "" {
		return tree, nil
	}
	if err := s.checkLength(text); err != nil {
		return nil, err
	}
	root, err := s.builder.Parse(text)
	if err != nil {
		return nil, toStatus(err)
	}
	return root, nil
}

// checkLength enforces the configured expression limit, which may be
// tighter than types.MaxExpressionLength.
func (s *ConditionService) checkLength(text string) error {
	if limit := s.cfg.MaxExpressionLength; limit > 0 && len(text) > limit {
		return status.Error(codes.InvalidArgument,
			fmt.Sprintf("%v: %d bytes, limit is %d", types.ErrExpressionTooLong, len(text), limit))
	}
	return nil
}
