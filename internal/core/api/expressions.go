package api

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/tagkeeper/internal/core/auth"
	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Stored expression handlers.
 *
 * Save workflow:
 *   1. Resolve the tree from Expression text or Tree
 *   2. Render through the builder (validates when a validator is set), so
 *      only canonical text reaches the store
 *   3. Insert (empty GUID) or update
 *
 * Get parses the stored text back into a tree so callers receive both forms.
 */

// Save validates, canonicalises, and stores a conditional expression.
func (s *ConditionService) Save(ctx context.Context, req *SaveRequest) (*SaveResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	guid, err := normalizeGUID(req.GUID, true)
	if err != nil {
		return nil, err
	}

	root, err := s.resolveTree(req.Expression, req.Tree)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, status.Error(codes.InvalidArgument, "condition is empty")
	}
	text, err := s.builder.Render(root)
	if err != nil {
		return nil, toStatus(err)
	}

	e := &types.ConditionalExpression{
		GUID:            guid,
		Name:            req.Name,
		Description:     req.Description,
		ConditionString: text,
		Named:           req.Named,
	}
	if err := s.store.SaveConditionalExpression(ctx, e); err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info("conditional expression saved",
		zap.String("guid", e.GUID),
		zap.String("name", e.Name),
		zap.String("client", auth.ClientNameFromContext(ctx)),
	)
	return &SaveResponse{Expression: *e}, nil
}

// Get loads a stored expression and its tree.
func (s *ConditionService) Get(ctx context.Context, req *GetRequest) (*GetResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	guid, err := normalizeGUID(req.GUID, false)
	if err != nil {
		return nil, err
	}

	e, err := s.store.GetConditionalExpression(ctx, guid)
	if err != nil {
		return nil, toStatus(err)
	}
	root, err := s.builder.Parse(e.ConditionString)
	if err != nil {
		// Stored text no longer parses, typically because a tag was removed
		// from the catalog after the expression was saved.
		return nil, status.Error(codes.FailedPrecondition,
			fmt.Sprintf("stored expression %s no longer parses: %v", guid, err))
	}
	return &GetResponse{Expression: *e, Tree: root}, nil
}

// List returns stored expressions.
func (s *ConditionService) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	list, err := s.store.ListConditionalExpressions(ctx, req.NamedOnly)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListResponse{Expressions: list}, nil
}

// Delete removes a stored expression.
func (s *ConditionService) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	guid, err := normalizeGUID(req.GUID, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteConditionalExpression(ctx, guid); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("conditional expression deleted",
		zap.String("guid", guid),
		zap.String("client", auth.ClientNameFromContext(ctx)),
	)
	return &DeleteResponse{}, nil
}

func (s *ConditionService) requireStore() error {
	if s.store == nil {
		return status.Error(codes.FailedPrecondition, "persistence is not configured (set database.url)")
	}
	return nil
}

// normalizeGUID validates a caller-supplied guid. Empty is allowed only
// when allowEmpty is set (Save creating a new expression).
func normalizeGUID(guid string, allowEmpty bool) (string, error) {
	if guid == "" {
		if allowEmpty {
			return "", nil
		}
		return "", status.Error(codes.InvalidArgument, "guid is required")
	}
	parsed, err := types.ParseConditionalExpressionGUID(guid)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, fmt.Sprintf("invalid guid %q: %v", guid, err))
	}
	return parsed, nil
}
