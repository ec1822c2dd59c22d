// Package api implements the condition API: parsing, rendering, validating,
// and storing targeting conditions over gRPC.
package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/core/config"
	"github.com/solatis/tagkeeper/internal/dsl"
	"github.com/solatis/tagkeeper/internal/types"
)

// ExpressionStore persists conditional expressions. Implemented by *db.Store.
type ExpressionStore interface {
	SaveConditionalExpression(ctx context.Context, e *types.ConditionalExpression) error
	GetConditionalExpression(ctx context.Context, guid string) (*types.ConditionalExpression, error)
	ListConditionalExpressions(ctx context.Context, namedOnly bool) ([]types.ConditionalExpression, error)
	DeleteConditionalExpression(ctx context.Context, guid string) error
}

// ConditionService is the condition API.
// Thin orchestration layer over dsl.Builder and an ExpressionStore; it keeps
// no per-request state, so one instance serves all gRPC workers.
type ConditionService struct {
	builder *dsl.Builder
	store   ExpressionStore
	cfg     *config.ConditionAPIConfig
	logger  *zap.Logger
}

// NewConditionService creates the service. store may be nil, in which case
// the persistence methods fail with FAILED_PRECONDITION.
func NewConditionService(builder *dsl.Builder, store ExpressionStore, cfg *config.ConditionAPIConfig, logger *zap.Logger) (*ConditionService, error) {
	if builder == nil {
		return nil, fmt.Errorf("builder cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConditionService{
		builder: builder,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}, nil
}
