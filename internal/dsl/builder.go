package dsl

import (
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/tags"
	"github.com/solatis/tagkeeper/internal/types"
	"github.com/solatis/tagkeeper/internal/validation"
)

// Builder binds Parse and Render to a catalog and an optional validator.
// It holds configuration only; every call works on its own state, so one
// Builder serves any number of goroutines.
type Builder struct {
	catalog   tags.Lookup
	validator validation.ConditionValidator
	logger    *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithValidator makes Render and ParseAndValidate check trees with v.
func WithValidator(v validation.ConditionValidator) Option {
	return func(b *Builder) { b.validator = v }
}

// WithLogger sets the logger for parse and render failures.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder over catalog.
func NewBuilder(catalog tags.Lookup, opts ...Option) *Builder {
	b := &Builder{catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the catalog used for parsing.
func (b *Builder) Catalog() tags.Lookup {
	return b.catalog
}

// Validator returns the configured validator, or nil.
func (b *Builder) Validator() validation.ConditionValidator {
	return b.validator
}

// Parse converts text into a tree. See Parse.
func (b *Builder) Parse(text string) (*types.LogicalOperator, error) {
	root, err := Parse(text, b.catalog)
	if err != nil {
		b.logger.Debug("condition parse failed", zap.Int("length", len(text)), zap.Error(err))
		return nil, err
	}
	return root, nil
}

// ParseAndValidate parses text and validates the resulting tree when a
// validator is configured.
func (b *Builder) ParseAndValidate(text string) (*types.LogicalOperator, error) {
	root, err := b.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := b.validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Render validates root (when a validator is configured) and converts it to
// canonical text. A nil tree renders as "" without validation.
func (b *Builder) Render(root *types.LogicalOperator) (string, error) {
	if root == nil {
		return "", nil
	}
	if err := b.validate(root); err != nil {
		return "", err
	}
	text, err := Render(root)
	if err != nil {
		b.logger.Debug("condition render failed", zap.Error(err))
		return "", err
	}
	return text, nil
}

func (b *Builder) validate(root *types.LogicalOperator) error {
	if b.validator == nil || root == nil {
		return nil
	}
	if result := b.validator.ValidateTree(root); !result.Valid {
		b.logger.Debug("condition tree rejected", zap.String("reason", result.Reason))
		return &types.InvalidConditionTreeError{Reason: result.Reason}
	}
	return nil
}
