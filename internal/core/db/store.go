package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solatis/tagkeeper/internal/tags"
	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Store persists conditional expressions and the tag catalog.
 *
 * Expressions are stored as canonical DSL text; callers render trees with
 * dsl.Render before saving and parse them after loading. The store never
 * parses condition strings itself.
 *
 * The tag catalog lives in two tables: tag_value_types (kind + comma
 * separated operator list) and tag_definitions. LoadCatalog snapshots both
 * into an in-memory tags.Catalog so parsing never touches the database.
 */

// Store is the persistence layer for expressions and tag definitions.
type Store struct {
	queries *Queries
}

// NewStore creates a store over loaded queries.
func NewStore(queries *Queries) *Store {
	return &Store{queries: queries}
}

// SaveConditionalExpression inserts e when its GUID is empty, assigning a new
// GUID and creation time, otherwise updates the stored row in place.
// Updating an unknown GUID returns types.ErrExpressionNotFound.
func (s *Store) SaveConditionalExpression(ctx context.Context, e *types.ConditionalExpression) error {
	if e.GUID == "" {
		e.GUID = types.NewConditionalExpressionGUID()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC().Truncate(time.Second)
		}
		_, err := s.queries.ExecContext(ctx, "insert-expression",
			e.GUID, e.Name, e.Description, e.ConditionString, e.Named, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert conditional expression: %w", err)
		}
		return nil
	}

	res, err := s.queries.ExecContext(ctx, "update-expression",
		e.Name, e.Description, e.ConditionString, e.Named, e.GUID)
	if err != nil {
		return fmt.Errorf("failed to update conditional expression %s: %w", e.GUID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update conditional expression %s: %w", e.GUID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrExpressionNotFound, e.GUID)
	}
	return nil
}

// GetConditionalExpression loads one expression by GUID.
func (s *Store) GetConditionalExpression(ctx context.Context, guid string) (*types.ConditionalExpression, error) {
	var e types.ConditionalExpression
	err := s.queries.GetContext(ctx, "get-expression", &e, guid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrExpressionNotFound, guid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conditional expression %s: %w", guid, err)
	}
	return &e, nil
}

// ListConditionalExpressions returns stored expressions, oldest first, or
// only named expressions sorted by name when namedOnly is set.
func (s *Store) ListConditionalExpressions(ctx context.Context, namedOnly bool) ([]types.ConditionalExpression, error) {
	var (
		out []types.ConditionalExpression
		err error
	)
	if namedOnly {
		err = s.queries.SelectContext(ctx, "list-named-expressions", &out, true)
	} else {
		err = s.queries.SelectContext(ctx, "list-expressions", &out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list conditional expressions: %w", err)
	}
	return out, nil
}

// DeleteConditionalExpression removes one expression.
func (s *Store) DeleteConditionalExpression(ctx context.Context, guid string) error {
	res, err := s.queries.ExecContext(ctx, "delete-expression", guid)
	if err != nil {
		return fmt.Errorf("failed to delete conditional expression %s: %w", guid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete conditional expression %s: %w", guid, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrExpressionNotFound, guid)
	}
	return nil
}

// UpsertTagDefinitions stores definitions and their value types in one
// transaction. Value types are written before the tags that reference them.
// Operators are stored per value kind, so every definition of one kind must
// carry the same operator list.
func (s *Store) UpsertTagDefinitions(ctx context.Context, defs []types.TagDefinition) error {
	return s.queries.InTx(ctx, func(tx *QueriesTx) error {
		written := make(map[types.ValueKind]string)
		for _, d := range defs {
			vt := d.ValueType
			if !vt.Name.Valid() {
				return fmt.Errorf("tag %q: unknown value type %q", d.Key, vt.Name)
			}
			operators := strings.Join(vt.Operators, ",")
			if prev, ok := written[vt.Name]; ok {
				if prev != operators {
					return fmt.Errorf("tag %q: value type %s declares operators [%s], conflicting with [%s]", d.Key, vt.Name, operators, prev)
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, "upsert-value-type", string(vt.Name), operators); err != nil {
				return fmt.Errorf("failed to store value type %s: %w", vt.Name, err)
			}
			written[vt.Name] = operators
		}
		for _, d := range defs {
			name := d.Name
			if name == "" {
				name = d.Key
			}
			if _, err := tx.ExecContext(ctx, "upsert-tag", d.Key, name, d.Description, string(d.ValueType.Name), d.Dictionary); err != nil {
				return fmt.Errorf("failed to store tag %s: %w", d.Key, err)
			}
		}
		return nil
	})
}

// tagRow is the joined tag_definitions/tag_value_types row.
type tagRow struct {
	Key         string `db:"tag_key"`
	Name        string `db:"name"`
	Description string `db:"description"`
	ValueType   string `db:"value_type"`
	Dictionary  string `db:"dictionary"`
	Operators   string `db:"operators"`
}

// ListTagDefinitions returns every stored tag sorted by key.
func (s *Store) ListTagDefinitions(ctx context.Context) ([]types.TagDefinition, error) {
	var rows []tagRow
	if err := s.queries.SelectContext(ctx, "list-tags", &rows); err != nil {
		return nil, fmt.Errorf("failed to list tag definitions: %w", err)
	}

	defs := make([]types.TagDefinition, 0, len(rows))
	for _, r := range rows {
		var ops []string
		if r.Operators != "" {
			ops = strings.Split(r.Operators, ",")
		}
		defs = append(defs, types.TagDefinition{
			Key:         r.Key,
			Name:        r.Name,
			Description: r.Description,
			ValueType:   types.TagValueType{Name: types.ValueKind(r.ValueType), Operators: ops},
			Dictionary:  r.Dictionary,
		})
	}
	return defs, nil
}

// LoadCatalog snapshots the stored tag definitions into an in-memory catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*tags.Catalog, error) {
	defs, err := s.ListTagDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	return tags.NewCatalog(defs...), nil
}
