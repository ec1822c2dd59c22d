// internal/dsl/parser.go
package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/tagkeeper/internal/tags"
	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Recursive-descent parser for the condition DSL.
 *
 * Grammar (whitespace-insignificant outside quoted literals):
 *   document  := group
 *   group     := '{' ('AND' | 'OR') member* '}'
 *   member    := group | condition
 *   condition := '{' tagKey '.' operator literal '}'
 *   literal   := quoted | typed | bare
 *
 * A '{' is a group when the next word is exactly AND or OR, otherwise a
 * condition. The condition head is split at its last '.', so tag keys may
 * themselves contain dots.
 *
 * Parse workflow:
 *   1. Blank input yields no tree and no error
 *   2. Enforce MaxExpressionLength before tokenizing
 *   3. Descend groups, enforcing MaxNestingDepth
 *   4. Resolve each tag key against the catalog; type its literal
 *   5. Require end of input after the root group
 *
 * All state lives in a parser value created per call, so Parse is safe to
 * call from any number of goroutines with a shared catalog.
 */

// fragmentLength bounds the input excerpt carried by MalformedExpressionError.
const fragmentLength = 32

// Parse converts DSL text into a tree, typing literals through catalog.
// Returns (nil, nil) for empty or whitespace-only text.
func Parse(text string, catalog tags.Lookup) (*types.LogicalOperator, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if catalog == nil {
		return nil, errors.New("dsl: nil tag catalog")
	}
	if len(text) > types.MaxExpressionLength {
		return nil, &types.MalformedExpressionError{
			Offset: types.MaxExpressionLength,
			Reason: fmt.Sprintf("expression is %d bytes, limit is %d", len(text), types.MaxExpressionLength),
			Err:    types.ErrExpressionTooLong,
		}
	}

	p := &parser{input: text, lex: newLexer(text), catalog: catalog}
	p.advance()

	root, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return root, nil
}

// parser holds the state of a single Parse call.
type parser struct {
	input   string
	lex     *lexer
	current token
	catalog tags.Lookup
}

func (p *parser) advance() {
	p.current = p.lex.next()
}

// parseDocument parses the root group and requires nothing after it.
func (p *parser) parseDocument() (*types.LogicalOperator, error) {
	if p.current.typ != tokenLBrace {
		return nil, p.unexpected("expected '{' to open the root group")
	}
	open := p.current
	p.advance()

	kind, ok := p.groupKind()
	if !ok {
		return nil, p.unexpected("expected AND or OR after '{'")
	}
	root, err := p.parseGroup(kind, open, 1)
	if err != nil {
		return nil, err
	}

	if p.current.typ != tokenEOF {
		return nil, p.unexpected("unexpected input after the root group")
	}
	return root, nil
}

// groupKind reports whether the current token is a group keyword.
func (p *parser) groupKind() (types.LogicalOperatorType, bool) {
	if p.current.typ != tokenWord {
		return "", false
	}
	return types.ParseLogicalOperatorType(p.current.value)
}

// parseGroup parses members up to the closing brace. The current token is the
// kind keyword; open is the group's '{' for error reporting.
func (p *parser) parseGroup(kind types.LogicalOperatorType, open token, depth int) (*types.LogicalOperator, error) {
	if depth > types.MaxNestingDepth {
		return nil, p.malformed(open, fmt.Sprintf("groups nested deeper than %d", types.MaxNestingDepth), types.ErrNestingTooDeep)
	}

	node := types.NewLogicalOperator(kind)
	p.advance() // consume kind

	for {
		switch p.current.typ {
		case tokenRBrace:
			p.advance()
			return node, nil

		case tokenLBrace:
			memberOpen := p.current
			p.advance()
			if childKind, ok := p.groupKind(); ok {
				child, err := p.parseGroup(childKind, memberOpen, depth+1)
				if err != nil {
					return nil, err
				}
				node.AddLogicalOperator(child)
				continue
			}
			cond, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			node.AddCondition(cond)

		case tokenEOF:
			return nil, p.malformed(open, fmt.Sprintf("unbalanced braces: %s group is never closed", kind), nil)

		case tokenIllegal:
			return nil, p.illegal()

		default:
			return nil, p.unexpected(fmt.Sprintf("unexpected %s in %s group", p.current.typ, kind))
		}
	}
}

// parseCondition parses "tagKey.operator literal }". The current token is
// the condition head.
func (p *parser) parseCondition() (*types.Condition, error) {
	head := p.current
	switch head.typ {
	case tokenWord:
	case tokenIllegal:
		return nil, p.illegal()
	default:
		return nil, p.unexpected("expected AND, OR or tag.operator after '{'")
	}

	dot := strings.LastIndexByte(head.value, '.')
	if dot < 0 {
		return nil, p.malformed(head, "missing '.' between tag and operator", nil)
	}
	tagKey, operator := head.value[:dot], head.value[dot+1:]
	if tagKey == "" {
		return nil, p.malformed(head, "empty tag key", nil)
	}
	if operator == "" {
		return nil, p.malformed(head, "empty operator", nil)
	}

	def, err := p.catalog.Resolve(tagKey)
	if err != nil {
		if errors.Is(err, types.ErrTagNotFound) {
			return nil, &types.UnknownTagError{TagKey: tagKey}
		}
		return nil, fmt.Errorf("failed to resolve tag %q: %w", tagKey, err)
	}
	p.advance()

	value, err := p.parseLiteral(def)
	if err != nil {
		return nil, err
	}
	p.advance()

	if p.current.typ != tokenRBrace {
		return nil, p.unexpected(fmt.Sprintf("expected '}' to close condition on %s", tagKey))
	}
	p.advance()

	return types.NewCondition(tagKey, operator, value), nil
}

// parseLiteral types the current token. Quoted text is always a string;
// typed literals carry their own type; bare tokens follow the tag's kind.
func (p *parser) parseLiteral(def types.TagDefinition) (any, error) {
	switch p.current.typ {
	case tokenString:
		return p.current.value, nil
	case tokenTyped:
		value, ok := parseTyped(p.current.value)
		if !ok {
			return nil, p.malformed(p.current, "invalid typed literal", nil)
		}
		return value, nil
	case tokenWord:
		value, err := tags.Coerce(p.current.value, def.ValueType.Name)
		if err != nil {
			return nil, p.malformed(p.current, fmt.Sprintf("value is not a valid %s for tag %s", def.ValueType.Name, def.Key), err)
		}
		return value, nil
	case tokenIllegal:
		return nil, p.illegal()
	default:
		return nil, p.unexpected(fmt.Sprintf("missing value for tag %s", def.Key))
	}
}

func (p *parser) illegal() error {
	reason := "unterminated quoted string"
	switch {
	case strings.HasPrefix(p.current.value, "("):
		reason = "unterminated typed literal"
	case p.current.value == ")":
		reason = "unbalanced ')'"
	}
	return p.malformed(p.current, reason, nil)
}

func (p *parser) unexpected(reason string) error {
	return p.malformed(p.current, reason, nil)
}

func (p *parser) malformed(at token, reason string, cause error) error {
	end := at.pos + fragmentLength
	if end > len(p.input) {
		end = len(p.input)
	}
	return &types.MalformedExpressionError{
		Offset:   at.pos,
		Fragment: p.input[at.pos:end],
		Reason:   reason,
		Err:      cause,
	}
}
