package dsl

import (
	"strings"

	"github.com/solatis/tagkeeper/internal/tags"
	"github.com/solatis/tagkeeper/internal/types"
)

// testCatalog mirrors the tags used by the original segment-builder fixtures
// plus one tag per non-string value kind.
func testCatalog() *tags.Catalog {
	str := types.TagValueType{Name: types.ValueKindString}
	return tags.NewCatalog(
		types.TagDefinition{Key: "refererUrl", Name: "Referer URL", ValueType: str},
		types.TagDefinition{Key: "location", Name: "Location", ValueType: str},
		types.TagDefinition{Key: "age", Name: "Age", ValueType: str},
		types.TagDefinition{Key: "memberType", Name: "Member Type", ValueType: str},
		types.TagDefinition{Key: "customer.segment", Name: "Segment", ValueType: str},
		types.TagDefinition{Key: "visits", Name: "Visits", ValueType: types.TagValueType{Name: types.ValueKindInteger}},
		types.TagDefinition{Key: "orders", Name: "Orders", ValueType: types.TagValueType{Name: types.ValueKindLong}},
		types.TagDefinition{Key: "lifetimeValue", Name: "Lifetime Value", ValueType: types.TagValueType{Name: types.ValueKindDecimal}},
		types.TagDefinition{Key: "optIn", Name: "Opt In", ValueType: types.TagValueType{Name: types.ValueKindBoolean}},
	)
}

// someConditions appends the two-condition block used throughout the
// nested-operator fixtures.
func someConditions(sb *strings.Builder) {
	sb.WriteString("\n{ refererUrl.")
	sb.WriteString("includes")
	sb.WriteString(" 'google' }\n")
	sb.WriteString("{ memberType.")
	sb.WriteString("equalTo")
	sb.WriteString(" 'GOLD' }\n")
}

// nestedOperatorsExpression builds:
//
//	AND
//	  { refererUrl.includes 'google' } { memberType.equalTo 'GOLD' }
//	  { OR  <two conditions> { AND <two conditions> } }
//	  { AND { AND <two conditions> } }
//	  [withThird] { AND <two conditions> { OR <two conditions> } }
func nestedOperatorsExpression(withThird bool) string {
	var sb strings.Builder
	sb.WriteString("{AND")
	someConditions(&sb)

	sb.WriteString("{\nOR")
	someConditions(&sb)
	sb.WriteString("{\nAND")
	someConditions(&sb)
	sb.WriteString("}\n}\n")

	sb.WriteString("{\nAND")
	sb.WriteString("{\nAND")
	someConditions(&sb)
	sb.WriteString("}\n}\n")

	if withThird {
		sb.WriteString("{\nAND")
		someConditions(&sb)
		sb.WriteString("{\nOR")
		someConditions(&sb)
		sb.WriteString("}\n}\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// shape summarises a tree as condition/operator counts per node, depth-first.
type shape struct {
	Conditions int
	Operators  []shape
}

func shapeOf(o *types.LogicalOperator) shape {
	s := shape{Conditions: len(o.Conditions())}
	for _, child := range o.LogicalOperators() {
		s.Operators = append(s.Operators, shapeOf(child))
	}
	return s
}
