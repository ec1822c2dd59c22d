package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Wire shapes for the JSON form of a tree. Used by the CLI and the API; the
// DSL text stays the persisted representation.
type jsonOperator struct {
	Type       LogicalOperatorType `json:"type"`
	Conditions []*jsonCondition    `json:"conditions,omitempty"`
	Operators  []*jsonOperator     `json:"operators,omitempty"`
}

type jsonCondition struct {
	TagKey   string `json:"tagKey"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (o *LogicalOperator) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONOperator(o))
}

// UnmarshalJSON implements json.Unmarshaler.
// Integral numbers decode as int (int64 when outside int32 range), others as float64.
func (o *LogicalOperator) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw jsonOperator
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	built, err := fromJSONOperator(&raw)
	if err != nil {
		return err
	}
	*o = *built
	return nil
}

func toJSONOperator(o *LogicalOperator) *jsonOperator {
	out := &jsonOperator{Type: o.kind}
	for _, c := range o.conditions {
		out.Conditions = append(out.Conditions, &jsonCondition{TagKey: c.TagKey, Operator: c.Operator, Value: c.Value})
	}
	for _, child := range o.operators {
		out.Operators = append(out.Operators, toJSONOperator(child))
	}
	return out
}

func fromJSONOperator(raw *jsonOperator) (*LogicalOperator, error) {
	if !raw.Type.Valid() {
		return nil, fmt.Errorf("invalid logical operator type %q", raw.Type)
	}
	o := NewLogicalOperator(raw.Type)
	for _, c := range raw.Conditions {
		if c == nil {
			return nil, fmt.Errorf("null condition in %s group", raw.Type)
		}
		o.AddCondition(NewCondition(c.TagKey, c.Operator, normalizeJSONValue(c.Value)))
	}
	for _, child := range raw.Operators {
		if child == nil {
			return nil, fmt.Errorf("null operator in %s group", raw.Type)
		}
		built, err := fromJSONOperator(child)
		if err != nil {
			return nil, err
		}
		o.AddLogicalOperator(built)
	}
	return o, nil
}

// normalizeJSONValue converts json.Number to the narrowest Go numeric type.
// Compound values are left as decoded so the renderer can reject them.
func normalizeJSONValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return int(i)
		}
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
