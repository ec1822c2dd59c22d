package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLogicalOperator_JSON(t *testing.T) {
	inner := NewLogicalOperator(OR)
	inner.AddCondition(NewCondition("visits", "lessThan", 9))
	root := NewLogicalOperator(AND)
	root.AddCondition(NewCondition("memberType", "equalTo", "gold"))
	root.AddCondition(NewCondition("orders", "greaterThan", int64(5000000000)))
	root.AddCondition(NewCondition("lifetimeValue", "greaterThan", 10.5))
	root.AddCondition(NewCondition("optIn", "equalTo", true))
	root.AddLogicalOperator(inner)

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}
	want := `{"type":"AND","conditions":[{"tagKey":"memberType","operator":"equalTo","value":"gold"},{"tagKey":"orders","operator":"greaterThan","value":5000000000},{"tagKey":"lifetimeValue","operator":"greaterThan","value":10.5},{"tagKey":"optIn","operator":"equalTo","value":true}],"operators":[{"type":"OR","conditions":[{"tagKey":"visits","operator":"lessThan","value":9}]}]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s\nwant %s", data, want)
	}

	var back LogicalOperator
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil", err)
	}
	if back.Type() != AND || len(back.Conditions()) != 4 || len(back.LogicalOperators()) != 1 {
		t.Fatalf("Unmarshal() shape = %s/%d/%d", back.Type(), len(back.Conditions()), len(back.LogicalOperators()))
	}
	values := []any{"gold", int64(5000000000), 10.5, true}
	for i, c := range back.Conditions() {
		if c.Value != values[i] {
			t.Errorf("condition %d value = %v (%T), want %v (%T)", i, c.Value, c.Value, values[i], values[i])
		}
	}
	if v := back.LogicalOperators()[0].Conditions()[0].Value; v != 9 {
		t.Errorf("nested value = %v (%T), want int 9", v, v)
	}
}

func TestLogicalOperator_UnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "bad type", doc: `{"type":"XOR"}`, wantErr: "invalid logical operator type"},
		{name: "missing type", doc: `{}`, wantErr: "invalid logical operator type"},
		{name: "null condition", doc: `{"type":"AND","conditions":[null]}`, wantErr: "null condition"},
		{name: "null operator", doc: `{"type":"AND","operators":[null]}`, wantErr: "null operator"},
		{name: "bad nested type", doc: `{"type":"AND","operators":[{"type":"and"}]}`, wantErr: "invalid logical operator type"},
		{name: "not an object", doc: `[1,2]`, wantErr: "cannot unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o LogicalOperator
			err := json.Unmarshal([]byte(tt.doc), &o)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Unmarshal(%s) error = %v, want containing %q", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestLogicalOperator_UnmarshalJSONKeepsCompoundValues(t *testing.T) {
	var o LogicalOperator
	if err := json.Unmarshal([]byte(`{"type":"OR","conditions":[{"tagKey":"location","operator":"in","value":["ca","ny"]}]}`), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil", err)
	}
	if _, ok := o.Conditions()[0].Value.([]any); !ok {
		t.Errorf("value type = %T, want []any", o.Conditions()[0].Value)
	}
}
