package types

// ValueKind is the declared value type of a tag.
// It decides how bare DSL tokens are typed and which operators validators accept.
type ValueKind string

const (
	ValueKindString  ValueKind = "string"
	ValueKindInteger ValueKind = "integer"
	ValueKindLong    ValueKind = "long"
	ValueKindDecimal ValueKind = "decimal"
	ValueKindBoolean ValueKind = "boolean"
)

// Valid reports whether k is one of the known value kinds.
func (k ValueKind) Valid() bool {
	switch k {
	case ValueKindString, ValueKindInteger, ValueKindLong, ValueKindDecimal, ValueKindBoolean:
		return true
	default:
		return false
	}
}

// TagValueType describes a value kind and the operators allowed on it.
// An empty Operators list places no restriction on operators.
type TagValueType struct {
	Name      ValueKind
	Operators []string
}

// AllowsOperator reports whether op may be used with this value type.
func (t TagValueType) AllowsOperator(op string) bool {
	if len(t.Operators) == 0 {
		return true
	}
	for _, allowed := range t.Operators {
		if allowed == op {
			return true
		}
	}
	return false
}

// TagDefinition is a catalog entry: the left-hand side of a comparison.
type TagDefinition struct {
	Key         string
	Name        string
	Description string
	ValueType   TagValueType
	Dictionary  string // owning tag dictionary, informational
}
