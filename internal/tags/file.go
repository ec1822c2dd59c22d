package tags

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solatis/tagkeeper/internal/types"
)

// File is the YAML catalog seed format.
//
//	value_types:
//	  - name: integer
//	    operators: [equalTo, lessThan, greaterThan]
//	tags:
//	  - key: age
//	    name: Age
//	    value_type: integer
type File struct {
	ValueTypes []FileValueType `yaml:"value_types"`
	Tags       []FileTag       `yaml:"tags"`
}

// FileValueType declares a value kind and its operators.
type FileValueType struct {
	Name      string   `yaml:"name"`
	Operators []string `yaml:"operators"`
}

// FileTag declares one tag definition.
type FileTag struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ValueType   string `yaml:"value_type"`
	Dictionary  string `yaml:"dictionary"`
}

// LoadFile reads a YAML seed file into a Catalog.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML seed document into a Catalog.
func Decode(r io.Reader) (*Catalog, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	defs, err := file.Definitions()
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs...), nil
}

// Definitions resolves each tag's value type against the declared value types.
// A tag naming a known kind that has no value_types entry gets an unrestricted
// operator list.
func (f *File) Definitions() ([]types.TagDefinition, error) {
	valueTypes := make(map[types.ValueKind]types.TagValueType, len(f.ValueTypes))
	for _, vt := range f.ValueTypes {
		kind := types.ValueKind(vt.Name)
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown value type %q", vt.Name)
		}
		valueTypes[kind] = types.TagValueType{Name: kind, Operators: vt.Operators}
	}

	defs := make([]types.TagDefinition, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t.Key == "" {
			return nil, fmt.Errorf("tag with empty key")
		}
		kind := types.ValueKind(t.ValueType)
		if t.ValueType == "" {
			kind = types.ValueKindString
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("tag %q: unknown value type %q", t.Key, t.ValueType)
		}
		vt, ok := valueTypes[kind]
		if !ok {
			vt = types.TagValueType{Name: kind}
		}
		name := t.Name
		if name == "" {
			name = t.Key
		}
		defs = append(defs, types.TagDefinition{
			Key:         t.Key,
			Name:        name,
			Description: t.Description,
			ValueType:   vt,
			Dictionary:  t.Dictionary,
		})
	}
	return defs, nil
}
