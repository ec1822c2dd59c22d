// Package tags provides tag catalog lookup for the DSL engine.
//
// The parser consults a Lookup to type each condition literal; validators
// consult it to check operators. Catalog is the in-memory implementation,
// populated from a YAML seed file (file.go) or a database snapshot
// (internal/core/db).
package tags

import (
	"sort"
	"sync"

	"github.com/solatis/tagkeeper/internal/types"
)

// Lookup resolves tag keys to their definitions.
// Implementations must be safe for concurrent use and should be fast; the
// parser calls Resolve once per condition. Slow backends should be wrapped
// in a Catalog snapshot rather than queried per call.
type Lookup interface {
	// Resolve returns types.ErrTagNotFound when tagKey has no entry.
	Resolve(tagKey string) (types.TagDefinition, error)
}

// Catalog is an in-memory Lookup.
// Reads take a shared lock so concurrent parses never contend with each other.
type Catalog struct {
	mu   sync.RWMutex
	defs map[string]types.TagDefinition
}

// NewCatalog creates a catalog holding defs. Later duplicates replace earlier ones.
func NewCatalog(defs ...types.TagDefinition) *Catalog {
	c := &Catalog{defs: make(map[string]types.TagDefinition, len(defs))}
	for _, d := range defs {
		c.defs[d.Key] = d
	}
	return c
}

// Put adds or replaces a definition.
func (c *Catalog) Put(def types.TagDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs[def.Key] = def
}

// Resolve implements Lookup.
func (c *Catalog) Resolve(tagKey string) (types.TagDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[tagKey]
	if !ok {
		return types.TagDefinition{}, types.ErrTagNotFound
	}
	return def, nil
}

// All returns every definition sorted by key.
func (c *Catalog) All() []types.TagDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.TagDefinition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}
