package naming

import (
	"sort"
	"strconv"

	"goa.design/goa/v3/codegen"
)

// Mapper records the association between contract names and the identifiers
// generated for them within one scope (parameters, inputs, outputs, ...).
//
// Identifiers are assigned by SafeIdentifier. When two different contract
// names sanitize to the same identifier, the name added later gets a numeric
// suffix ("_2", "_3", ...). Callers add names in sorted order so that the
// assignment does not depend on the contract's key order.
type Mapper struct {
	lower      bool
	byOriginal map[string]string
	byIdent    map[string]string
	order      []string
}

// NewMapper returns an empty mapper. lower controls whether names are
// lowercased before sanitization.
func NewMapper(lower bool) *Mapper {
	return &Mapper{
		lower:      lower,
		byOriginal: make(map[string]string),
		byIdent:    make(map[string]string),
	}
}

// Add returns the identifier for original, assigning one if needed.
func (m *Mapper) Add(original string) string {
	if id, ok := m.byOriginal[original]; ok {
		return id
	}
	base := SafeIdentifier(original, m.lower)
	id := base
	for i := 2; ; i++ {
		if _, taken := m.byIdent[id]; !taken {
			break
		}
		id = base + "_" + strconv.Itoa(i)
	}
	m.byOriginal[original] = id
	m.byIdent[id] = original
	m.order = append(m.order, id)
	return id
}

// Identifier returns the identifier assigned to original.
func (m *Mapper) Identifier(original string) (string, bool) {
	id, ok := m.byOriginal[original]
	return id, ok
}

// Original returns the contract name that id was generated from.
func (m *Mapper) Original(id string) (string, bool) {
	orig, ok := m.byIdent[id]
	return orig, ok
}

// Identifiers returns the assigned identifiers in insertion order.
func (m *Mapper) Identifiers() []string {
	return append([]string(nil), m.order...)
}

// Renamed returns identifier -> contract name for every name whose
// identifier differs from the name itself.
func (m *Mapper) Renamed() map[string]string {
	out := make(map[string]string)
	for id, orig := range m.byIdent {
		if id != orig {
			out[id] = orig
		}
	}
	return out
}

// RenamedPairs returns Renamed as a slice sorted by identifier, suitable for
// deterministic rendering.
func (m *Mapper) RenamedPairs() []Pair {
	renamed := m.Renamed()
	pairs := make([]Pair, 0, len(renamed))
	for id, orig := range renamed {
		pairs = append(pairs, Pair{Identifier: id, Original: orig})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Identifier < pairs[j].Identifier })
	return pairs
}

// Pair is one identifier/contract-name association.
type Pair struct {
	Identifier string
	Original   string
}

// GoScope hands out exported Go names that are unique within one generated
// declaration (struct fields, methods or package-level constants).
type GoScope struct {
	scope *codegen.NameScope
}

// NewGoScope returns a scope in which the reserved names are already taken.
func NewGoScope(reserved ...string) *GoScope {
	s := &GoScope{scope: codegen.NewNameScope()}
	for _, r := range reserved {
		s.scope.Unique(r)
	}
	return s
}

// Name returns a unique exported Go name derived from the snake_case
// identifier id.
func (s *GoScope) Name(id string) string {
	return s.scope.Unique(GoName(id))
}

// GoName returns the exported Go form of a snake_case identifier.
func GoName(id string) string {
	name := codegen.Goify(id, true)
	if name == "" {
		return codegen.Goify(Unnamed, true)
	}
	return name
}
