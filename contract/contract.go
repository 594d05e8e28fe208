// Package contract loads module contracts and exposes a typed, read-only view
// of the fields the generators consume.
//
// A contract is a JSON document validated upstream against its JSON Schema.
// The loader is intentionally permissive: missing or wrong-typed optional
// sections read as empty values instead of failing, structural validity being
// the schema validator's job.
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

type (
	// Contract is the parsed view of a module contract. Values are never
	// mutated by the generators.
	Contract struct {
		// ModuleID is the module identifier, e.g. "A-V-1".
		ModuleID string
		// ModuleAbbr is the 2-8 character module abbreviation, e.g. "TONE".
		ModuleAbbr string
		// ModuleType is the module kind (PROCESS, RULESET, BRIDGE, ...).
		ModuleType string
		// ModuleName holds the localized display names.
		ModuleName ModuleName
		// Version is the contract version.
		Version string
		// Description is the free-form module description.
		Description string
		// Schema identifies the schema the contract was validated against.
		Schema Schema
		// Parameters maps contract parameter names to their declarations.
		Parameters map[string]*Parameter
		// IO lists the declared input and output artifacts.
		IO IOContract
		// Constraints lists the declared constraints in contract order.
		Constraints []*Constraint
		// Rules lists validation.rules in contract order.
		Rules []*Rule
		// Steps lists algorithm.steps in contract order.
		Steps []*Step
		// ArtifactRegistry lists algorithm.artifact_registry entries.
		ArtifactRegistry []*RegistryEntry
	}

	// ModuleName holds the localized module names.
	ModuleName struct {
		UK string
		EN string
	}

	// Schema identifies the contract schema.
	Schema struct {
		Name    string
		Version string
	}

	// Parameter describes a single contract parameter.
	Parameter struct {
		// Type is the declared type token (float, int, bool, string, json, enum).
		Type string
		// Default is the declared default. Numbers are json.Number values.
		Default any
		// HasDefault reports whether the contract declares a default, which
		// may itself be null.
		HasDefault bool
		// Range is the raw declared range, usually [min, max].
		Range []any
		// Enum lists the declared enumeration values.
		Enum []any
		// Unit is the physical unit, if any.
		Unit string
		// Description is the parameter description.
		Description string
	}

	// IOContract lists the module input and output artifacts.
	IOContract struct {
		Inputs  []*Artifact
		Outputs []*Artifact
	}

	// Artifact describes a domain artifact consumed or produced by a module.
	Artifact struct {
		ID          string
		Type        string
		Scope       string
		Description string
	}

	// Constraint is a declared constraint expression and its error code.
	Constraint struct {
		Expr      string
		ErrorCode string
	}

	// Rule is a named conditional validation rule.
	Rule struct {
		Name      string
		Condition string
		Severity  string
		Message   string
		ErrorCode string
	}

	// Step is a single algorithm step.
	Step struct {
		ID          string
		Name        string
		Type        string
		Uses        []string
		Produces    []string
		Description string
	}

	// RegistryEntry associates an artifact id with its visibility scope.
	RegistryEntry struct {
		ArtifactID string
		Scope      string
	}
)

// Load reads and parses the contract at path. It returns the parsed contract
// and the metadata snapshot computed from the exact bytes read.
func Load(path string) (*Contract, Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("read contract %s: %w", path, err)
	}
	return LoadBytes(path, raw)
}

// LoadBytes parses raw contract bytes read from path. path is only used for
// error reporting.
func LoadBytes(path string, raw []byte) (*Contract, Meta, error) {
	tree, err := decode(raw)
	if err != nil {
		return nil, Meta{}, &MalformedContractError{Path: path, Err: err}
	}
	return fromTree(tree), NewMeta(tree, raw), nil
}

// Parse parses raw contract bytes.
func Parse(raw []byte) (*Contract, error) {
	c, _, err := LoadBytes("", raw)
	return c, err
}

// decode parses raw as a single JSON object. Numbers are kept as json.Number
// so default and range literals survive unchanged.
func decode(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected trailing content")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %s", kindOf(v))
	}
	return m, nil
}

func fromTree(tree map[string]any) *Contract {
	c := &Contract{
		ModuleID:    stringOf(tree["module_id"]),
		ModuleAbbr:  stringOf(tree["module_abbr"]),
		ModuleType:  stringOf(tree["module_type"]),
		Version:     stringOf(tree["version"]),
		Description: stringOf(tree["description"]),
		Parameters:  make(map[string]*Parameter),
	}
	names := mapOf(tree["module_name"])
	c.ModuleName = ModuleName{UK: stringOf(names["uk"]), EN: stringOf(names["en"])}
	schema := schemaNode(tree)
	c.Schema = Schema{Name: stringOf(schema["name"]), Version: stringOf(schema["version"])}

	for name, v := range mapOf(tree["parameters"]) {
		c.Parameters[name] = parameterOf(mapOf(v))
	}

	ioc := mapOf(tree["io_contract"])
	c.IO.Inputs = artifactsOf(ioc["inputs"])
	c.IO.Outputs = artifactsOf(ioc["outputs"])

	for _, v := range sliceOf(tree["constraints"]) {
		m := mapOf(v)
		c.Constraints = append(c.Constraints, &Constraint{
			Expr:      stringOf(m["expr"]),
			ErrorCode: stringOf(m["error_code"]),
		})
	}
	for _, v := range sliceOf(mapOf(tree["validation"])["rules"]) {
		m := mapOf(v)
		c.Rules = append(c.Rules, &Rule{
			Name:      stringOf(m["name"]),
			Condition: stringOf(m["condition"]),
			Severity:  stringOf(m["severity"]),
			Message:   stringOf(m["message"]),
			ErrorCode: stringOf(m["error_code"]),
		})
	}

	algo := mapOf(tree["algorithm"])
	for _, v := range sliceOf(algo["steps"]) {
		m := mapOf(v)
		c.Steps = append(c.Steps, &Step{
			ID:          stringOf(m["id"]),
			Name:        stringOf(m["name"]),
			Type:        stringOf(m["type"]),
			Uses:        stringsOf(m["uses"]),
			Produces:    stringsOf(m["produces"]),
			Description: stringOf(m["description"]),
		})
	}
	c.ArtifactRegistry = registryOf(algo["artifact_registry"])
	return c
}

// ParameterNames returns the parameter names in lexicographic order.
func (c *Contract) ParameterNames() []string {
	names := make([]string, 0, len(c.Parameters))
	for name := range c.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumericRange returns the declared [min, max] bounds when the parameter is
// numeric and the range has exactly two numeric elements.
func (p *Parameter) NumericRange() (lo, hi json.Number, ok bool) {
	if p.Type != "float" && p.Type != "int" {
		return "", "", false
	}
	if len(p.Range) != 2 {
		return "", "", false
	}
	lo, okLo := p.Range[0].(json.Number)
	hi, okHi := p.Range[1].(json.Number)
	if !okLo || !okHi {
		return "", "", false
	}
	return lo, hi, true
}

// EnumValues returns the declared enumeration values as strings.
func (p *Parameter) EnumValues() []string {
	values := make([]string, 0, len(p.Enum))
	for _, v := range p.Enum {
		values = append(values, stringOf(v))
	}
	return values
}

// IsEnum reports whether the parameter is an enum with declared values.
func (p *Parameter) IsEnum() bool {
	return p.Type == "enum" && len(p.Enum) > 0
}

func parameterOf(m map[string]any) *Parameter {
	p := &Parameter{
		Type:        stringOf(m["type"]),
		Range:       sliceOf(m["range"]),
		Enum:        sliceOf(m["enum"]),
		Unit:        stringOf(m["unit"]),
		Description: stringOf(m["description"]),
	}
	p.Default, p.HasDefault = m["default"]
	return p
}

func artifactsOf(v any) []*Artifact {
	var out []*Artifact
	for _, item := range sliceOf(v) {
		m := mapOf(item)
		out = append(out, &Artifact{
			ID:          stringOf(m["artifact_id"]),
			Type:        stringOf(m["type"]),
			Scope:       stringOf(m["scope"]),
			Description: stringOf(m["description"]),
		})
	}
	return out
}

// registryOf accepts both the list form [{artifact_id, scope}] and the
// mapping form {artifact_id: scope}. Mapping entries are sorted by id.
func registryOf(v any) []*RegistryEntry {
	var out []*RegistryEntry
	switch reg := v.(type) {
	case []any:
		for _, item := range reg {
			m := mapOf(item)
			out = append(out, &RegistryEntry{
				ArtifactID: stringOf(m["artifact_id"]),
				Scope:      stringOf(m["scope"]),
			})
		}
	case map[string]any:
		ids := make([]string, 0, len(reg))
		for id := range reg {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			scope := reg[id]
			if m, ok := scope.(map[string]any); ok {
				scope = m["scope"]
			}
			out = append(out, &RegistryEntry{ArtifactID: id, Scope: stringOf(scope)})
		}
	}
	return out
}

func schemaNode(tree map[string]any) map[string]any {
	if s, ok := tree["_schema"].(map[string]any); ok {
		return s
	}
	return mapOf(tree["schema"])
}

func mapOf(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func sliceOf(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func stringsOf(v any) []string {
	items := sliceOf(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringOf(item))
	}
	return out
}

// stringOf renders scalar JSON values as strings; null and containers read
// as the empty string.
func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
