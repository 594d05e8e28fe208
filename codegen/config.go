package codegen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/codegen/typemap"
	"goa.design/contractgen/contract"
)

type (
	// configData is the data of the config template.
	configData struct {
		Abbr       string
		ModuleID   string
		Version    string
		Enums      []*enumData
		Fields     []*paramField
		Renamed    []naming.Pair
		Required   []*paramField
		Ranges     []*rangeCheck
		KnownNames []string
	}

	// enumData describes the string type generated for an enum parameter.
	enumData struct {
		TypeName string
		Param    string
		Values   []enumValue
	}

	enumValue struct {
		Const string
		Value string
	}

	// paramField describes one Parameters struct field.
	paramField struct {
		// Name is the Go field name.
		Name string
		// Ident is the sanitized name, used as JSON tag.
		Ident string
		// Contract is the parameter name as declared in the contract.
		Contract string
		// Type is the Go type expression of the field.
		Type string
		// Default is the Go literal of the default value, empty when the
		// field starts at its zero value.
		Default string
		// Required is true when the contract declares no default.
		Required bool
		// Doc is the one-line field comment.
		Doc string
	}

	// rangeCheck describes a bounds check emitted in ValidateRanges.
	rangeCheck struct {
		Contract string
		Ident    string
		// Guard is a nil check for optional fields, empty otherwise.
		Guard string
		// Value is the expression compared against the bounds.
		Value string
		Min   string
		Max   string
	}
)

// ConfigRenderer renders config_autogen.go: traceability constants, enum
// types and the Parameters record with its defaults, field map and
// validation helpers.
func ConfigRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	stamp := newStamp(meta, opts)
	data, err := buildConfigData(meta, c)
	if err != nil {
		return nil, &RenderError{File: ConfigFile, Err: err}
	}
	return &goacodegen.File{
		Path: ConfigFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			goHeader(stamp, "encoding/json", "fmt"),
			traceabilitySection(stamp),
			{
				Name:    "config",
				Source:  readTemplate(configT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}

func buildConfigData(meta contract.Meta, c *contract.Contract) (*configData, error) {
	data := &configData{
		Abbr:     meta.ModuleAbbr,
		ModuleID: meta.ModuleID,
		Version:  meta.Version,
	}
	pkgScope := naming.NewGoScope(reservedNames...)
	fields := naming.NewGoScope("ValidateRequired", "ValidateRanges", "ContractFieldMap")
	idents := naming.NewMapper(true)

	for _, name := range c.ParameterNames() {
		p := c.Parameters[name]
		ident := idents.Add(name)
		f := &paramField{
			Name:     fields.Name(ident),
			Ident:    ident,
			Contract: name,
			Doc:      paramDoc(name, p),
		}

		var valueType string
		var enum *enumData
		if p.IsEnum() {
			enum = newEnum(pkgScope, ident, name, p.EnumValues())
			data.Enums = append(data.Enums, enum)
			valueType = enum.TypeName
		} else {
			valueType = typemap.ParamType(p.Type)
		}

		switch {
		case !p.HasDefault:
			f.Type = typemap.Optional(valueType)
			f.Required = true
		case enum != nil:
			f.Type, f.Default = enumDefault(enum, valueType, p.Default)
		default:
			if lit, ok := typemap.Literal(p.Default, valueType); ok {
				f.Type = valueType
				if lit != "nil" {
					f.Default = lit
				}
			} else {
				f.Type = typemap.Optional(valueType)
			}
		}
		data.Fields = append(data.Fields, f)
		data.KnownNames = append(data.KnownNames, ident)
		if f.Required {
			data.Required = append(data.Required, f)
		}
		if lo, hi, ok := p.NumericRange(); ok {
			rc, err := newRangeCheck(f, lo, hi)
			if err != nil {
				return nil, err
			}
			data.Ranges = append(data.Ranges, rc)
		}
	}
	data.Renamed = idents.RenamedPairs()
	return data, nil
}

// newEnum names the enum type and its constants. Constant names are the type
// name followed by the upper-cased sanitized value; duplicate values are
// emitted once.
func newEnum(scope *naming.GoScope, ident, param string, values []string) *enumData {
	e := &enumData{TypeName: scope.Name(ident + "_type"), Param: param}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		suffix := strings.ToUpper(naming.SafeIdentifier(v, false))
		e.Values = append(e.Values, enumValue{
			Const: scope.Name(ident + "_type_" + suffix),
			Value: v,
		})
	}
	return e
}

// enumDefault returns the field type and default literal of an enum
// parameter with a declared default. A default that is not one of the
// declared values is kept as a conversion; a non-string default leaves the
// field optional.
func enumDefault(e *enumData, valueType string, def any) (string, string) {
	s, ok := def.(string)
	if !ok {
		return typemap.Optional(valueType), ""
	}
	for _, v := range e.Values {
		if v.Value == s {
			return valueType, v.Const
		}
	}
	return valueType, valueType + "(" + strconv.Quote(s) + ")"
}

// newRangeCheck returns the range check of f. Bounds must be finite float64
// values: they are compared as untyped constants in the generated code.
func newRangeCheck(f *paramField, lo, hi json.Number) (*rangeCheck, error) {
	for _, b := range []json.Number{lo, hi} {
		if !typemap.Finite(b) {
			return nil, fmt.Errorf("parameter %q: range bound %s is not a finite float64", f.Contract, b)
		}
	}
	rc := &rangeCheck{
		Contract: f.Contract,
		Ident:    f.Ident,
		Value:    "p." + f.Name,
		Min:      lo.String(),
		Max:      hi.String(),
	}
	if strings.HasPrefix(f.Type, "*") {
		rc.Guard = "p." + f.Name + " != nil"
		rc.Value = "*p." + f.Name
	}
	if strings.TrimPrefix(f.Type, "*") == typemap.Int {
		rc.Value = "float64(" + rc.Value + ")"
	}
	return rc, nil
}

// paramDoc returns the one-line comment of a parameter field.
func paramDoc(name string, p *contract.Parameter) string {
	parts := []string{"contract_name=" + name}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.Unit != "" {
		parts = append(parts, "unit="+p.Unit)
	}
	if len(p.Range) > 0 {
		parts = append(parts, "range="+jsonText(p.Range))
	}
	if len(p.Enum) > 0 {
		parts = append(parts, "enum="+jsonText(p.Enum))
	}
	if !p.HasDefault {
		parts = append(parts, "required_in_contract=true")
	}
	return oneLine(strings.Join(parts, " | "))
}

// jsonText renders a decoded contract value as compact JSON. Object keys come
// out sorted.
func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(b)
}
