package codegen

import (
	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/contract"
)

type (
	// validatorsData is the data of the validators template.
	validatorsData struct {
		Abbr        string
		Constraints []*constraintCheck
		Rules       []*contract.Rule
	}

	// constraintCheck is one constraint and the stub checking it.
	constraintCheck struct {
		Func      string
		Expr      string
		ErrorCode string
	}
)

// ValidatorsRenderer renders validators_autogen.go: the validation issue
// types, the declared constraints and rules, one check stub per constraint
// and the ValidateParameters aggregate.
func ValidatorsRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	data := &validatorsData{Abbr: meta.ModuleAbbr, Rules: c.Rules}
	// Constraints sharing an error code still get one stub each.
	funcs := naming.NewGoScope()
	for _, cons := range c.Constraints {
		data.Constraints = append(data.Constraints, &constraintCheck{
			Func:      "check" + funcs.Name(naming.SafeIdentifier(cons.ErrorCode, true)),
			Expr:      cons.Expr,
			ErrorCode: cons.ErrorCode,
		})
	}
	return &goacodegen.File{
		Path: ValidatorsFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			goHeader(newStamp(meta, opts)),
			{
				Name:    "validators",
				Source:  readTemplate(validatorsT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}
