package codegen

import (
	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/contract"
)

// cliData is the data of the CLI template.
type cliData struct {
	Program    string
	Abbr       string
	ModuleID   string
	ModuleType string
}

// CLIRenderer renders cli_autogen.go: a Main function wiring JSON inputs and
// parameters files to the pipeline.
func CLIRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	data := &cliData{
		Program:    naming.SanitizeToken(meta.ModuleAbbr, "module"),
		Abbr:       meta.ModuleAbbr,
		ModuleID:   meta.ModuleID,
		ModuleType: meta.ModuleType,
	}
	return &goacodegen.File{
		Path: CLIFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			goHeader(newStamp(meta, opts),
				"bytes", "context", "encoding/json", "errors", "flag", "fmt", "io", "os"),
			{
				Name:    "cli",
				Source:  readTemplate(cliT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}
