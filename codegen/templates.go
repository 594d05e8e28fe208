package codegen

import (
	"embed"
	"fmt"
)

const (
	goHeaderT       = "header.go.tpl"
	markdownHeaderT = "header.md.tpl"
	traceabilityT   = "traceability.go.tpl"
	configT         = "config.go.tpl"
	ioTypesT        = "io_types.go.tpl"
	validatorsT     = "validators.go.tpl"
	pipelineT       = "pipeline.go.tpl"
	cliT            = "cli.go.tpl"
	readmeT         = "readme.md.tpl"
)

//go:embed templates/*.tpl
var templateFS embed.FS

// readTemplate returns the source of the named embedded template. Templates
// are compiled into the binary so a missing one is a programming error.
func readTemplate(name string) string {
	src, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("codegen: missing template %s: %v", name, err)) // bug
	}
	return string(src)
}
