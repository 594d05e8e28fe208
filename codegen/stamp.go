package codegen

import (
	"sort"

	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/contract"
)

// Version is the generator version stamped into every artifact.
const Version = "1.3.0"

// DefaultRegenerateCommand is the regeneration command printed in artifact
// headers when Options does not override it.
const DefaultRegenerateCommand = "contractgen --all"

// Options tunes rendering.
type Options struct {
	// Regenerate is the command printed in artifact headers.
	Regenerate string
}

func (o Options) regenerate() string {
	if o.Regenerate == "" {
		return DefaultRegenerateCommand
	}
	return o.Regenerate
}

// stampData is the data shared by the header and traceability sections.
type stampData struct {
	Version    string
	Regenerate string
	Meta       contract.Meta
	Package    string
	Imports    []string
}

func newStamp(meta contract.Meta, opts Options) stampData {
	return stampData{
		Version:    Version,
		Regenerate: opts.regenerate(),
		Meta:       meta,
		Package:    packageName(meta),
	}
}

// goHeader returns the header section of a Go artifact: the generated-code
// marker, the traceability comment block, the package clause and imports.
func goHeader(stamp stampData, imports ...string) *goacodegen.SectionTemplate {
	stamp.Imports = append([]string(nil), imports...)
	sort.Strings(stamp.Imports)
	return &goacodegen.SectionTemplate{
		Name:    "header",
		Source:  readTemplate(goHeaderT),
		Data:    stamp,
		FuncMap: templateFuncMap(),
	}
}

// markdownHeader returns the header section of a Markdown artifact.
func markdownHeader(stamp stampData) *goacodegen.SectionTemplate {
	return &goacodegen.SectionTemplate{
		Name:    "header",
		Source:  readTemplate(markdownHeaderT),
		Data:    stamp,
		FuncMap: templateFuncMap(),
	}
}

// traceabilitySection declares the traceability constants. It is emitted
// once per package, in the config artifact.
func traceabilitySection(stamp stampData) *goacodegen.SectionTemplate {
	return &goacodegen.SectionTemplate{
		Name:    "traceability",
		Source:  readTemplate(traceabilityT),
		Data:    stamp,
		FuncMap: templateFuncMap(),
	}
}
