package codegen

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"
	"text/template"

	goacodegen "goa.design/goa/v3/codegen"
	"mvdan.cc/gofumpt/format"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/contract"
)

// Artifact file names. Every generated file name ends in "_autogen" followed
// by its extension; the output writer refuses any other name.
const (
	ConfigFile     = "config_autogen.go"
	IOTypesFile    = "io_types_autogen.go"
	ValidatorsFile = "validators_autogen.go"
	PipelineFile   = "pipeline_autogen.go"
	CLIFile        = "cli_autogen.go"
	ReadmeFile     = "README_autogen.md"
)

// Renderer builds the file description of one artifact.
type Renderer func(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error)

// Renderers lists the artifact renderers in generation order.
var Renderers = []Renderer{
	ConfigRenderer,
	IOTypesRenderer,
	ValidatorsRenderer,
	PipelineRenderer,
	CLIRenderer,
	ReadmeRenderer,
}

// Artifact is one rendered file.
type Artifact struct {
	// Name is the file name relative to the module directory.
	Name string
	// Content is the final file content.
	Content []byte
}

// RenderError reports a section that failed to execute or a Go artifact
// that failed to format.
type RenderError struct {
	File    string
	Section string
	Err     error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("render %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("render %s (section %s): %v", e.File, e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error { return e.Err }

// Files returns the file descriptions of all six artifacts.
func Files(meta contract.Meta, c *contract.Contract, opts Options) ([]*goacodegen.File, error) {
	files := make([]*goacodegen.File, 0, len(Renderers))
	for _, r := range Renderers {
		f, err := r(meta, c, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// RenderAll renders all six artifacts in memory. Nothing is returned unless
// every artifact rendered.
func RenderAll(meta contract.Meta, c *contract.Contract, opts Options) ([]Artifact, error) {
	files, err := Files(meta, c, opts)
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, 0, len(files))
	for _, f := range files {
		content, err := Render(f)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Name: f.Path, Content: content})
	}
	return artifacts, nil
}

// Render executes the sections of f in order. Go files are formatted with
// gofumpt.
func Render(f *goacodegen.File) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range f.SectionTemplates {
		tmpl, err := template.New(s.Name).Funcs(template.FuncMap(s.FuncMap)).Parse(s.Source)
		if err != nil {
			return nil, &RenderError{File: f.Path, Section: s.Name, Err: err}
		}
		if err := tmpl.Execute(&buf, s.Data); err != nil {
			return nil, &RenderError{File: f.Path, Section: s.Name, Err: err}
		}
	}
	if path.Ext(f.Path) != ".go" {
		return normalizeNewlines(buf.Bytes()), nil
	}
	formatted, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return nil, &RenderError{File: f.Path, Err: err}
	}
	return formatted, nil
}

// normalizeNewlines trims trailing blank lines so non-Go artifacts end with
// exactly one newline.
func normalizeNewlines(b []byte) []byte {
	return append(bytes.TrimRight(b, "\n"), '\n')
}

func packageName(meta contract.Meta) string {
	return naming.PackageName(meta.ModuleAbbr)
}

// reservedNames are the package-level names declared by the fixed parts of
// the templates. Names derived from contract values never take them.
var reservedNames = []string{
	// config
	"GeneratorVersion", "ContractID", "ModuleAbbr", "ModuleType",
	"ContractVersion", "SchemaName", "SchemaVersion", "ContractSHA256",
	"Traceability", "CheckContractSHA256", "Parameters", "DefaultParameters",
	"ParametersContractFieldMap", "ParametersRequiredFields",
	"ParametersFromContractMap", "FieldError",
	// io types
	"BBox", "MaskArray", "ImageArray", "PathData", "Inputs", "Outputs",
	"InputsContractFieldMap", "OutputsContractFieldMap",
	"InputsFromContractMap", "OutputsFromContractMap",
	// validators
	"Severity", "SeverityError", "SeverityWarning", "ValidationIssue",
	"Constraint", "Constraints", "ValidationRule", "ValidationRules",
	"ValidateParameters", "IsValid",
	// pipeline
	"StepResult", "PipelineState", "ArtifactScope", "ArtifactRegistry",
	"ParameterValidationError", "Pipeline", "NewPipeline", "RunSkeleton",
	// cli
	"Main",
}

// stringSliceLiteral renders values as a []string literal, or nil when empty.
func stringSliceLiteral(values []string) string {
	if len(values) == 0 {
		return "nil"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
