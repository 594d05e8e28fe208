package codegen

import (
	"strconv"

	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/contract"
)

type (
	// pipelineData is the data of the pipeline template.
	pipelineData struct {
		Abbr       string
		ModuleID   string
		ModuleType string
		Version    string
		Steps      []*stepData
		Registry   []*contract.RegistryEntry
	}

	// stepData describes one step method.
	stepData struct {
		Method   string
		Key      string
		ID       string
		Name     string
		Type     string
		Doc      string
		Uses     string
		Produces string
	}
)

// PipelineRenderer renders pipeline_autogen.go: the Pipeline type with one
// stub method per algorithm step, run in declaration order.
func PipelineRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	data := &pipelineData{
		Abbr:       meta.ModuleAbbr,
		ModuleID:   meta.ModuleID,
		ModuleType: meta.ModuleType,
		Version:    meta.Version,
		Registry:   c.ArtifactRegistry,
	}
	methods := naming.NewGoScope()
	for i, s := range c.Steps {
		key := stepKey(s, i)
		data.Steps = append(data.Steps, &stepData{
			Method:   "step" + methods.Name(naming.SafeIdentifier(key, true)),
			Key:      key,
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Doc:      s.Description,
			Uses:     stringSliceLiteral(s.Uses),
			Produces: stringSliceLiteral(s.Produces),
		})
	}
	imports := []string{"context", "strings"}
	if len(data.Steps) > 0 {
		imports = append(imports, "fmt")
	}
	return &goacodegen.File{
		Path: PipelineFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			goHeader(newStamp(meta, opts), imports...),
			{
				Name:    "pipeline",
				Source:  readTemplate(pipelineT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}

// stepKey returns the name a step method derives from: the step id, else its
// name, else its 1-based position.
func stepKey(s *contract.Step, i int) string {
	switch {
	case s.ID != "":
		return s.ID
	case s.Name != "":
		return s.Name
	default:
		return "step_" + strconv.Itoa(i+1)
	}
}
