package codegen

import (
	"sort"
	"strings"

	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/contract"
)

type (
	// readmeData is the data of the README template.
	readmeData struct {
		Meta        contract.Meta
		Version     string
		TypeTitle   string
		NameEN      string
		NameUK      string
		Description string
		ShortSHA    string
		Inputs      []*contract.Artifact
		Outputs     []*contract.Artifact
		Params      []*readmeParam
		Steps       []*readmeStep
		Constraints []*contract.Constraint
	}

	readmeParam struct {
		Name        string
		Type        string
		Default     string
		Range       string
		Unit        string
		Description string
	}

	readmeStep struct {
		ID       string
		Name     string
		Type     string
		Uses     string
		Produces string
	}
)

// ReadmeRenderer renders README_autogen.md, the human-readable summary of
// the contract.
func ReadmeRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	data := &readmeData{
		Meta:        meta,
		Version:     Version,
		TypeTitle:   naming.HumanizeTitle(strings.ToLower(meta.ModuleType)),
		NameEN:      c.ModuleName.EN,
		NameUK:      c.ModuleName.UK,
		Description: strings.TrimSpace(c.Description),
		ShortSHA:    shortSHA(meta.SHA256),
		Inputs:      sortedArtifacts(c.IO.Inputs),
		Outputs:     sortedArtifacts(c.IO.Outputs),
		Constraints: c.Constraints,
	}
	for _, name := range c.ParameterNames() {
		p := c.Parameters[name]
		rp := &readmeParam{
			Name:        name,
			Type:        p.Type,
			Default:     "—",
			Range:       "—",
			Unit:        p.Unit,
			Description: p.Description,
		}
		if p.HasDefault {
			rp.Default = "`" + displayValue(p.Default) + "`"
		}
		if len(p.Range) > 0 {
			rp.Range = "`" + jsonText(p.Range) + "`"
		}
		data.Params = append(data.Params, rp)
	}
	for _, s := range c.Steps {
		data.Steps = append(data.Steps, &readmeStep{
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Uses:     strings.Join(s.Uses, ", "),
			Produces: strings.Join(s.Produces, ", "),
		})
	}
	return &goacodegen.File{
		Path: ReadmeFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			markdownHeader(newStamp(meta, opts)),
			{
				Name:    "readme",
				Source:  readTemplate(readmeT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}

// shortSHA abbreviates a fingerprint for display.
func shortSHA(sha string) string {
	if len(sha) <= 16 {
		return sha
	}
	return sha[:16] + "..."
}

// displayValue renders a contract value for documentation: strings verbatim,
// everything else as JSON.
func displayValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return jsonText(v)
}

func sortedArtifacts(artifacts []*contract.Artifact) []*contract.Artifact {
	out := append([]*contract.Artifact(nil), artifacts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
