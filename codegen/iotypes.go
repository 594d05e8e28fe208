package codegen

import (
	"sort"
	"strings"

	goacodegen "goa.design/goa/v3/codegen"

	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/codegen/typemap"
	"goa.design/contractgen/contract"
)

type (
	// ioTypesData is the data of the io types template.
	ioTypesData struct {
		Abbr    string
		Inputs  *recordData
		Outputs *recordData
	}

	// recordData describes the Inputs or Outputs record.
	recordData struct {
		// Name is the record type name.
		Name string
		// Known is the name of the unexported known-fields set.
		Known   string
		Fields  []*artifactField
		Renamed []naming.Pair
	}

	// artifactField is one field of an artifact record.
	artifactField struct {
		Name       string
		Ident      string
		ArtifactID string
		Type       string
		Doc        string
	}
)

// IOTypesRenderer renders io_types_autogen.go: the domain value types and the
// Inputs and Outputs records.
func IOTypesRenderer(meta contract.Meta, c *contract.Contract, opts Options) (*goacodegen.File, error) {
	data := &ioTypesData{
		Abbr:    meta.ModuleAbbr,
		Inputs:  buildRecord("Inputs", c.IO.Inputs),
		Outputs: buildRecord("Outputs", c.IO.Outputs),
	}
	return &goacodegen.File{
		Path: IOTypesFile,
		SectionTemplates: []*goacodegen.SectionTemplate{
			goHeader(newStamp(meta, opts), "fmt"),
			{
				Name:    "io-types",
				Source:  readTemplate(ioTypesT),
				Data:    data,
				FuncMap: templateFuncMap(),
			},
		},
	}, nil
}

// buildRecord sorts artifacts by id and keeps the first declaration of a
// duplicated id.
func buildRecord(name string, artifacts []*contract.Artifact) *recordData {
	byID := make(map[string]*contract.Artifact, len(artifacts))
	ids := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if _, dup := byID[a.ID]; dup {
			continue
		}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)

	rec := &recordData{Name: name, Known: strings.ToLower(name) + "KnownFields"}
	idents := naming.NewMapper(true)
	fields := naming.NewGoScope("ContractFieldMap")
	for _, id := range ids {
		a := byID[id]
		ident := idents.Add(id)
		rec.Fields = append(rec.Fields, &artifactField{
			Name:       fields.Name(ident),
			Ident:      ident,
			ArtifactID: id,
			Type:       typemap.Optional(typemap.Resolve("", a.Type)),
			Doc:        artifactDoc(a),
		})
	}
	rec.Renamed = idents.RenamedPairs()
	return rec
}

func artifactDoc(a *contract.Artifact) string {
	parts := []string{"artifact_id=" + a.ID}
	if a.Type != "" {
		parts = append(parts, "type="+a.Type)
	}
	if a.Scope != "" {
		parts = append(parts, "scope="+a.Scope)
	}
	if a.Description != "" {
		parts = append(parts, a.Description)
	}
	return oneLine(strings.Join(parts, " | "))
}
