package generator

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"goa.design/contractgen/codegen"
	"goa.design/contractgen/contract"
	"goa.design/contractgen/telemetry"
)

const (
	contractsDir = "stageA/contracts"
	modulesDir   = "stageB/modules"
)

func toneContract(abbr string) string {
	return `{
  "module_id": "A-V-1",
  "module_abbr": "` + abbr + `",
  "module_type": "PROCESS",
  "version": "1.0.0",
  "parameters": {"strength": {"type": "float", "range": [0, 1], "default": 0.5}},
  "io_contract": {
    "inputs": [{"artifact_id": "input_data", "type": "json"}],
    "outputs": [{"artifact_id": "output_result", "type": "json"}]
  }
}`
}

func TestRun_All(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	writeContract(t, fs, "blur_contract_stageA_FINAL.json", toneContract("BLUR"))
	metrics := &recordingMetrics{}
	g := newGenerator(t, fs, false, metrics)

	report, err := g.Run(context.Background(), Selection{All: true})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	require.Empty(t, report.Failed())
	require.NotEmpty(t, report.RunID)

	// Discovery order is sorted by path.
	require.Equal(t, "BLUR", report.Results[0].Module)
	require.Equal(t, "TONE", report.Results[1].Module)

	res := report.Results[1]
	require.Equal(t, modulesDir+"/TONE", res.Dir)
	require.Len(t, res.Files, 6)
	for _, name := range []string{
		codegen.ConfigFile, codegen.IOTypesFile, codegen.ValidatorsFile,
		codegen.PipelineFile, codegen.CLIFile, codegen.ReadmeFile,
	} {
		content, err := util.ReadFile(fs, modulesDir+"/TONE/"+name)
		require.NoError(t, err, name)
		require.Contains(t, string(content), "Code generated by contractgen", name)
	}
	require.Equal(t, 2.0, metrics.counter("contractgen.contracts", "ok"))
}

func TestRun_Idempotent(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	g := newGenerator(t, fs, false, nil)

	_, err := g.Run(context.Background(), Selection{All: true})
	require.NoError(t, err)
	first := readModule(t, fs, "TONE")
	_, err = g.Run(context.Background(), Selection{All: true})
	require.NoError(t, err)
	require.Equal(t, first, readModule(t, fs, "TONE"))
}

func TestRun_BulkIsolatesFailures(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "aaa_contract_stageA_FINAL.json", `{"module_abbr": `)
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	metrics := &recordingMetrics{}
	g := newGenerator(t, fs, false, metrics)

	report, err := g.Run(context.Background(), Selection{All: true})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	failed := report.Failed()
	require.Len(t, failed, 1)
	require.True(t, strings.HasSuffix(failed[0].Contract, "aaa_contract_stageA_FINAL.json"))
	require.ErrorIs(t, failed[0].Err, contract.ErrMalformedContract)
	var cerr *ContractError
	require.ErrorAs(t, failed[0].Err, &cerr)
	require.Equal(t, StageParse, cerr.Stage)
	require.NotEmpty(t, failed[0].Error)

	require.Len(t, report.Succeeded(), 1)
	_, err = fs.Stat(modulesDir + "/TONE/" + codegen.ConfigFile)
	require.NoError(t, err)
	require.Equal(t, 1.0, metrics.counter("contractgen.contracts", "failed"))
	require.Equal(t, 1.0, metrics.counter("contractgen.contracts", "ok"))
}

func TestRun_SingleModuleAbortsOnFailure(t *testing.T) {
	base := memfs.New()
	writeContract(t, base, "a_contract_stageA_FINAL.json", toneContract("DUP"))
	writeContract(t, base, "b_contract_stageA_FINAL.json", toneContract("DUP"))
	writeErr := errors.New("disk full")
	fs := &failingFS{Filesystem: base, prefix: modulesDir, err: writeErr}
	g := newGenerator(t, fs, false, nil)

	report, err := g.Run(context.Background(), Selection{Module: "DUP"})
	require.ErrorIs(t, err, writeErr)
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, StageWrite, cerr.Stage)
	require.Len(t, report.Results, 1, "the second contract is not attempted")
}

func TestRun_SelectsByDeclaredAbbreviation(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "misnamed_contract_stageA_FINAL.json", toneContract("TONE"))
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("OTHER"))
	writeContract(t, fs, "broken_contract_stageA_FINAL.json", `[]`)
	g := newGenerator(t, fs, false, nil)

	report, err := g.Run(context.Background(), Selection{Module: " tone "})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.True(t, strings.HasSuffix(report.Results[0].Contract, "misnamed_contract_stageA_FINAL.json"))
}

func TestRun_SelectionEmpty(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	g := newGenerator(t, fs, false, nil)

	_, err := g.Run(context.Background(), Selection{Module: "NOPE"})
	require.ErrorIs(t, err, ErrSelectionEmpty)

	empty := newGenerator(t, memfs.New(), false, nil)
	_, err = empty.Run(context.Background(), Selection{All: true})
	require.ErrorIs(t, err, ErrSelectionEmpty)
}

func TestRun_InvalidSelection(t *testing.T) {
	g := newGenerator(t, memfs.New(), false, nil)
	_, err := g.Run(context.Background(), Selection{})
	require.ErrorIs(t, err, ErrInvalidSelection)
	_, err = g.Run(context.Background(), Selection{All: true, Module: "TONE"})
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestRun_Canceled(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	g := newGenerator(t, fs, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := g.Run(ctx, Selection{All: true})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Results)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	g := newGenerator(t, fs, true, nil)

	report, err := g.Run(context.Background(), Selection{All: true})
	require.NoError(t, err)
	require.True(t, report.DryRun)
	require.Len(t, report.Results[0].Files, 6)
	_, err = fs.Stat(modulesDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateContract_KeepsHandAuthoredFiles(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	require.NoError(t, util.WriteFile(fs, modulesDir+"/TONE/module.go", []byte("package tone\n"), 0o644))
	g := newGenerator(t, fs, false, nil)

	_, err := g.GenerateContract(context.Background(), contractsDir+"/tone_contract_stageA_FINAL.json")
	require.NoError(t, err)
	content, err := util.ReadFile(fs, modulesDir+"/TONE/module.go")
	require.NoError(t, err)
	require.Equal(t, "package tone\n", string(content))
	infos, err := fs.ReadDir(modulesDir + "/TONE")
	require.NoError(t, err)
	require.Len(t, infos, 7)
}

func TestGenerateContract_MissingFile(t *testing.T) {
	g := newGenerator(t, memfs.New(), false, nil)
	res, err := g.GenerateContract(context.Background(), "nope.json")
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, StageRead, cerr.Stage)
	require.Equal(t, err, res.Err)
	require.False(t, res.OK())
}

func TestGenerateContract_RenderOptions(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "tone_contract_stageA_FINAL.json", toneContract("TONE"))
	g, err := New(fs, Options{
		ContractsDir: contractsDir,
		ModulesDir:   modulesDir,
		Render:       codegen.Options{Regenerate: "make generate"},
	})
	require.NoError(t, err)

	_, err = g.GenerateContract(context.Background(), contractsDir+"/tone_contract_stageA_FINAL.json")
	require.NoError(t, err)
	content, err := util.ReadFile(fs, modulesDir+"/TONE/"+codegen.PipelineFile)
	require.NoError(t, err)
	require.Contains(t, string(content), "Regenerate with: make generate")
}

func TestNew_ValidatesOptions(t *testing.T) {
	_, err := New(nil, Options{ContractsDir: "a", ModulesDir: "b"})
	require.Error(t, err)
	_, err = New(memfs.New(), Options{ModulesDir: "b"})
	require.Error(t, err)
	_, err = New(memfs.New(), Options{ContractsDir: "a"})
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "b_contract_stageA_FINAL.json", "{}")
	writeContract(t, fs, "a_contract_stageA_FINAL.json", "{}")
	writeContract(t, fs, "notes.json", "{}")
	writeContract(t, fs, "c_contract_stageA_DRAFT.json", "{}")
	require.NoError(t, fs.MkdirAll(contractsDir+"/d_contract_stageA_FINAL.json", 0o755))

	paths, err := Discover(fs, contractsDir, "*_contract_stageA_FINAL.json")
	require.NoError(t, err)
	require.Equal(t, []string{
		contractsDir + "/a_contract_stageA_FINAL.json",
		contractsDir + "/b_contract_stageA_FINAL.json",
	}, paths)

	paths, err = Discover(fs, "missing", "*.json")
	require.NoError(t, err)
	require.Empty(t, paths)
}

func TestFilterByAbbr(t *testing.T) {
	fs := memfs.New()
	writeContract(t, fs, "x.json", toneContract("TONE"))
	writeContract(t, fs, "y.json", `not json`)

	selected, skipped := FilterByAbbr(fs, []string{
		contractsDir + "/x.json",
		contractsDir + "/y.json",
		contractsDir + "/z.json",
	}, "Tone")
	require.Equal(t, []string{contractsDir + "/x.json"}, selected)
	require.Len(t, skipped, 2)
	var cerr *ContractError
	require.ErrorAs(t, skipped[0], &cerr)
	require.Equal(t, StageParse, cerr.Stage)
	require.ErrorAs(t, skipped[1], &cerr)
	require.Equal(t, StageRead, cerr.Stage)
}

func newGenerator(t *testing.T, fs billy.Filesystem, dryRun bool, metrics telemetry.Metrics) *Generator {
	t.Helper()
	g, err := New(fs, Options{
		ContractsDir: contractsDir,
		ModulesDir:   modulesDir,
		DryRun:       dryRun,
		Telemetry:    telemetry.Set{Metrics: metrics},
	})
	require.NoError(t, err)
	return g
}

func writeContract(t *testing.T, fs billy.Filesystem, name, body string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, contractsDir+"/"+name, []byte(body), 0o644))
}

func readModule(t *testing.T, fs billy.Filesystem, abbr string) map[string]string {
	t.Helper()
	dir := modulesDir + "/" + abbr
	infos, err := fs.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(infos))
	for _, info := range infos {
		content, err := util.ReadFile(fs, dir+"/"+info.Name())
		require.NoError(t, err)
		out[info.Name()] = string(content)
	}
	return out
}

// failingFS fails file creation below prefix.
type failingFS struct {
	billy.Filesystem
	prefix string
	err    error
}

func (fs *failingFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 && strings.HasPrefix(name, fs.prefix) {
		return nil, fs.err
	}
	return fs.Filesystem.OpenFile(name, flag, perm)
}

// recordingMetrics sums counters by name and status tag.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]float64
}

func (m *recordingMetrics) IncCounter(name string, value float64, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]float64)
	}
	m.counters[name+"|"+strings.Join(tags, ",")] += value
}

func (m *recordingMetrics) RecordTimer(string, time.Duration, ...string) {}

func (m *recordingMetrics) RecordGauge(string, float64, ...string) {}

func (m *recordingMetrics) counter(name, status string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name+"|status,"+status]
}
