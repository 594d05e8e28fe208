package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/contractgen/codegen"
	"goa.design/contractgen/generator"
)

const toneContract = `{
  "module_id": "A-V-1",
  "module_abbr": "TONE",
  "module_type": "PROCESS",
  "version": "1.0.0",
  "parameters": {"strength": {"type": "float", "range": [0, 1], "default": 0.5}}
}`

func TestRun_All(t *testing.T) {
	contracts, modules := setup(t)
	code, stdout, stderr := execute(t, "--all", "--contracts-dir", contracts, "--modules-dir", modules)
	require.Equal(t, exitOK, code, stderr)
	require.Equal(t, "Generated:\n  - "+filepath.Join(modules, "TONE")+"\n", stdout)
	_, err := os.Stat(filepath.Join(modules, "TONE", codegen.ConfigFile))
	require.NoError(t, err)
}

func TestRun_Module(t *testing.T) {
	contracts, modules := setup(t)
	code, stdout, stderr := execute(t, "--module", "tone", "--contracts-dir", contracts, "--modules-dir", modules)
	require.Equal(t, exitOK, code, stderr)
	require.Contains(t, stdout, filepath.Join(modules, "TONE"))
}

func TestRun_SelectionEmpty(t *testing.T) {
	contracts, modules := setup(t)
	code, _, stderr := execute(t, "--module", "NOPE", "--contracts-dir", contracts, "--modules-dir", modules)
	require.Equal(t, exitFailure, code)
	require.Contains(t, stderr, "no contracts selected")
}

func TestRun_FailedContract(t *testing.T) {
	contracts, modules := setup(t)
	bad := filepath.Join(contracts, "bad_contract_stageA_FINAL.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))

	code, stdout, stderr := execute(t, "--all", "--contracts-dir", contracts, "--modules-dir", modules)
	require.Equal(t, exitFailure, code)
	require.Contains(t, stdout, filepath.Join(modules, "TONE"))
	require.Contains(t, stderr, "FAILED "+bad)
}

func TestRun_DryRunJSON(t *testing.T) {
	contracts, modules := setup(t)
	code, stdout, stderr := execute(t, "--all", "--dry-run", "--format", "json",
		"--contracts-dir", contracts, "--modules-dir", modules)
	require.Equal(t, exitOK, code, stderr)

	var report generator.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.True(t, report.DryRun)
	require.Len(t, report.Results, 1)
	require.Len(t, report.Results[0].Files, 6)
	_, err := os.Stat(modules)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_UsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no selection", nil},
		{"both selections", []string{"--all", "--module", "TONE"}},
		{"unknown flag", []string{"--bogus"}},
		{"unknown format", []string{"--all", "--format", "xml"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, _, stderr := execute(t, c.args...)
			require.Equal(t, exitUsage, code)
			require.Contains(t, stderr, "error:")
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	require.Equal(t, exitOK, code)
	require.Equal(t, "contractgen v"+codegen.Version+"\n", stdout)
}

func setup(t *testing.T) (contracts, modules string) {
	t.Helper()
	root := t.TempDir()
	contracts = filepath.Join(root, "contracts")
	modules = filepath.Join(root, "modules")
	require.NoError(t, os.MkdirAll(contracts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contracts, "tone_contract_stageA_FINAL.json"), []byte(toneContract), 0o644))
	return contracts, modules
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}
