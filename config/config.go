// Package config loads the generator configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// then environment variables. Command line flags are applied last by the
// command itself.
//
// # Environment
//
//	CONTRACTGEN_CONTRACTS_DIR  - directory scanned for contracts
//	CONTRACTGEN_MODULES_DIR    - directory receiving one sub-directory per module
//	CONTRACTGEN_CONTRACT_GLOB  - contract file name pattern
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the stage layout of the repository the generator runs in.
const (
	DefaultContractsDir = "stageA/contracts"
	DefaultModulesDir   = "stageB/modules"
	DefaultContractGlob = "*_contract_stageA_FINAL.json"
	DefaultRegenerate   = "contractgen --all"
)

// Environment variable names.
const (
	EnvContractsDir = "CONTRACTGEN_CONTRACTS_DIR"
	EnvModulesDir   = "CONTRACTGEN_MODULES_DIR"
	EnvContractGlob = "CONTRACTGEN_CONTRACT_GLOB"
)

// Config is the generator configuration.
type Config struct {
	// ContractsDir is scanned (non-recursively) for contract files.
	ContractsDir string `yaml:"contracts_dir"`
	// ModulesDir receives one directory per module abbreviation.
	ModulesDir string `yaml:"modules_dir"`
	// ContractGlob selects contract files by base name.
	ContractGlob string `yaml:"contract_glob"`
	// RegenerateCommand is printed in the header of every artifact.
	RegenerateCommand string `yaml:"regenerate_command"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ContractsDir:      DefaultContractsDir,
		ModulesDir:        DefaultModulesDir,
		ContractGlob:      DefaultContractGlob,
		RegenerateCommand: DefaultRegenerate,
	}
}

// Load returns the configuration read from the YAML file at path, layered
// over the defaults, with environment overrides applied. An empty path skips
// the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := cfg.decode(f); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// decode overlays the YAML document read from r onto cfg. Unknown keys are
// rejected; an empty document leaves cfg unchanged.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides fields from the environment. Empty values are ignored.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.ContractsDir, EnvContractsDir)
	set(&c.ModulesDir, EnvModulesDir)
	set(&c.ContractGlob, EnvContractGlob)
}

// Validate reports missing fields and malformed glob patterns.
func (c Config) Validate() error {
	switch {
	case c.ContractsDir == "":
		return errors.New("config: contracts_dir is required")
	case c.ModulesDir == "":
		return errors.New("config: modules_dir is required")
	case c.ContractGlob == "":
		return errors.New("config: contract_glob is required")
	}
	if _, err := filepath.Match(c.ContractGlob, ""); err != nil {
		return fmt.Errorf("config: contract_glob %q: %w", c.ContractGlob, err)
	}
	return nil
}

// Abs returns a copy of c whose directories are absolute, resolved against
// base when relative.
func (c Config) Abs(base string) Config {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}
	c.ContractsDir = resolve(c.ContractsDir)
	c.ModulesDir = resolve(c.ModulesDir)
	return c
}
