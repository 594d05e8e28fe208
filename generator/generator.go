// Package generator drives contract generation: it discovers contracts,
// applies the module selection, renders the six artifacts of each contract
// and writes them to the module directory.
//
// Contracts are processed one at a time in path order. Rendering happens in
// memory before the module directory is touched, so a contract that fails to
// parse or render leaves its directory as it was.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"goa.design/contractgen/codegen"
	"goa.design/contractgen/codegen/naming"
	"goa.design/contractgen/config"
	"goa.design/contractgen/contract"
	"goa.design/contractgen/output"
	"goa.design/contractgen/telemetry"
)

type (
	// Options configures a Generator.
	Options struct {
		// ContractsDir is scanned for contract files.
		ContractsDir string
		// ModulesDir receives one directory per module.
		ModulesDir string
		// ContractGlob selects contract files by base name. Defaults to
		// config.DefaultContractGlob.
		ContractGlob string
		// Render tunes the renderers.
		Render codegen.Options
		// DryRun renders every artifact but writes nothing.
		DryRun bool
		// Telemetry receives logs, metrics and spans. Nil hooks are no-ops.
		Telemetry telemetry.Set
	}

	// Selection chooses the contracts of a run.
	Selection struct {
		// All selects every discovered contract. Failures are isolated per
		// contract.
		All bool
		// Module selects the contracts declaring this module abbreviation.
		// The first failure aborts the run.
		Module string
	}

	// Generator generates module skeletons from contracts.
	Generator struct {
		fs     billy.Filesystem
		writer *output.Writer
		opts   Options
		tel    telemetry.Set
	}
)

// New returns a generator reading contracts from and writing modules to fs.
func New(fs billy.Filesystem, opts Options) (*Generator, error) {
	if opts.ContractGlob == "" {
		opts.ContractGlob = config.DefaultContractGlob
	}
	if err := validateOptions(fs, opts); err != nil {
		return nil, err
	}
	return &Generator{
		fs:     fs,
		writer: &output.Writer{FS: fs},
		opts:   opts,
		tel:    opts.Telemetry.WithDefaults(),
	}, nil
}

// NewFromConfig returns a generator configured from cfg.
func NewFromConfig(fs billy.Filesystem, cfg config.Config, dryRun bool, tel telemetry.Set) (*Generator, error) {
	return New(fs, Options{
		ContractsDir: cfg.ContractsDir,
		ModulesDir:   cfg.ModulesDir,
		ContractGlob: cfg.ContractGlob,
		Render:       codegen.Options{Regenerate: cfg.RegenerateCommand},
		DryRun:       dryRun,
		Telemetry:    tel,
	})
}

func validateOptions(fs billy.Filesystem, opts Options) error {
	switch {
	case fs == nil:
		return errors.New("generator: filesystem is required")
	case opts.ContractsDir == "":
		return errors.New("generator: contracts directory is required")
	case opts.ModulesDir == "":
		return errors.New("generator: modules directory is required")
	}
	return nil
}

func (s Selection) validate() error {
	if s.All == (s.Module != "") {
		return ErrInvalidSelection
	}
	return nil
}

// Run generates the selected contracts. In bulk mode every contract is
// attempted and failures are only recorded in the report. In single-module
// mode the first failure is returned. ErrSelectionEmpty is returned, wrapped,
// when nothing matches.
func (g *Generator) Run(ctx context.Context, sel Selection) (*Report, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}
	report := &Report{RunID: uuid.NewString(), DryRun: g.opts.DryRun}
	log := g.tel.Logger

	paths, err := Discover(g.fs, g.opts.ContractsDir, g.opts.ContractGlob)
	if err != nil {
		return report, fmt.Errorf("discover contracts in %s: %w", g.opts.ContractsDir, err)
	}
	if !sel.All {
		var skipped []error
		paths, skipped = FilterByAbbr(g.fs, paths, sel.Module)
		for _, err := range skipped {
			log.Warn(ctx, "skipping unreadable contract", "run_id", report.RunID, "err", err)
		}
	}
	g.tel.Metrics.RecordGauge(telemetry.MetricSelected, float64(len(paths)))
	if len(paths) == 0 {
		if sel.All {
			return report, fmt.Errorf("%w: no %s in %s", ErrSelectionEmpty, g.opts.ContractGlob, g.opts.ContractsDir)
		}
		return report, fmt.Errorf("%w: no contract declares module %q", ErrSelectionEmpty, sel.Module)
	}
	log.Info(ctx, "generating", "run_id", report.RunID, "contracts", len(paths), "dry_run", g.opts.DryRun)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := g.GenerateContract(ctx, path)
		report.Results = append(report.Results, res)
		if err != nil && !sel.All {
			return report, err
		}
	}
	return report, nil
}

// GenerateContract renders the contract at path and writes its six
// artifacts. The returned Result is populated even on failure; its Err is
// the returned error.
func (g *Generator) GenerateContract(ctx context.Context, path string) (res Result, err error) {
	start := time.Now()
	res.Contract = path
	ctx, span := g.tel.Tracer.Start(ctx, "contractgen.generate",
		trace.WithAttributes(attribute.String("contract.path", path)))
	defer func() {
		res.Duration = time.Since(start)
		status := "ok"
		if err != nil {
			status = "failed"
			res.Err = err
			res.Error = err.Error()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			g.tel.Logger.Error(ctx, "generation failed", "contract", path, "err", err)
		} else {
			span.SetStatus(codes.Ok, "generated")
			g.tel.Logger.Info(ctx, "generated", "module", res.Module, "dir", res.Dir, "files", len(res.Files), "dry_run", g.opts.DryRun)
		}
		g.tel.Metrics.IncCounter(telemetry.MetricContracts, 1, "status", status)
		g.tel.Metrics.RecordTimer(telemetry.MetricGenerateDuration, res.Duration, "status", status)
		span.End()
	}()

	raw, err := util.ReadFile(g.fs, path)
	if err != nil {
		return res, &ContractError{Path: path, Stage: StageRead, Err: err}
	}
	c, meta, err := contract.LoadBytes(path, raw)
	if err != nil {
		return res, &ContractError{Path: path, Stage: StageParse, Err: err}
	}
	res.Module = meta.ModuleAbbr
	res.Dir = g.fs.Join(g.opts.ModulesDir, naming.ModuleDirName(meta.ModuleAbbr))
	span.AddEvent("parsed", "module", meta.ModuleAbbr, "sha256", meta.SHA256)

	artifacts, err := codegen.RenderAll(meta, c, g.opts.Render)
	if err != nil {
		return res, &ContractError{Path: path, Stage: StageRender, Err: err}
	}
	files := make([]string, len(artifacts))
	for i, a := range artifacts {
		files[i] = g.fs.Join(res.Dir, a.Name)
	}
	if g.opts.DryRun {
		res.Files = files
		g.tel.Metrics.IncCounter(telemetry.MetricArtifacts, float64(len(files)), "mode", "dry_run")
		return res, nil
	}

	if err := g.writer.MkdirAll(res.Dir); err != nil {
		return res, &ContractError{Path: path, Stage: StageMkdir, Err: err}
	}
	for i, a := range artifacts {
		if err := g.writer.Write(files[i], a.Content); err != nil {
			return res, &ContractError{Path: path, Stage: StageWrite, Err: err}
		}
		res.Files = append(res.Files, files[i])
		g.tel.Logger.Debug(ctx, "wrote artifact", "path", files[i], "bytes", len(a.Content))
	}
	g.tel.Metrics.IncCounter(telemetry.MetricArtifacts, float64(len(files)), "mode", "write")
	return res, nil
}
