// Command contractgen generates module skeletons from module contracts.
//
// Each contract found in the contracts directory yields six generated
// artifacts in <modules_dir>/<module_abbr>/. Hand-written files in the same
// directory are never touched.
//
// # Usage
//
//	contractgen --all
//	contractgen --module TONE
//	contractgen --all --dry-run --format json
//	contractgen version
//
// # Configuration
//
// Defaults can be overridden by a YAML file (--config), then by the
// CONTRACTGEN_CONTRACTS_DIR, CONTRACTGEN_MODULES_DIR and
// CONTRACTGEN_CONTRACT_GLOB environment variables, then by flags.
//
// # Exit codes
//
//	0  every selected contract was generated
//	1  nothing matched the selection, or a contract failed
//	2  usage error
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"goa.design/contractgen/codegen"
	"goa.design/contractgen/config"
	"goa.design/contractgen/generator"
	"goa.design/contractgen/telemetry"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	formatText = "text"
	formatJSON = "json"
)

// usageError marks errors caused by the command line itself.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// errFailures is returned when a bulk run completed with failed contracts.
var errFailures = errors.New("some contracts failed")

type flags struct {
	all          bool
	module       string
	configPath   string
	contractsDir string
	modulesDir   string
	dryRun       bool
	debug        bool
	format       string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// cobra reads os.Args when args is nil.
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	if !errors.Is(err, errFailures) {
		fmt.Fprintln(stderr, "error:", err)
	}
	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr, "run 'contractgen --help' for usage")
		return exitUsage
	}
	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "contractgen (--all | --module ABBR)",
		Short:         "Generate module skeletons from module contracts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd, f, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	fl := cmd.Flags()
	fl.BoolVar(&f.all, "all", false, "generate every discovered contract")
	fl.StringVar(&f.module, "module", "", "generate the contracts declaring this module abbreviation")
	fl.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fl.StringVar(&f.contractsDir, "contracts-dir", "", "directory scanned for contracts")
	fl.StringVar(&f.modulesDir, "modules-dir", "", "directory receiving the module directories")
	fl.BoolVar(&f.dryRun, "dry-run", false, "render every artifact but write nothing")
	fl.BoolVar(&f.debug, "debug", false, "enable debug logs")
	fl.StringVar(&f.format, "format", formatText, "output format: text or json")

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(stdout, "contractgen v%s\n", codegen.Version)
			return err
		},
	}
}

func generate(cmd *cobra.Command, f flags, stdout, stderr io.Writer) error {
	if f.all == (f.module != "") {
		return usageError{errors.New("exactly one of --all or --module is required")}
	}
	if f.format != formatText && f.format != formatJSON {
		return usageError{fmt.Errorf("unknown format %q", f.format)}
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.contractsDir != "" {
		cfg.ContractsDir = f.contractsDir
	}
	if f.modulesDir != "" {
		cfg.ModulesDir = f.modulesDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	cfg = cfg.Abs(cwd)

	ctx := log.Context(cmd.Context(),
		log.WithOutput(stderr),
		log.WithFormat(logFormat(f.format)),
		log.WithDisableBuffering(func(context.Context) bool { return true }))
	if f.debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}

	g, err := generator.NewFromConfig(osfs.New("/"), cfg, f.dryRun, telemetry.NewClue())
	if err != nil {
		return err
	}
	report, err := g.Run(ctx, generator.Selection{All: f.all, Module: f.module})
	if report != nil {
		if perr := printReport(stdout, stderr, report, f.format); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if len(report.Failed()) > 0 {
		return errFailures
	}
	return nil
}

func logFormat(format string) log.FormatFunc {
	switch {
	case format == formatJSON:
		return log.FormatJSON
	case log.IsTerminal():
		return log.FormatTerminal
	default:
		return log.FormatText
	}
}

// printReport writes the successful module directories to stdout and the
// failures to stderr, or the whole report as JSON to stdout.
func printReport(stdout, stderr io.Writer, report *generator.Report, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if ok := report.Succeeded(); len(ok) > 0 {
		title := "Generated:"
		if report.DryRun {
			title = "Would generate:"
		}
		fmt.Fprintln(stdout, title)
		for _, res := range ok {
			fmt.Fprintf(stdout, "  - %s\n", res.Dir)
		}
	}
	for _, res := range report.Failed() {
		fmt.Fprintf(stderr, "FAILED %s: %s\n", res.Contract, res.Error)
	}
	return nil
}
