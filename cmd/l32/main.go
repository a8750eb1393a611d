package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/fatih/color"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/desugar"
	"l32/interpreter-go/pkg/driver"
	"l32/interpreter-go/pkg/interpreter"
	"l32/interpreter-go/pkg/runtime"
)

const cliToolVersion = "l32-cli 0.1.0-dev"

type options struct {
	verbose bool
	desugar bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	args = parseGlobalFlags(args, &opts)
	if len(args) == 0 {
		printUsage()
		return 1
	}
	logger := newLogger(opts.verbose)

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], opts, logger)
	case "eval":
		return runEval(args[1:], opts, logger)
	case "repl":
		return runREPL(os.Stdin, os.Stdout, opts, logger)
	case "desugar":
		return runDesugar(args[1:], logger)
	case "js":
		return runJS(args[1:], logger)
	case "deps":
		return runDeps(args[1:], logger)
	default:
		return runEntry(args, opts, logger)
	}
}

// parseGlobalFlags strips --verbose and --desugar wherever they appear.
func parseGlobalFlags(args []string, opts *options) []string {
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "--verbose", "-v":
			opts.verbose = true
		case "--desugar":
			opts.desugar = true
		case "--no-color":
			color.NoColor = true
		default:
			rest = append(rest, arg)
		}
	}
	return rest
}

func newLogger(verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:  level,
		Prefix: "l32",
	})
	return slog.New(handler)
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), fmt.Sprintf(format, args...))
}

func runEntry(args []string, opts options, logger *slog.Logger) int {
	if len(args) > 1 {
		printError("unexpected arguments: %s", strings.Join(args[1:], " "))
		return 1
	}

	entry := ""
	searchFrom := "."
	if len(args) == 1 {
		entry = args[0]
		searchFrom = filepath.Dir(entry)
	}

	manifest, err := loadManifestFrom(searchFrom)
	switch {
	case err == nil:
	case errors.Is(err, driver.ErrManifestNotFound) && entry != "":
		manifest = nil
	case errors.Is(err, driver.ErrManifestNotFound):
		printError("l32 run requires a source file or a package.yml with main")
		return 1
	default:
		printError("failed to load manifest: %v", err)
		return 1
	}

	loader := newLoader(logger)
	var program *ast.Program
	if manifest != nil {
		program, err = loader.LoadProgram(manifest, entry)
	} else {
		program, err = loader.LoadFile(entry)
	}
	if err != nil {
		printError("failed to load program: %v", err)
		return 1
	}

	desugarFirst := opts.desugar || (manifest != nil && manifest.Desugar)
	return evaluateAndPrint(program, desugarFirst, logger)
}

func runEval(args []string, opts options, logger *slog.Logger) int {
	if len(args) == 0 {
		printError("l32 eval requires an expression")
		return 1
	}
	program, err := parseSource(strings.Join(args, " "))
	if err != nil {
		printError("%v", err)
		return 1
	}
	return evaluateAndPrint(program, opts.desugar, logger)
}

func evaluateAndPrint(program *ast.Program, desugarFirst bool, logger *slog.Logger) int {
	if desugarFirst {
		rewritten, err := desugar.DesugarDictionaries(program)
		if err != nil {
			printError("desugar failed: %v", err)
			return 1
		}
		program = rewritten
	}
	val, err := interpreter.New(interpreter.WithLogger(logger)).EvaluateProgram(program)
	if err != nil {
		printError("%v", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, runtime.Format(val))
	return 0
}

func runDesugar(args []string, logger *slog.Logger) int {
	if len(args) != 1 {
		printError("l32 desugar requires exactly one source file")
		return 1
	}
	program, err := newLoader(logger).LoadFile(args[0])
	if err != nil {
		printError("failed to load program: %v", err)
		return 1
	}
	rewritten, err := desugar.DesugarDictionaries(program)
	if err != nil {
		printError("desugar failed: %v", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, ast.UnparseProgram(rewritten))
	return 0
}

func runDeps(args []string, logger *slog.Logger) int {
	if len(args) == 0 {
		printError("l32 deps requires a subcommand (install)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			printError("l32 deps install does not take arguments (received %s)", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall(logger)
	default:
		printError("unknown deps subcommand %q", args[0])
		return 1
	}
}

func runDepsInstall(logger *slog.Logger) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		printError("unable to locate package.yml: %v", err)
		return 1
	}
	cacheDir, err := driver.ResolveHome()
	if err != nil {
		printError("failed to resolve %s: %v", driver.HomeEnv, err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.DependencyOrder))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	loader := driver.NewLoader(driver.WithLogger(logger), driver.WithFetcher(driver.NewGitFetcher(cacheDir, logger)))
	deps, err := loader.ResolveDependencies(manifest)
	if err != nil {
		printError("failed to resolve dependencies: %v", err)
		return 1
	}
	for _, dep := range deps {
		fmt.Fprintf(os.Stdout, "  %s (%s) -> %s\n", dep.Name, dep.Source, dep.Dir)
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

// newLoader wires the git fetcher when a home directory can be resolved;
// without one only path dependencies load.
func newLoader(logger *slog.Logger) *driver.Loader {
	opts := []driver.LoaderOption{driver.WithLogger(logger)}
	if home, err := driver.ResolveHome(); err == nil {
		opts = append(opts, driver.WithFetcher(driver.NewGitFetcher(home, logger)))
	} else {
		logger.Warn("git dependencies unavailable", "error", err)
	}
	return driver.NewLoader(opts...)
}
