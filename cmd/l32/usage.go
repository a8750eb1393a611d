package main

import (
	"fmt"
	"log/slog"
	"os"

	"l32/interpreter-go/pkg/jsgen"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  l32 run [--desugar] [file]")
	fmt.Fprintln(os.Stderr, "  l32 <file>")
	fmt.Fprintln(os.Stderr, "  l32 eval [--desugar] <expression>")
	fmt.Fprintln(os.Stderr, "  l32 repl [--desugar]")
	fmt.Fprintln(os.Stderr, "  l32 desugar <file>")
	fmt.Fprintln(os.Stderr, "  l32 js <file>")
	fmt.Fprintln(os.Stderr, "  l32 deps install")
	fmt.Fprintln(os.Stderr, "  l32 version")
	fmt.Fprintln(os.Stderr, "Flags: --verbose, --no-color")
}

func runJS(args []string, logger *slog.Logger) int {
	if len(args) != 1 {
		printError("l32 js requires exactly one source file")
		return 1
	}
	program, err := newLoader(logger).LoadFile(args[0])
	if err != nil {
		printError("failed to load program: %v", err)
		return 1
	}
	js, err := jsgen.Translate(program)
	if err != nil {
		printError("%v", err)
		return 1
	}
	if err := jsgen.Validate(js); err != nil {
		printError("%v", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, js)
	return 0
}
