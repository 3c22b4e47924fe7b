package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/batch"
	"github.com/flowexpr/fex/script"
	fexyaml "github.com/flowexpr/fex/yaml"
)

var (
	inputsFile  string
	concurrency int
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run <flow.yaml> [input...]",
	Short: "Run a flow expression against one or more inputs",
	Long: `Load a flow-expression document from YAML and run it against one or
more input strings using fex's builtin text cursor.

The document's operator/action names are resolved against fex's builtin
text-scanning operators (digit, letter, literal, eos, const, jsonpath),
any Lua scripts discovered under ~/.fex/scripts, and the "script"
operator/action types they register.

With a single input the flow runs inline. With more than one input
(positional args and/or --inputs-file lines combined), each input gets
its own axiom instance and they run concurrently, bounded by
--concurrency.`,
	Example: `  # Run a flow against a literal input
  fex run digits.yaml "12345"

  # Run with verbose tracing of each operator
  fex run --verbose digits.yaml "12345"

  # Run against many inputs concurrently
  fex run --concurrency 8 digits.yaml "12345" "67890" --inputs-file more.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := append([]string{}, args[1:]...)
		if inputsFile != "" {
			fileInputs, err := readInputsFile(inputsFile)
			if err != nil {
				return fmt.Errorf("read inputs file: %w", err)
			}
			inputs = append(inputs, fileInputs...)
		}
		if len(inputs) == 0 {
			inputs = []string{""}
		}
		return runFlow(args[0], inputs)
	},
}

func init() {
	runCmd.Flags().StringVar(&inputsFile, "inputs-file", "", "file of newline-delimited inputs to run the flow against")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "max axiom instances to run at once when given multiple inputs")
	rootCmd.AddCommand(runCmd)
}

func readInputsFile(path string) ([]string, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func runFlow(filePath string, inputs []string) error {
	filePath, err := expandPath(filePath)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}

	scripts := script.NewManager("", verbose)
	if err := scripts.Discover(); err != nil {
		logger.Debug("script discovery failed", zap.Error(err))
	}

	def, err := fexyaml.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("parse flow: %w", err)
	}

	loader := fexyaml.NewLoader(newRegistry(scripts))
	if verbose {
		loader = loader.WithTracer(zapTracer(logger))
	}

	axiom, err := loader.LoadDefinition(def)
	if err != nil {
		return fmt.Errorf("load flow: %w", err)
	}
	if len(inputs) == 1 {
		return runOne(axiom, inputs[0])
	}

	newAxiom := func() fex.Node[*textContext] {
		axiom, err := loader.LoadDefinition(def)
		if err != nil {
			// newAxiom has no error return; a definition that already
			// built once above cannot fail to build again.
			panic(err)
		}
		return axiom
	}

	ctxs := make([]*textContext, len(inputs))
	for i, in := range inputs {
		ctxs[i] = newTextContext(in)
	}

	results := batch.Run(context.Background(), newAxiom, ctxs, batch.WithConcurrency(concurrency))

	failed := 0
	for _, r := range results {
		if r.Passed {
			fmt.Printf("PASS %q\n", r.Context.src)
		} else {
			fmt.Printf("FAIL %q (stopped at %q)\n", r.Context.src, r.Context.Remaining())
			failed++
		}
	}
	fmt.Printf("\n%d/%d passed\n", len(results)-failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

func runOne(axiom fex.Node[*textContext], input string) error {
	ctx := newTextContext(input)
	passed := fex.Run(axiom, ctx)

	switch {
	case passed && ctx.AtEnd():
		fmt.Println("PASS (consumed entire input)")
	case passed:
		fmt.Printf("PASS (stopped at %q, %d bytes unconsumed)\n", ctx.Remaining(), len(ctx.Remaining()))
	default:
		fmt.Printf("FAIL (stopped at %q)\n", ctx.Remaining())
	}

	if !passed {
		return fmt.Errorf("flow did not match")
	}
	return nil
}

// zapTracer adapts a *zap.Logger to fex.Tracer[*textContext], logging
// every operator's pass/fail trace at debug level.
func zapTracer(logger *zap.Logger) fex.Tracer[*textContext] {
	return fex.TracerFunc[*textContext]{
		TraceFn: func(ctx *textContext, level int, message string) {
			logger.Debug(message, zap.Int("level", level), zap.String("remaining", ctx.Remaining()))
		},
		TraceResultFn: func(ctx *textContext, level int, message string, passed bool) {
			logger.Debug(message, zap.Int("level", level), zap.Bool("passed", passed), zap.String("remaining", ctx.Remaining()))
		},
	}
}
