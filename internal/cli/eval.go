package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rgehrsitz/ruletree/internal/preprocessor"
	"rgehrsitz/ruletree/pkg/explain"
	"rgehrsitz/ruletree/pkg/ruletree"
)

const (
	evalExamples = `  # Evaluate a rule document against a facts file:
  ruletree eval rules.yaml --facts facts.json

  # Explain the verdict:
  ruletree eval rules.yaml --facts facts.json --explain

  # Print the analysis as JSON and fail when the verdict is false:
  ruletree eval rules.json --output json --fail-on-false`
)

var (
	AllOutputs = []string{"text", "json"}

	ErrVerdictFalse  = errors.New("rules evaluated to false")
	ErrInvalidOutput = errors.New("invalid output format")
)

type EvalArgs struct {
	*RootArgs

	FactsPath   string
	Meta        map[string]string
	Output      string
	Explain     bool
	FailOnFalse bool
}

func NewEvalArgs(rootArgs *RootArgs) *EvalArgs {
	return &EvalArgs{
		RootArgs: rootArgs,
	}
}

func (ea *EvalArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ea.FactsPath, "facts", "f", "", "Path to a JSON or YAML facts file")
	cmd.Flags().StringToStringVar(&ea.Meta, "meta", nil, "Meta entries merged into every rule, as key=value")
	cmd.Flags().StringVarP(&ea.Output, "output", "o", "text", fmt.Sprintf("Output format, one of: %s", strings.Join(AllOutputs, ", ")))
	cmd.Flags().BoolVar(&ea.Explain, "explain", false, "Explain why each rule passed or failed")
	cmd.Flags().BoolVar(&ea.FailOnFalse, "fail-on-false", false, "Exit with an error when the verdict is false")

	err := cmd.MarkFlagFilename("facts", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark facts flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewEvalCmd(ea *EvalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "eval <rules-file>",
		Short:   "Evaluate a rule document",
		Example: evalExamples,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ea.Run(cmd.OutOrStdout(), args[0])
		},
	}

	ea.AddFlags(cmd)

	return cmd
}

// Run evaluates the rule document at path and writes the verdict to w.
func (ea *EvalArgs) Run(w io.Writer, path string) error {
	if ea.Output != "text" && ea.Output != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, ea.Output)
	}

	facts, err := loadFacts(ea.FactsPath)
	if err != nil {
		return err
	}

	spec, err := loadDocument(path, facts)
	if err != nil {
		return err
	}

	opts := ruletree.Options{Meta: make(map[string]any, len(ea.Meta))}
	for k, v := range ea.Meta {
		opts.Meta[k] = v
	}
	if ea.Explain {
		opts.Analyze = explain.Analyze
	}

	tree, err := ruletree.New(spec, opts)
	if err != nil {
		return fmt.Errorf("build rule tree: %w", err)
	}

	log.Info().Str("path", path).Bool("verdict", tree.Evaluate()).Msg("Evaluated rule document")

	if err := writeResult(w, tree, ea.Output); err != nil {
		return err
	}

	if ea.FailOnFalse && !tree.Evaluate() {
		return ErrVerdictFalse
	}

	return nil
}

func writeResult(w io.Writer, tree *ruletree.Tree, output string) error {
	if output == "json" {
		out, err := tree.AnalysisJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	if _, err := fmt.Fprintf(w, "verdict: %t\n", tree.Evaluate()); err != nil {
		return err
	}
	for _, line := range explain.Lines(tree.Analysis()) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func loadFacts(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	format, err := preprocessor.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}

	return preprocessor.ParseFacts(data, format)
}

func loadDocument(path string, facts map[string]any) (any, error) {
	format, err := preprocessor.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule document: %w", err)
	}

	return preprocessor.Load(data, format, facts)
}
