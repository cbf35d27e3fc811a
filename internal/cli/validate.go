package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rgehrsitz/ruletree/internal/expr"
	"rgehrsitz/ruletree/internal/preprocessor"
)

func NewValidateCmd(_ *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Check a rule document and its expressions without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			format, err := preprocessor.FormatFromPath(path)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read rule document: %w", err)
			}

			doc, err := preprocessor.ParseDocument(data, format)
			if err != nil {
				return err
			}

			if err := preprocessor.ValidateDocument(doc); err != nil {
				return err
			}

			// Compiling checks every expression without running any of them.
			env, err := expr.NewEnvironment()
			if err != nil {
				return err
			}
			if _, err := preprocessor.Compile(doc, env, nil); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return err
		},
	}
}
