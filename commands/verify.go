package commands

import (
	"fmt"

	"github.com/cat-mip/cat-mip/verify"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command. It checks the standards
// tree for duplicate IDs, malformed records, and consistency issues,
// exiting non-zero when any error is found.
func NewVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the term registry",
		Long: `Verify loads every term record under the standards tree and checks
for duplicate IDs, missing or malformed fields, and dangling
relationships. Warnings are reported but do not fail the command;
errors do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.loadRegistry()
			if err != nil {
				return err
			}

			result := verify.Run(reg)
			for _, issue := range result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "WARNING: %s\n", issue)
			}
			for _, issue := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "ERROR: %s\n", issue)
			}

			if !result.OK() {
				return fmt.Errorf("verification failed: %d error(s), %d warning(s)",
					len(result.Errors), len(result.Warnings))
			}

			app.Logger().Info("Registry verified",
				"terms", len(reg.Terms),
				"warnings", len(result.Warnings))
			return nil
		},
	}
}
