package commands

import (
	"strings"

	"github.com/cat-mip/cat-mip/registry"
	"github.com/spf13/cobra"
)

// NewNewCmd creates the new command, which scaffolds a draft term
// record under standards/draft.
func NewNewCmd(app *App) *cobra.Command {
	var (
		author string
		github string
	)

	cmd := &cobra.Command{
		Use:   "new <term>",
		Short: "Scaffold a draft term record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			term := registry.NewDraft(name, author, github)
			term.Clean()
			return saveDraft(cmd, app, term)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author name recorded on the draft")
	cmd.Flags().StringVar(&github, "github", "", "Author GitHub handle")

	return cmd
}
