package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cat-mip/cat-mip/intake"
	"github.com/cat-mip/cat-mip/registry"
	"github.com/spf13/cobra"
)

const fetchTimeout = 30 * time.Second

// NewImportCmd creates the import command group. Imports produce a
// draft term record under standards/draft from an issue-form body or
// an HTML page.
func NewImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a draft term from an issue form or HTML page",
	}

	cmd.AddCommand(newImportIssueCmd(app))
	cmd.AddCommand(newImportHTMLCmd(app))

	return cmd
}

func newImportIssueCmd(app *App) *cobra.Command {
	var (
		author string
		github string
	)

	cmd := &cobra.Command{
		Use:   "issue <file>",
		Short: "Import a draft term from an issue-form body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read issue body: %w", err)
			}

			submission, err := intake.ParseIssue(string(body))
			if err != nil {
				return fmt.Errorf("parse issue: %w", err)
			}
			if err := submission.Validate(); err != nil {
				return fmt.Errorf("invalid submission: %w", err)
			}

			term := submission.Term(author, github)
			return saveDraft(cmd, app, term)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Submitter name recorded on the draft")
	cmd.Flags().StringVar(&github, "github", "", "Submitter GitHub handle")

	return cmd
}

func newImportHTMLCmd(app *App) *cobra.Command {
	var (
		author string
		github string
	)

	cmd := &cobra.Command{
		Use:   "html <url|file>",
		Short: "Import a draft term from an HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			var (
				content   []byte
				pageURL   string
				sourceURL string
			)

			if isURL(source) {
				fetcher := intake.NewFetcher(fetchTimeout)
				data, err := fetcher.Fetch(cmd.Context(), source)
				if err != nil {
					return fmt.Errorf("fetch page: %w", err)
				}
				content = data
				pageURL = source
				sourceURL = source
			} else {
				data, err := os.ReadFile(source)
				if err != nil {
					return fmt.Errorf("read HTML file: %w", err)
				}
				content = data
			}

			importer := intake.NewHTMLImporter()
			imported, err := importer.Import(content, pageURL)
			if err != nil {
				return fmt.Errorf("import HTML: %w", err)
			}

			term, err := imported.Term(author, github, sourceURL)
			if err != nil {
				return err
			}
			return saveDraft(cmd, app, term)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Submitter name recorded on the draft")
	cmd.Flags().StringVar(&github, "github", "", "Submitter GitHub handle")

	return cmd
}

// saveDraft assigns the next free ID and writes the draft into the
// standards tree.
func saveDraft(cmd *cobra.Command, app *App, term *registry.Term) error {
	reg, err := app.loadRegistry()
	if err != nil {
		return err
	}

	if existing, ok := reg.Lookup(term.Name); ok {
		return fmt.Errorf("term %q already exists (%s)", existing.Name, existing.ID)
	}

	term.ID = reg.NextID()
	path, err := term.Save(app.Config().Paths.Standards)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	app.Logger().Info("Draft created", "term", term.Name, "id", term.ID, "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
