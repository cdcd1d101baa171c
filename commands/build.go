package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cat-mip/cat-mip/export"
	"github.com/cat-mip/cat-mip/registry"
	"github.com/cat-mip/cat-mip/site"
	"github.com/cat-mip/cat-mip/verify"
	"github.com/spf13/cobra"
)

// SKOSBasename is the filename stem for the SKOS export.
const SKOSBasename = "cat-mip.skos"

// NewBuildCmd creates the build command: verify the registry, then
// generate the documentation site and all machine-readable exports
// into the build directory.
func NewBuildCmd(app *App) *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site and all registry exports",
		Long: `Build verifies the registry, renders the documentation site into
build/docs, and writes the JSON, SKOS, and CSV exports into the build
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			logger := app.Logger()

			reg, err := app.loadRegistry()
			if err != nil {
				return err
			}

			if !skipVerify {
				result := verify.Run(reg)
				for _, issue := range result.Warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "WARNING: %s\n", issue)
				}
				for _, issue := range result.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "ERROR: %s\n", issue)
				}
				if !result.OK() {
					return fmt.Errorf("verification failed: %d error(s)", len(result.Errors))
				}
			}

			builder := site.NewBuilder(cfg.DocsDir(), cfg.Paths.Assets, logger)
			if err := builder.Build(reg); err != nil {
				return fmt.Errorf("build site: %w", err)
			}
			logger.Info("Site generated", "dir", cfg.DocsDir())

			if err := export.WriteJSON(reg, cfg.Paths.Build); err != nil {
				return fmt.Errorf("write JSON exports: %w", err)
			}
			logger.Info("JSON exports written",
				"accepted", len(reg.ByStatus(registry.StatusAccepted)),
				"draft", len(reg.ByStatus(registry.StatusDraft)))

			skos := export.NewSKOSExporter(reg)
			output, err := skos.Export(export.FormatTurtle)
			if err != nil {
				return fmt.Errorf("export SKOS: %w", err)
			}
			skosPath := filepath.Join(cfg.Paths.Build, SKOSBasename+export.FormatTurtle.Extension())
			if err := os.WriteFile(skosPath, []byte(output), 0644); err != nil {
				return fmt.Errorf("write SKOS export: %w", err)
			}
			logger.Info("SKOS export written", "path", skosPath, "concepts", skos.Len())

			terms := export.ExportTerms(reg.ByStatus(registry.StatusAccepted))
			csvPath, rows, err := export.WriteCSVFile(terms, cfg.Paths.Build, cfg.Export.StdVersion)
			if err != nil {
				return fmt.Errorf("write CSV export: %w", err)
			}
			logger.Info("CSV export written", "path", csvPath, "rows", rows)

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip registry verification before building")

	return cmd
}
