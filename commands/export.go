package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cat-mip/cat-mip/export"
	"github.com/cat-mip/cat-mip/registry"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command group with json, skos, and
// csv subcommands. Each subcommand writes into the build directory.
func NewExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write machine-readable registry exports",
	}

	cmd.AddCommand(newExportJSONCmd(app))
	cmd.AddCommand(newExportSKOSCmd(app))
	cmd.AddCommand(newExportCSVCmd(app))

	return cmd
}

func newExportJSONCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "json",
		Short: "Write cat-mip.json and cat-mip-dev.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			reg, err := app.loadRegistry()
			if err != nil {
				return err
			}

			if err := export.WriteJSON(reg, cfg.Paths.Build); err != nil {
				return fmt.Errorf("write JSON exports: %w", err)
			}

			app.Logger().Info("JSON exports written",
				"dir", cfg.Paths.Build,
				"accepted", len(reg.ByStatus(registry.StatusAccepted)),
				"draft", len(reg.ByStatus(registry.StatusDraft)))
			return nil
		},
	}
}

func newExportSKOSCmd(app *App) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "skos",
		Short: "Write the SKOS concept scheme",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			reg, err := app.loadRegistry()
			if err != nil {
				return err
			}

			skos := export.NewSKOSExporter(reg)
			output, err := skos.Export(format)
			if err != nil {
				return fmt.Errorf("export SKOS: %w", err)
			}

			if err := os.MkdirAll(cfg.Paths.Build, 0755); err != nil {
				return fmt.Errorf("create build dir: %w", err)
			}
			path := filepath.Join(cfg.Paths.Build, SKOSBasename+format.Extension())
			if err := os.WriteFile(path, []byte(output), 0644); err != nil {
				return fmt.Errorf("write SKOS export: %w", err)
			}

			app.Logger().Info("SKOS export written",
				"path", path,
				"format", string(format),
				"concepts", skos.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&formatName, "format", "turtle", "Output format (turtle, ntriples, jsonld)")

	return cmd
}

func newExportCSVCmd(app *App) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the prompts CSV for accepted terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()

			// A terms JSON export carries expected_outputs, which the
			// YAML records do not; reading one back preserves them.
			var terms []export.TermExport
			if inputPath != "" {
				var err error
				terms, err = export.LoadJSON(inputPath)
				if err != nil {
					return err
				}
			} else {
				reg, err := app.loadRegistry()
				if err != nil {
					return err
				}
				terms = export.ExportTerms(reg.ByStatus(registry.StatusAccepted))
			}

			path, rows, err := export.WriteCSVFile(terms, cfg.Paths.Build, cfg.Export.StdVersion)
			if err != nil {
				return fmt.Errorf("write CSV export: %w", err)
			}

			app.Logger().Info("CSV export written", "path", path, "rows", rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Terms JSON export to read instead of the standards tree")

	return cmd
}
