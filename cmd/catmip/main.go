// Package main provides the catmip binary entry point.
// Catmip maintains the CAT-MIP terminology registry: it verifies the
// term records under standards/, generates the documentation site and
// machine-readable exports, and serves the result.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cat-mip/cat-mip/commands"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "catmip"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	app := &commands.App{}

	cmd := &cobra.Command{
		Use:   "catmip",
		Short: "CAT-MIP terminology registry toolchain",
		Long: `Catmip maintains the CAT-MIP terminology registry.

It provides:
- Registry verification (duplicate IDs, malformed records)
- Documentation site generation from term records
- JSON, SKOS, and CSV exports
- A docs server with optional live rebuild
- Draft intake from issue forms and HTML pages

Term records are YAML files under standards/, one folder per status.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(commands.NewBuildCmd(app))
	cmd.AddCommand(commands.NewVerifyCmd(app))
	cmd.AddCommand(commands.NewExportCmd(app))
	cmd.AddCommand(commands.NewServeCmd(app))
	cmd.AddCommand(commands.NewImportCmd(app))
	cmd.AddCommand(commands.NewNewCmd(app))
	cmd.AddCommand(commands.NewPublishCmd(app))

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
	versionCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
	cmd.AddCommand(versionCmd)

	return cmd
}
