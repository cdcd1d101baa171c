package commands

import (
	"fmt"

	"github.com/cat-mip/cat-mip/export"
	"github.com/cat-mip/cat-mip/publish"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

// NewPublishCmd creates the publish command, which syncs the registry
// into the NATS JetStream key-value bucket and emits a term event per
// record.
func NewPublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the registry to NATS",
		Long: `Publish loads the registry, writes every term with an ID into the
JetStream key-value bucket, and publishes a term event per record so
downstream consumers can track registry changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			logger := app.Logger()

			if cfg.NATS.URL == "" {
				return fmt.Errorf("nats.url is not configured; set it in catmip.yaml or pass --config")
			}

			reg, err := app.loadRegistry()
			if err != nil {
				return err
			}

			nc, err := nats.Connect(cfg.NATS.URL, nats.Name("catmip"))
			if err != nil {
				return fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
			}
			defer nc.Close()

			publisher, err := publish.New(cmd.Context(), nc, cfg.NATS.SubjectPrefix, logger)
			if err != nil {
				return fmt.Errorf("create publisher: %w", err)
			}

			terms := export.ExportTerms(reg.Terms)
			count, err := publisher.Sync(cmd.Context(), terms)
			if err != nil {
				return fmt.Errorf("sync registry: %w", err)
			}

			logger.Info("Registry published",
				"url", cfg.NATS.URL,
				"terms", count,
				"subject_prefix", cfg.NATS.SubjectPrefix)
			return nil
		},
	}
}
