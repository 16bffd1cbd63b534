package main

import (
	"fmt"

	"linkbot/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "linkbot",
		Short: "Telegram link directory bot with a capped promo code campaign",
		Example: `  BOT_TOKEN=123:abc ADMIN_IDS=42 linkbot serve
  linkbot promo status
  linkbot promo set --limit 200 --enabled=true
  linkbot import --from links.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = config.NewLoggerTo(cfg.Logger, c.ErrOrStderr())
			return nil
		},
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPromoCmd(a))
	root.AddCommand(newImportCmd(a))

	return root
}
