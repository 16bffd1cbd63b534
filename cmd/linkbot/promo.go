package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"linkbot/internal/coupon"
	"linkbot/internal/model"
	"linkbot/internal/service"

	"github.com/spf13/cobra"
)

func newPromoCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "promo",
		Short: "Inspect or change the promo campaign in the configured storage",
	}
	c.AddCommand(newPromoStatusCmd(a))
	c.AddCommand(newPromoSetCmd(a))
	return c
}

func newPromoStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the campaign status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			promo, closeRepo, err := openPromoService(c, a)
			if err != nil {
				return err
			}
			defer closeRepo()

			status, err := promo.Snapshot(c.Context())
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), status)
		},
	}
}

func newPromoSetCmd(a *app) *cobra.Command {
	var (
		enabled bool
		limit   int
		prefix  string
	)

	c := &cobra.Command{
		Use:     "set",
		Short:   "Change campaign settings; unset flags keep their value",
		Example: "  linkbot promo set --enabled=false\n  linkbot promo set --limit 250 --prefix VIP",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			var settings model.PromoSettings
			if c.Flags().Changed("enabled") {
				settings.Enabled = &enabled
			}
			if c.Flags().Changed("limit") {
				settings.Limit = &limit
			}
			if c.Flags().Changed("prefix") {
				settings.Prefix = &prefix
			}
			if settings.Enabled == nil && settings.Limit == nil && settings.Prefix == nil {
				return errors.New("nothing to update: pass --enabled, --limit or --prefix")
			}

			promo, closeRepo, err := openPromoService(c, a)
			if err != nil {
				return err
			}
			defer closeRepo()

			status, err := promo.UpdateSettings(c.Context(), settings)
			if err != nil {
				return fmt.Errorf("failed to update promo settings: %w", err)
			}
			return printJSON(c.OutOrStdout(), status)
		},
	}

	c.Flags().BoolVar(&enabled, "enabled", false, "turn the campaign on or off")
	c.Flags().IntVar(&limit, "limit", 0, "maximum number of codes to hand out")
	c.Flags().StringVar(&prefix, "prefix", "", "prefix for newly issued codes")

	return c
}

func openPromoService(c *cobra.Command, a *app) (service.PromoService, func(), error) {
	repo, closeRepo, err := openRepository(c.Context(), a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return service.NewPromoService(repo, coupon.NewGenerator(a.logger), a.logger), closeRepo, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
