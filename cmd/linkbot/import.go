package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"linkbot/internal/config"
	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/spf13/cobra"
)

// importSummary is what the import command prints.
type importSummary struct {
	Backend  string `json:"backend"`
	Quick    int    `json:"quick"`
	Channels int    `json:"channels"`
	Sites    int    `json:"sites"`
	Users    int    `json:"users"`
	Winners  int    `json:"winners"`
}

func newImportCmd(a *app) *cobra.Command {
	var from string

	c := &cobra.Command{
		Use:     "import",
		Short:   "Copy a links.json file into the configured storage, replacing its document",
		Example: "  STORAGE_BACKEND=postgres DB_HOST=db linkbot import --from links.json",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if _, err := os.Stat(from); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("source file %s does not exist", from)
				}
				return fmt.Errorf("failed to stat source file: %w", err)
			}
			if a.cfg.Storage.Backend == config.BackendFile && samePath(from, a.cfg.Storage.FilePath) {
				return errors.New("source and target are the same file")
			}

			defaults := model.PromoConfig{
				Enabled: a.cfg.Promo.Enabled,
				Limit:   a.cfg.Promo.Limit,
				Prefix:  a.cfg.Promo.Prefix,
			}
			doc, err := repository.NewFileRepository(from, defaults, a.logger).Load(c.Context())
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", from, err)
			}

			target, closeRepo, err := openRepository(c.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := target.Save(c.Context(), doc); err != nil {
				return fmt.Errorf("failed to save document: %w", err)
			}

			a.logger.Info().Str("from", from).Str("backend", a.cfg.Storage.Backend).Msg("document imported")

			return printJSON(c.OutOrStdout(), importSummary{
				Backend:  a.cfg.Storage.Backend,
				Quick:    len(doc.Quick),
				Channels: len(doc.Channels),
				Sites:    len(doc.Sites),
				Users:    len(doc.Users),
				Winners:  len(doc.Promo.Winners),
			})
		},
	}

	c.Flags().StringVar(&from, "from", "", "path to the links.json file to import")
	_ = c.MarkFlagRequired("from")

	return c
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
