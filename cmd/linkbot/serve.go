package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkbot/internal/admin"
	"linkbot/internal/banner"
	"linkbot/internal/bot"
	"linkbot/internal/broadcast"
	"linkbot/internal/config"
	"linkbot/internal/coupon"
	"linkbot/internal/handler"
	"linkbot/internal/router"
	"linkbot/internal/service"
	"linkbot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and, when enabled, the admin HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if err := cfg.Bot.Validate(); err != nil {
		return err
	}

	logger.Info().Msg("starting linkbot")

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	promoService := service.NewPromoService(repo, coupon.NewGenerator(logger), logger)
	linkService := service.NewLinkService(repo, logger)
	audienceService := service.NewAudienceService(repo, logger)

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	logger.Info().Str("username", api.Self.UserName).Msg("authorised on telegram")

	botHandler := bot.NewHandler(bot.Options{
		Client:             api,
		Promo:              promoService,
		Links:              linkService,
		Audience:           audienceService,
		Broadcaster:        broadcast.New(bot.NewBroadcastSender(api), cfg.Broadcast, logger),
		Admins:             admin.NewSet(cfg.Bot.AdminIDs),
		Sessions:           session.NewStore(),
		Banner:             newBannerProvider(ctx, cfg, logger),
		FastReservationURL: cfg.Bot.FastReservationURL,
	}, logger)

	if len(cfg.Bot.AdminIDs) == 0 {
		logger.Warn().Msg("no admin ids configured, admin commands are disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gctx, api, botHandler, cfg.Bot.PollTimeout, logger)
	})

	if cfg.Server.Enabled {
		mux := router.New(
			handler.NewPromoHandler(promoService, logger),
			handler.NewLinkHandler(linkService, logger),
			cfg.Auth.APIKey,
			logger,
		)

		server := &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g.Go(func() error {
			logger.Info().
				Str("address", cfg.Server.Address()).
				Msg("HTTP server started")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown server gracefully")
				if closeErr := server.Close(); closeErr != nil {
					logger.Error().Err(closeErr).Msg("failed to close server")
				}
				return fmt.Errorf("server shutdown failed: %w", err)
			}

			logger.Info().Msg("server shutdown completed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("linkbot stopped")
	return nil
}

// newBannerProvider prefers S3 when enabled and falls back to the local file.
func newBannerProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *banner.Provider {
	var s3Loader banner.Loader
	if cfg.S3.Enabled {
		loader, err := banner.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	}

	loader := banner.NewFallbackLoader(s3Loader, banner.NewFileLoader(logger), cfg.S3.Prefix, logger)
	return banner.NewProvider(loader, cfg.Bot.BannerFile, logger)
}
