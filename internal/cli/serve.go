package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"geobuild-atlas/internal/config"
	"geobuild-atlas/internal/interfaces/router"
	"geobuild-atlas/internal/pkg/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.Env)

			app, db, rdb, err := router.CreateApp(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
				if rdb != nil {
					_ = rdb.Close()
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				_ = app.ShutdownWithTimeout(10 * time.Second)
			}()

			log.Info().Str("port", cfg.Port).Msg("Serving Geo-Build Atlas API")
			return app.Listen(":" + cfg.Port)
		},
	}
	cmd.Flags().String("port", "", "listen port (env PORT)")
	cmd.Flags().String("redis", "", "Redis URL (env REDIS_URL)")
	_ = viper.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("REDIS_URL", cmd.Flags().Lookup("redis"))
	return cmd
}
