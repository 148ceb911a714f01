package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	atlassvc "geobuild-atlas/internal/application/atlas"
	"geobuild-atlas/internal/application/catalog"
	"geobuild-atlas/internal/cache"
	"geobuild-atlas/internal/config"
	"geobuild-atlas/internal/infrastructure/seed"
	"geobuild-atlas/internal/interfaces/router"
	"geobuild-atlas/internal/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type options struct {
	dbURL    string
	seedFile string
	asJSON   bool
	logLevel string
}

// NewRootCmd builds the atlasctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "atlasctl",
		Short: "Geo-Build Atlas - query construction sites on the globe",
		Long: `atlasctl queries the Geo-Build Atlas dataset from the command line and
runs the HTTP API.

Without --db it reads the embedded dataset (or --seed); with --db it reads
the same database the API serves from, seeding it on first use.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.logLevel, "development")
		},
	}

	root.PersistentFlags().StringVar(&opts.dbURL, "db", "", "database URL or SQLite path (env DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.seedFile, "seed", "", "YAML dataset instead of the embedded one (env ATLAS_SEED_FILE)")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	_ = viper.BindPFlag("DATABASE_URL", root.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("ATLAS_SEED_FILE", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(
		newSearchCmd(opts),
		newProjectCmd(opts),
		newStatsCmd(opts),
		newLocateCmd(opts),
		newServeCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "atlasctl %s\n", Version)
			},
		},
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadService builds an atlas service over the embedded/seed dataset, or over
// the database when one is configured.
func loadService(ctx context.Context) (*atlassvc.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &atlassvc.Service{
		Catalog:      cat,
		Cache:        cache.NewMemoryCache(time.Minute, time.Minute),
		CacheTTL:     time.Minute,
		MarkerRadius: cfg.MarkerRadius,
	}, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if viper.GetString("DATABASE_URL") != "" {
		cat, _, err := router.LoadCatalog(ctx, cfg)
		return cat, err
	}
	projects, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	return catalog.New(projects)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
