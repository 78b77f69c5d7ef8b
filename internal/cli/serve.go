package cli

import (
	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/internal/server"
	"github.com/mkoster/pibauhaus/pkg/pipeline"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// serveCommand creates the serve command, running the HTTP preview server.
// All server settings come from PIBAUHAUS_* environment variables.
func (c *CLI) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered posters over HTTP",
		Long: `Serve starts the poster preview server, configured entirely through
PIBAUHAUS_* environment variables: PIBAUHAUS_ADDR for the listen address,
PIBAUHAUS_CONFIG for an optional poster TOML file, and PIBAUHAUS_CACHE to
pick the cache backend (file, redis, mongo, or none).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}

			pcfg := poster.Default()
			if cfg.ConfigPath != "" {
				if pcfg, err = poster.LoadFile(cfg.ConfigPath); err != nil {
					return err
				}
			}

			store, err := cfg.OpenCache(cmd.Context())
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, logger)
			defer runner.Close()

			srv := server.New(cfg, pcfg, runner, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
}
