package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/internal/server"
	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve exposes POST /v1/place, POST /v1/measure and GET /healthz. Results are
cached on the configured backend under an "api:" prefix, so a shared Redis
instance can serve both the CLI and the API. Stops cleanly on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			cc, err := c.newCache(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
			runner.TTL = cfg.Cache.TTL.Duration
			defer runner.Close()

			printInfo("Serving the placement API")
			printKeyValue("Address", cfg.Server.Addr)
			printKeyValue("Cache", cfg.Cache.Backend)
			return server.New(cfg, runner, c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
