package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/api"
	"github.com/matzehuels/untangle/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve exposes crossing counts, optimization and rendering over HTTP:

  GET  /healthz
  POST /v1/crossings
  POST /v1/optimize
  POST /v1/render?format=dot|svg

Optimization results share the configured cache with the CLI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner, pipeline.OptionsFromConfig(c.cfg), cfg, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx, cfg.Addr, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", c.cfg.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
