package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stemma/internal/server"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Sources in requests resolve against the configured upstream base URL.
Local files are only readable when the configuration allows them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			if noMetrics {
				c.Config.Server.Metrics = false
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	store, err := c.Config.OpenCache(ctx, dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	fetcher := fetch.NewClient(c.Config.FetchOptions(store, c.Logger))
	runner := pipeline.NewRunner(store, nil, fetcher, c.Logger)

	fmt.Fprintln(out, StyleTitle.Render("Stemma API"))
	printKeyValue("listen", StyleLink.Render("http://"+displayAddr(c.Config.Server.Addr)))
	printKeyValue("cache", c.Config.Cache.Backend)
	if c.Config.Upstream.BaseURL != "" {
		printKeyValue("upstream", c.Config.Upstream.BaseURL)
	}
	printNewline()

	return server.New(c.Config, runner, c.Logger).Run(ctx)
}

// displayAddr turns a bare port address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
