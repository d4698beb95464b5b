package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/internal/server"
	"github.com/matzehuels/geosvg/pkg/cache"
	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// serveKeyPrefix keeps server cache entries apart from CLI entries in a
// shared remote cache.
const serveKeyPrefix = "serve:"

// serveCommand runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		timeout time.Duration
		flags   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve POST /render, POST /bounds and GET /healthz.

Requests carry inline WKT or GeoJSON with a style and output format; the
response is the rendered artifact. All requests share one cached pipeline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.newCache(ctx, flags)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, serveKeyPrefix), c.Logger)
			defer runner.Close()

			srv := server.New(runner, c.Logger.WithPrefix("http"), server.Options{
				MaxBody: maxBody,
				Timeout: timeout,
			})
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	flags.register(cmd)

	return cmd
}
