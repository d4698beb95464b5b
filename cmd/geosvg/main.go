package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/internal/cli"
	"github.com/matzehuels/geosvg/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and request events")

	// The level is only known once flags are parsed.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		c.SetLogLevel(cli.LogDebug)
		hooks := observability.NewLogHooks(c.Logger.WithPrefix("hooks"))
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		return nil
	}

	return root.ExecuteContext(ctx)
}
