package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/pkg/buildinfo"
	"github.com/matzehuels/geosvg/pkg/cache"
	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/pipeline"
)

const (
	appName = "geosvg"

	// envCacheURL names a remote cache used when --cache-url is not given.
	envCacheURL = "GEOSVG_CACHE_URL"
)

// Log levels for main.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Command groups shown in the root help.
const (
	groupDraw  = "draw"
	groupTools = "tools"
)

// CLI holds the state shared by every command.
type CLI struct {
	Logger *log.Logger
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel changes the level after flags are parsed.
func (c *CLI) SetLogLevel(level log.Level) { c.Logger.SetLevel(level) }

// RootCommand builds the geosvg command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "geosvg draws geometry as SVG",
		Long: `geosvg turns points, lines and polygons from GeoJSON, WKT, CSV or KML
files into standalone SVG documents, with optional PNG, PDF and JSON output.

Each input is styled (fill, stroke, dashes, opacity, point radius) and the
document's viewBox is computed from the union of everything drawn.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.AddGroup(
		&cobra.Group{ID: groupDraw, Title: "Drawing:"},
		&cobra.Group{ID: groupTools, Title: "Tools:"},
	)

	for _, cmd := range []*cobra.Command{c.renderCommand(), c.boundsCommand(), c.previewCommand(), c.serveCommand()} {
		cmd.GroupID = groupDraw
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{c.cacheCommand(), c.completionCommand()} {
		cmd.GroupID = groupTools
		root.AddCommand(cmd)
	}
	return root
}

// cacheFlags selects the cache behind a runner.
type cacheFlags struct {
	noCache bool
	url     string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "remote cache (redis://, mongodb://); default $"+envCacheURL+" or the local cache")
}

// remoteURL is the --cache-url value, falling back to the environment.
func (f cacheFlags) remoteURL() string {
	if f.url != "" {
		return f.url
	}
	return os.Getenv(envCacheURL)
}

func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks, in order: no cache, the remote cache named by flag or
// environment, or the file cache under cacheDir. A missing home directory
// disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	if flags.noCache {
		return cache.NewNullCache(), nil
	}

	if url := flags.remoteURL(); url != "" {
		if err := errors.ValidateCacheURL(url); err != nil {
			return nil, err
		}
		cc, err := cache.Open(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		scheme, _, _ := strings.Cut(url, ":")
		c.Logger.Debug("using remote cache", "scheme", scheme)
		return cc, nil
	}

	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// parseFormats splits a comma-separated --format value.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
