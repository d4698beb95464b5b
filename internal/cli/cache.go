package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/pkg/cache"
)

// cacheCommand groups the commands that manage the local file cache.
// Remote caches expire entries on their own and are never touched here.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show how many entries the cache holds and their size",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fc, err := openLocalCache()
				if fc == nil || err != nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", fmt.Sprint(n))
				printKeyValue("Size", formatBytes(size))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached entry",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fc, err := openLocalCache()
				if fc == nil || err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Removed %d cached entries", n)
				printDetail("%s", fc.Dir())
				return nil
			},
		},
	)
	return cmd
}

// openLocalCache opens the file cache without creating it. It returns nil
// and prints a note when nothing has been cached yet.
func openLocalCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache: %w", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Nothing cached yet")
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
