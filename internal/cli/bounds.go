package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// boundsCommand prints the frame a render would produce without writing it.
func (c *CLI) boundsCommand() *cobra.Command {
	var (
		flags  renderFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "bounds [files...]",
		Short: "Print the viewBox and size of the rendered document",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), flags.cache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			meta, err := runner.Bounds(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(meta, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printBounds(meta)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the metadata as JSON")
	flags.registerSources(cmd)
	flags.registerScene(cmd)
	flags.cache.register(cmd)

	return cmd
}

func printBounds(meta pipeline.Metadata) {
	printKeyValue("viewBox", meta.ViewBox)
	if meta.Render != nil {
		printKeyValue("size", meta.Render.Width+" × "+meta.Render.Height)
	}
	for _, l := range meta.Layers {
		printKeyValue(l.Name, fmt.Sprintf("%s, %s", plural(l.Features, "feature"), plural(l.Shapes, "shape")))
	}
}
